// Package search provides full-text recipe search using Bleve.
// Every document carries its owner so queries never cross users.
package search

import (
	"github.com/recipehub/recipehub-server/internal/domain"
)

// SearchDocument is the structure indexed for each live recipe.
type SearchDocument struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	BookID  string `json:"book_id,omitempty"`

	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`  // Ingredient names or free text
	Instructions []string `json:"instructions,omitempty"` // Step text
	Tags         []string `json:"tags,omitempty"`         // Normalized keyword slugs

	// Timestamps for sorting
	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"owner_id":   d.OwnerID,
		"name":       d.Name,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.BookID != "" {
		m["book_id"] = d.BookID
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Ingredients) > 0 {
		m["ingredients"] = d.Ingredients
	}
	if len(d.Instructions) > 0 {
		m["instructions"] = d.Instructions
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// RecipeToSearchDocument converts a recipe to a SearchDocument. Sections are
// flattened; blank entries are skipped.
func RecipeToSearchDocument(recipe *domain.Recipe) *SearchDocument {
	doc := &SearchDocument{
		ID:          recipe.ID,
		OwnerID:     recipe.OwnerID,
		BookID:      recipe.BookID,
		Name:        recipe.Name,
		Description: recipe.Description,
		Tags:        recipe.Tags,
		CreatedAt:   recipe.CreatedAt.UnixMilli(),
		UpdatedAt:   recipe.UpdatedAt.UnixMilli(),
	}

	for _, ing := range recipe.Ingredients.All() {
		if kw := ing.Keyword(); kw != "" {
			doc.Ingredients = append(doc.Ingredients, kw)
		}
	}
	for _, step := range recipe.Instructions.All() {
		if step != "" {
			doc.Instructions = append(doc.Instructions, step)
		}
	}

	return doc
}
