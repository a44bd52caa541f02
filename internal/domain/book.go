package domain

import (
	"slices"
	"time"
)

// RecipeBook is a user's named collection of recipes. RecipeCount always
// equals len(RecipeIDs).
type RecipeBook struct {
	Archivable
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	RecipeIDs   []string `json:"recipeIds"`
	RecipeCount int      `json:"recipeCount"`
}

// AddRecipe appends a recipe ID. Returns false if it is already present.
func (b *RecipeBook) AddRecipe(recipeID string, now time.Time) bool {
	if b.ContainsRecipe(recipeID) {
		return false
	}
	b.RecipeIDs = append(b.RecipeIDs, recipeID)
	b.RecipeCount = len(b.RecipeIDs)
	b.Touch(now)
	return true
}

// RemoveRecipe drops a recipe ID. Returns false if it was not present.
func (b *RecipeBook) RemoveRecipe(recipeID string, now time.Time) bool {
	i := slices.Index(b.RecipeIDs, recipeID)
	if i < 0 {
		return false
	}
	b.RecipeIDs = slices.Delete(b.RecipeIDs, i, i+1)
	b.RecipeCount = len(b.RecipeIDs)
	b.Touch(now)
	return true
}

// ContainsRecipe checks whether a recipe ID belongs to this book.
func (b *RecipeBook) ContainsRecipe(recipeID string) bool {
	return slices.Contains(b.RecipeIDs, recipeID)
}
