package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecipeBook_AddRecipe_KeepsCountInSync(t *testing.T) {
	now := time.Now()
	book := &RecipeBook{ID: "book-1", OwnerID: "user-1", Name: "Weeknights"}

	assert.True(t, book.AddRecipe("rcp-1", now))
	assert.True(t, book.AddRecipe("rcp-2", now))

	assert.Equal(t, []string{"rcp-1", "rcp-2"}, book.RecipeIDs)
	assert.Equal(t, 2, book.RecipeCount)
	assert.Equal(t, now, book.UpdatedAt)
}

func TestRecipeBook_AddRecipe_IgnoresDuplicates(t *testing.T) {
	book := &RecipeBook{RecipeIDs: []string{"rcp-1"}, RecipeCount: 1}
	before := book.UpdatedAt

	assert.False(t, book.AddRecipe("rcp-1", time.Now()))
	assert.Equal(t, 1, book.RecipeCount)
	assert.Equal(t, before, book.UpdatedAt)
}

func TestRecipeBook_RemoveRecipe(t *testing.T) {
	book := &RecipeBook{RecipeIDs: []string{"rcp-1", "rcp-2", "rcp-3"}, RecipeCount: 3}

	assert.True(t, book.RemoveRecipe("rcp-2", time.Now()))
	assert.Equal(t, []string{"rcp-1", "rcp-3"}, book.RecipeIDs)
	assert.Equal(t, 2, book.RecipeCount)

	assert.False(t, book.RemoveRecipe("rcp-9", time.Now()))
	assert.Equal(t, 2, book.RecipeCount)
	assert.True(t, book.ContainsRecipe("rcp-3"))
	assert.False(t, book.ContainsRecipe("rcp-2"))
}

func TestArchivable_MarkArchived(t *testing.T) {
	now := time.Now()
	var a Archivable
	a.InitTimestamps(now.Add(-time.Hour))
	assert.False(t, a.IsArchived())

	a.MarkArchived(now)

	assert.True(t, a.IsArchived())
	assert.Equal(t, now, *a.ArchivedAt)
	assert.Equal(t, now, a.UpdatedAt)
	assert.Equal(t, now.Add(-time.Hour), a.CreatedAt)
}

func TestRecipeUpdate_ApplyOnlyPresentFields(t *testing.T) {
	recipe := &Recipe{
		Name:        "Soup",
		Description: "Warm",
		Servings:    2,
		BookID:      "book-1",
		Ingredients: Flat(FreeText("water")),
	}

	name := "Better soup"
	book := "book-2"
	previous := RecipeUpdate{Name: &name, BookID: &book}.Apply(recipe)

	assert.Equal(t, "book-1", previous)
	assert.Equal(t, "Better soup", recipe.Name)
	assert.Equal(t, "Warm", recipe.Description)
	assert.Equal(t, 2, recipe.Servings)
	assert.Equal(t, "book-2", recipe.BookID)
	assert.Equal(t, 1, recipe.Ingredients.Len())
}

func TestRecipe_Snapshot(t *testing.T) {
	recipe := &Recipe{
		ID:             "rcp-1",
		Name:           "Toast",
		CookTime:       "5 min",
		Servings:       1,
		Ingredients:    Flat(Structured(Qty(2), "", "slices bread")),
		Instructions:   Flat("Toast the bread"),
		OriginalSource: "grandma",
		ViewCount:      7,
	}

	snap := recipe.Snapshot()

	assert.Equal(t, "Toast", snap.Name)
	assert.Equal(t, "5 min", snap.CookTime)
	assert.Equal(t, 7, snap.ViewCount)
	assert.Equal(t, "grandma", snap.OriginalSource)
	assert.Equal(t, []string{"Toast the bread"}, snap.Instructions.Items())
}
