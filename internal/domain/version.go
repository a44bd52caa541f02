package domain

import "time"

// Version notes and author used when the caller supplies none.
const (
	InitialVersionNotes = "Initial version"
	UpdateVersionNotes  = "Updated recipe"
	DefaultAuthor       = "User"
)

// Snapshot is the recipe content frozen into a Version.
type Snapshot struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	CookTime       string           `json:"cookTime"`
	Servings       int              `json:"servings"`
	Ingredients    List[Ingredient] `json:"ingredients"`
	Instructions   List[string]     `json:"instructions"`
	OriginalSource string           `json:"originalSource"`
	ViewCount      int              `json:"viewCount"`
}

// Version is an immutable snapshot of a recipe. Version numbers per recipe
// run 1, 2, 3 with no gaps.
type Version struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipeId"`
	OwnerID   string    `json:"ownerId"`
	Author    string    `json:"author"`
	Notes     string    `json:"notes"`
	Data      Snapshot  `json:"data"`
	Version   int       `json:"version"`
}
