package domain

// Recipe is a user's recipe. CurrentVersion is the number of the latest
// Version snapshot stored for it.
type Recipe struct {
	Archivable
	ID             string           `json:"id"`
	OwnerID        string           `json:"ownerId"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	CookTime       string           `json:"cookTime"`
	Servings       int              `json:"servings"`
	Ingredients    List[Ingredient] `json:"ingredients"`
	Instructions   List[string]     `json:"instructions"`
	BookID         string           `json:"bookId"`
	OriginalSource string           `json:"originalSource"`
	ViewCount      int              `json:"viewCount"`
	CurrentVersion int              `json:"currentVersion"`
	Tags           []string         `json:"tags"`
}

// Snapshot captures the versioned content of the recipe.
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		Name:           r.Name,
		Description:    r.Description,
		CookTime:       r.CookTime,
		Servings:       r.Servings,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		OriginalSource: r.OriginalSource,
		ViewCount:      r.ViewCount,
	}
}

// RecipeUpdate is a partial update. Nil fields are left untouched.
type RecipeUpdate struct {
	Name           *string
	Description    *string
	CookTime       *string
	Servings       *int
	Ingredients    *List[Ingredient]
	Instructions   *List[string]
	BookID         *string
	OriginalSource *string
}

// Apply copies the present fields onto r and returns the book the recipe
// belonged to before, so callers can move it between books.
func (u RecipeUpdate) Apply(r *Recipe) (previousBookID string) {
	previousBookID = r.BookID

	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.CookTime != nil {
		r.CookTime = *u.CookTime
	}
	if u.Servings != nil {
		r.Servings = *u.Servings
	}
	if u.Ingredients != nil {
		r.Ingredients = *u.Ingredients
	}
	if u.Instructions != nil {
		r.Instructions = *u.Instructions
	}
	if u.BookID != nil {
		r.BookID = *u.BookID
	}
	if u.OriginalSource != nil {
		r.OriginalSource = *u.OriginalSource
	}

	return previousBookID
}
