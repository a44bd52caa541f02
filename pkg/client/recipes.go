package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/recipehub/recipehub-server/internal/diff"
	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/search"
)

// BookInput is the body of a book create or update.
type BookInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// CreateBookResult is returned by CreateBook.
type CreateBookResult struct {
	Message string             `json:"message"`
	ID      string             `json:"id"`
	Book    *domain.RecipeBook `json:"book"`
}

// RecipeInput is the body of a recipe create.
type RecipeInput struct {
	Name           string                         `json:"name"`
	Description    string                         `json:"description,omitempty"`
	CookTime       string                         `json:"cookTime,omitempty"`
	Servings       int                            `json:"servings,omitempty"`
	Ingredients    domain.List[domain.Ingredient] `json:"ingredients"`
	Instructions   domain.List[string]            `json:"instructions"`
	BookID         string                         `json:"bookId"`
	OriginalSource string                         `json:"originalSource,omitempty"`
}

// RecipeUpdate is a partial recipe update. Nil fields are not sent.
type RecipeUpdate struct {
	Name           *string                         `json:"name,omitempty"`
	Description    *string                         `json:"description,omitempty"`
	CookTime       *string                         `json:"cookTime,omitempty"`
	Servings       *int                            `json:"servings,omitempty"`
	Ingredients    *domain.List[domain.Ingredient] `json:"ingredients,omitempty"`
	Instructions   *domain.List[string]            `json:"instructions,omitempty"`
	BookID         *string                         `json:"bookId,omitempty"`
	OriginalSource *string                         `json:"originalSource,omitempty"`
	VersionNotes   string                          `json:"versionNotes,omitempty"`
}

// CreateRecipeResult is returned by CreateRecipe.
type CreateRecipeResult struct {
	Message string         `json:"message"`
	ID      string         `json:"id"`
	Recipe  *domain.Recipe `json:"recipe"`
}

// UpdateRecipeResult is returned by UpdateRecipe.
type UpdateRecipeResult struct {
	Message string          `json:"message"`
	Recipe  *domain.Recipe  `json:"recipe"`
	Version *domain.Version `json:"version"`
}

// VersionPair is returned by CompareVersions.
type VersionPair struct {
	Version1 *domain.Version `json:"version1"`
	Version2 *domain.Version `json:"version2"`
}

// SearchOptions narrow a recipe search.
type SearchOptions struct {
	Tags   []string
	BookID string
	Limit  int
	Offset int
	Sort   string
}

// ListBooks returns the caller's books.
func (c *Client) ListBooks(ctx context.Context) ([]*domain.RecipeBook, error) {
	var books []*domain.RecipeBook
	err := c.do(ctx, http.MethodGet, "/api/books", nil, nil, &books)
	return books, err
}

// ListBookRecipes returns the recipes in a book.
func (c *Client) ListBookRecipes(ctx context.Context, bookID string) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	err := c.do(ctx, http.MethodGet, "/api/books/"+pathEscape(bookID), nil, nil, &recipes)
	return recipes, err
}

// CreateBook creates a recipe book.
func (c *Client) CreateBook(ctx context.Context, in BookInput) (*CreateBookResult, error) {
	var out CreateBookResult
	if err := c.do(ctx, http.MethodPost, "/api/books", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook replaces a book's name, description and image.
func (c *Client) UpdateBook(ctx context.Context, bookID string, in BookInput) (*domain.RecipeBook, error) {
	var out struct {
		Book *domain.RecipeBook `json:"book"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/books/"+pathEscape(bookID), nil, in, &out); err != nil {
		return nil, err
	}
	return out.Book, nil
}

// DeleteBook archives a book.
func (c *Client) DeleteBook(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+pathEscape(bookID), nil, nil, nil)
}

// ListRecipes returns the caller's recipes.
func (c *Client) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	err := c.do(ctx, http.MethodGet, "/api/recipes", nil, nil, &recipes)
	return recipes, err
}

// GetRecipe returns a recipe. The server counts the view.
func (c *Client) GetRecipe(ctx context.Context, recipeID string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/recipes/"+pathEscape(recipeID), nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe creates a recipe.
func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (*CreateRecipeResult, error) {
	var out CreateRecipeResult
	if err := c.do(ctx, http.MethodPost, "/api/recipes", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecipe applies a partial update, recording a new version.
func (c *Client) UpdateRecipe(ctx context.Context, recipeID string, in RecipeUpdate) (*UpdateRecipeResult, error) {
	var out UpdateRecipeResult
	if err := c.do(ctx, http.MethodPut, "/api/recipes/"+pathEscape(recipeID), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRecipe archives a recipe.
func (c *Client) DeleteRecipe(ctx context.Context, recipeID string) error {
	return c.do(ctx, http.MethodDelete, "/api/recipes/"+pathEscape(recipeID), nil, nil, nil)
}

// ListVersions returns a recipe's versions, newest first.
func (c *Client) ListVersions(ctx context.Context, recipeID string) ([]*domain.Version, error) {
	var versions []*domain.Version
	err := c.do(ctx, http.MethodGet, "/api/versions/recipe/"+pathEscape(recipeID), nil, nil, &versions)
	return versions, err
}

// CompareVersions returns two versions of a recipe.
func (c *Client) CompareVersions(ctx context.Context, recipeID string, v1, v2 int) (*VersionPair, error) {
	var out VersionPair
	path := "/api/versions/compare/" + pathEscape(recipeID, itoa(v1), itoa(v2))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiffVersions returns the line diff between two versions of a recipe.
func (c *Client) DiffVersions(ctx context.Context, recipeID string, v1, v2 int) (*diff.Result, error) {
	var out diff.Result
	path := "/api/versions/diff/" + pathEscape(recipeID, itoa(v1), itoa(v2))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchRecipes runs a full-text search over the caller's recipes.
func (c *Client) SearchRecipes(ctx context.Context, q string, opts SearchOptions) (*search.SearchResult, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if len(opts.Tags) > 0 {
		query.Set("tags", strings.Join(opts.Tags, ","))
	}
	if opts.BookID != "" {
		query.Set("bookId", opts.BookID)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	var out search.SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/search/recipes", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompareRecipes returns several recipes side by side.
func (c *Client) CompareRecipes(ctx context.Context, recipeIDs ...string) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	query := url.Values{"recipes": {strings.Join(recipeIDs, ",")}}
	err := c.do(ctx, http.MethodGet, "/api/compare", query, nil, &recipes)
	return recipes, err
}

// RecipeDisplay is a recipe rendered for a measurement system and scale.
type RecipeDisplay struct {
	Recipe      *domain.Recipe      `json:"recipe"`
	System      string              `json:"system,omitempty"`
	Scale       float64             `json:"scale"`
	Servings    int                 `json:"servings"`
	Ingredients domain.List[string] `json:"ingredients"`
}

// Conversion is a converted amount.
type Conversion struct {
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// DisplayRecipe renders a recipe's ingredients. An empty system keeps the
// original units; a zero scale means 1.
func (c *Client) DisplayRecipe(ctx context.Context, recipeID, system string, scale float64) (*RecipeDisplay, error) {
	query := url.Values{}
	if system != "" {
		query.Set("system", system)
	}
	if scale > 0 {
		query.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	}

	var out RecipeDisplay
	if err := c.do(ctx, http.MethodGet, "/api/recipes/"+pathEscape(recipeID, "display"), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVersion returns a version by its ID.
func (c *Client) GetVersion(ctx context.Context, versionID string) (*domain.Version, error) {
	var version domain.Version
	if err := c.do(ctx, http.MethodGet, "/api/versions/"+pathEscape(versionID), nil, nil, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

// Convert converts an amount of unit into the "metric" or "imperial" system.
func (c *Client) Convert(ctx context.Context, amount float64, unit, system string) (*Conversion, error) {
	query := url.Values{
		"amount": {strconv.FormatFloat(amount, 'f', -1, 64)},
		"unit":   {unit},
		"system": {system},
	}

	var out Conversion
	if err := c.do(ctx, http.MethodGet, "/api/units/convert", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the caller's profile.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
