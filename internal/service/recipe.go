package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/recipehub/recipehub-server/internal/auth"
	"github.com/recipehub/recipehub-server/internal/domain"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
	"github.com/recipehub/recipehub-server/internal/id"
	"github.com/recipehub/recipehub-server/internal/metrics"
	"github.com/recipehub/recipehub-server/internal/normalize"
	"github.com/recipehub/recipehub-server/internal/store"
	"github.com/recipehub/recipehub-server/internal/units"
	"github.com/recipehub/recipehub-server/internal/validation"
)

// MaxScale bounds the serving multiplier accepted by DisplayRecipe.
const MaxScale = 100

// CreateRecipeInput is the body of a recipe create.
type CreateRecipeInput struct {
	Name           string                         `json:"name" validate:"notblank"`
	Description    string                         `json:"description"`
	CookTime       string                         `json:"cookTime"`
	Servings       int                            `json:"servings" validate:"gte=0"`
	Ingredients    domain.List[domain.Ingredient] `json:"ingredients"`
	Instructions   domain.List[string]            `json:"instructions"`
	BookID         string                         `json:"bookId"`
	OriginalSource string                         `json:"originalSource"`
}

// CheckFields implements validation.FieldChecker.
func (in CreateRecipeInput) CheckFields() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(in.BookID) == "" {
		fields["bookId"] = "a book must be assigned to the recipe"
	}
	checkList(fields, "ingredients", "ingredient", in.Ingredients, domain.Ingredient.IsBlank)
	checkList(fields, "instructions", "instruction", in.Instructions, isBlankString)
	return fields
}

// UpdateRecipeInput is a partial recipe update. Nil fields are left as they
// are.
type UpdateRecipeInput struct {
	Name           *string                         `json:"name" validate:"omitnil,notblank"`
	Description    *string                         `json:"description"`
	CookTime       *string                         `json:"cookTime"`
	Servings       *int                            `json:"servings" validate:"omitnil,gte=0"`
	Ingredients    *domain.List[domain.Ingredient] `json:"ingredients"`
	Instructions   *domain.List[string]            `json:"instructions"`
	BookID         *string                         `json:"bookId"`
	OriginalSource *string                         `json:"originalSource"`
	VersionNotes   string                          `json:"versionNotes"`
}

// CheckFields implements validation.FieldChecker.
func (in UpdateRecipeInput) CheckFields() map[string]string {
	fields := make(map[string]string)
	if in.BookID != nil && strings.TrimSpace(*in.BookID) == "" {
		fields["bookId"] = "a book must be assigned to the recipe"
	}
	if in.Ingredients != nil {
		checkList(fields, "ingredients", "ingredient", *in.Ingredients, domain.Ingredient.IsBlank)
	}
	if in.Instructions != nil {
		checkList(fields, "instructions", "instruction", *in.Instructions, isBlankString)
	}
	return fields
}

func isBlankString(s string) bool {
	return strings.TrimSpace(s) == ""
}

// checkList requires at least one non-blank item, at least one per section,
// and a label on every section when there are several.
func checkList[T any](fields map[string]string, field, noun string, l domain.List[T], blank func(T) bool) {
	notBlank := func(item T) bool { return !blank(item) }

	if !l.IsSectioned() {
		if !slices.ContainsFunc(l.Items(), notBlank) {
			fields[field] = fmt.Sprintf("at least one %s is required", noun)
		}
		return
	}

	sections := l.Sections()
	if len(sections) == 0 {
		fields[field] = fmt.Sprintf("at least one %s is required", noun)
		return
	}
	for _, section := range sections {
		if !slices.ContainsFunc(section.Items, notBlank) {
			fields[field] = fmt.Sprintf("each %s section must have at least one item", noun)
			return
		}
		if len(sections) > 1 && strings.TrimSpace(section.Label) == "" {
			fields[field] = fmt.Sprintf("each %s section must have a name", noun)
			return
		}
	}
}

// cleanIngredients drops blank ingredients and trims free text.
func cleanIngredients(l domain.List[domain.Ingredient]) domain.List[domain.Ingredient] {
	trimmed := domain.MapList(l, func(i domain.Ingredient) domain.Ingredient {
		i.Text = strings.TrimSpace(i.Text)
		i.Name = strings.TrimSpace(i.Name)
		i.Metric = strings.TrimSpace(i.Metric)
		return i
	})
	return domain.FilterList(trimmed, func(i domain.Ingredient) bool { return !i.IsBlank() })
}

// cleanInstructions drops blank steps and trims the rest.
func cleanInstructions(l domain.List[string]) domain.List[string] {
	trimmed := domain.MapList(l, strings.TrimSpace)
	return domain.FilterList(trimmed, func(s string) bool { return s != "" })
}

// ingredientTags derives the tag slugs of an ingredient list.
func ingredientTags(l domain.List[domain.Ingredient]) []string {
	all := l.All()
	keywords := make([]string, 0, len(all))
	for _, ing := range all {
		keywords = append(keywords, ing.Keyword())
	}
	return normalize.Tags(keywords)
}

// RecipeDisplay is a recipe with ingredient lines rendered for reading.
type RecipeDisplay struct {
	Recipe      *domain.Recipe      `json:"recipe"`
	System      string              `json:"system,omitempty"`
	Scale       float64             `json:"scale"`
	Servings    int                 `json:"servings"`
	Ingredients domain.List[string] `json:"ingredients"`
}

// RecipeService owns recipe mutations and the version written by each.
type RecipeService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateRecipe validates the input and stores the recipe with version 1.
func (s *RecipeService) CreateRecipe(ctx context.Context, caller *auth.Identity, in CreateRecipeInput) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	recipeID, err := id.Generate(id.PrefixRecipe)
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}
	versionID, err := id.Generate(id.PrefixVersion)
	if err != nil {
		return nil, fmt.Errorf("generate version ID: %w", err)
	}

	now := s.store.Now()
	ingredients := cleanIngredients(in.Ingredients)
	recipe := &domain.Recipe{
		ID:             recipeID,
		OwnerID:        caller.UserID,
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		CookTime:       strings.TrimSpace(in.CookTime),
		Servings:       in.Servings,
		Ingredients:    ingredients,
		Instructions:   cleanInstructions(in.Instructions),
		BookID:         strings.TrimSpace(in.BookID),
		OriginalSource: strings.TrimSpace(in.OriginalSource),
		CurrentVersion: 1,
		Tags:           ingredientTags(ingredients),
	}
	recipe.InitTimestamps(now)

	first := &domain.Version{
		ID:        versionID,
		RecipeID:  recipeID,
		OwnerID:   caller.UserID,
		Version:   1,
		Timestamp: now,
		Author:    caller.DisplayName(),
		Notes:     domain.InitialVersionNotes,
		Data:      recipe.Snapshot(),
	}

	if err := s.store.CreateRecipe(ctx, recipe, first); err != nil {
		return nil, err
	}
	metrics.RecordVersionCreated(first.Version)

	return recipe, nil
}

// UpdateRecipe applies a partial update and appends the next version. The
// read, the update and the version append commit together; a concurrent
// update makes the store replay the whole mutation.
func (s *RecipeService) UpdateRecipe(ctx context.Context, caller *auth.Identity, recipeID string, in UpdateRecipeInput) (*domain.Recipe, *domain.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, nil, err
	}

	update := domain.RecipeUpdate{
		Description:    trimmed(in.Description),
		CookTime:       trimmed(in.CookTime),
		Servings:       in.Servings,
		BookID:         trimmed(in.BookID),
		OriginalSource: trimmed(in.OriginalSource),
		Name:           trimmed(in.Name),
	}
	if in.Ingredients != nil {
		cleaned := cleanIngredients(*in.Ingredients)
		update.Ingredients = &cleaned
	}
	if in.Instructions != nil {
		cleaned := cleanInstructions(*in.Instructions)
		update.Instructions = &cleaned
	}

	notes := strings.TrimSpace(in.VersionNotes)
	if notes == "" {
		notes = domain.UpdateVersionNotes
	}

	versionID, err := id.Generate(id.PrefixVersion)
	if err != nil {
		return nil, nil, fmt.Errorf("generate version ID: %w", err)
	}

	recipe, version, err := s.store.UpdateRecipe(ctx, caller.UserID, recipeID, func(r *domain.Recipe) (*domain.Version, error) {
		now := s.store.Now()
		update.Apply(r)
		r.Tags = ingredientTags(r.Ingredients)
		r.CurrentVersion++
		r.Touch(now)

		return &domain.Version{
			ID:        versionID,
			RecipeID:  r.ID,
			OwnerID:   r.OwnerID,
			Version:   r.CurrentVersion,
			Timestamp: now,
			Author:    caller.DisplayName(),
			Notes:     notes,
			Data:      r.Snapshot(),
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordVersionCreated(version.Version)

	return recipe, version, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// ViewRecipe returns a live recipe and counts the view.
func (s *RecipeService) ViewRecipe(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	return s.store.IncrementViewCount(ctx, ownerID, recipeID)
}

// GetRecipe returns a live recipe without counting a view.
func (s *RecipeService) GetRecipe(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	return s.store.GetRecipe(ctx, ownerID, recipeID)
}

// ListRecipes returns the caller's live recipes sorted by name.
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	return s.store.ListRecipes(ctx, ownerID)
}

// ArchiveRecipe archives a recipe and detaches it from its book.
func (s *RecipeService) ArchiveRecipe(ctx context.Context, ownerID, recipeID string) error {
	return s.store.ArchiveRecipe(ctx, ownerID, recipeID)
}

// DisplayRecipe renders the ingredient lines of a recipe scaled by scale and,
// when system is set, converted to that measurement system.
func (s *RecipeService) DisplayRecipe(ctx context.Context, ownerID, recipeID, system string, scale float64) (*RecipeDisplay, error) {
	var target units.System
	if strings.TrimSpace(system) != "" {
		parsed, err := units.ParseSystem(system)
		if err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
		target = parsed
	}
	if scale == 0 {
		scale = 1
	}
	if scale < 0 || scale > MaxScale || math.IsNaN(scale) {
		return nil, domainerrors.Validationf("scale must be between 0 and %d", MaxScale)
	}

	recipe, err := s.store.GetRecipe(ctx, ownerID, recipeID)
	if err != nil {
		return nil, err
	}

	return &RecipeDisplay{
		Recipe:   recipe,
		System:   string(target),
		Scale:    scale,
		Servings: int(math.Round(float64(recipe.Servings) * scale)),
		Ingredients: domain.MapList(recipe.Ingredients, func(i domain.Ingredient) string {
			return i.Render(target, scale)
		}),
	}, nil
}

// Conversion is the result of converting one amount.
type Conversion struct {
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// ConvertAmount converts an amount of unit into system. Unknown units and
// units already in the target system come back unchanged.
func ConvertAmount(amount float64, unit, system string) (*Conversion, error) {
	target, err := units.ParseSystem(system)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, domainerrors.Validation("amount must be a non-negative number")
	}

	converted, convertedUnit := units.Convert(amount, strings.TrimSpace(unit), target)
	display := units.FormatAmount(converted)
	if convertedUnit != "" {
		display += " " + convertedUnit
	}
	return &Conversion{Amount: converted, Unit: convertedUnit, Display: display}, nil
}
