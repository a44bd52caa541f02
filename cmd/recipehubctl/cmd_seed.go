package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/recipehub/recipehub-server/internal/auth"
	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/service"
)

type seedOptions struct {
	userID  string
	email   string
	name    string
	books   int
	recipes int
	edits   int
	seed    uint64
}

func newSeedCmd(global *globalOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample books, recipes and versions for a user",
		Example: `  recipehubctl seed --user user-1
  recipehubctl seed --user user-1 --books 5 --recipes 8 --edits 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			return runSeed(ctx, cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.userID, "user", "", "Owner user ID")
	cmd.Flags().StringVar(&opts.email, "email", "", "Owner email, recorded as version author")
	cmd.Flags().StringVar(&opts.name, "name", "", "Owner display name")
	cmd.Flags().IntVar(&opts.books, "books", 3, "Books to create")
	cmd.Flags().IntVar(&opts.recipes, "recipes", 4, "Recipes per book")
	cmd.Flags().IntVar(&opts.edits, "edits", 2, "Updates per recipe, each recording a version")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (default: time based)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

var (
	seedBookNames = []string{"Weeknight Dinners", "Breads", "Soups & Stews", "Baking", "Salads", "Holiday Table"}
	seedDishes    = []string{"Focaccia", "Minestrone", "Banana Bread", "Shakshuka", "Lentil Soup", "Pancakes", "Risotto", "Flatbread"}
	seedPantry    = []struct {
		name   string
		metric string
		amount float64
	}{
		{"flour", "g", 500},
		{"whole milk", "ml", 250},
		{"butter", "tbsp", 2},
		{"sugar", "cup", 0.5},
		{"olive oil", "tbsp", 3},
		{"tomatoes", "g", 400},
		{"red lentils", "cup", 1},
		{"vegetable stock", "l", 1},
	}
	seedSteps = []string{"Prepare the ingredients", "Combine in a large bowl", "Cook over medium heat", "Season to taste", "Rest before serving"}
)

func runSeed(ctx context.Context, cmd *cobra.Command, a *app, opts *seedOptions) error {
	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))

	caller := &auth.Identity{UserID: opts.userID, Email: opts.email, Name: opts.name}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Seeding data for user %s (seed %d)\n", caller.UserID, seed)

	recipesCreated, versionsCreated := 0, 0
	for b := range opts.books {
		book, err := a.books.CreateBook(ctx, caller.UserID, service.BookInput{
			Name:        seedBookNames[b%len(seedBookNames)],
			Description: "Sample recipes",
			Image:       "📖",
		})
		if err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		fmt.Fprintf(out, "  Book: %s (%s)\n", book.Name, book.ID)

		for range opts.recipes {
			recipe, err := a.recipes.CreateRecipe(ctx, caller, randomRecipe(rng, book.ID))
			if err != nil {
				return fmt.Errorf("create recipe: %w", err)
			}
			recipesCreated++
			versionsCreated++

			for e := range opts.edits {
				servings := 2 + rng.IntN(6)
				_, _, err := a.recipes.UpdateRecipe(ctx, caller, recipe.ID, service.UpdateRecipeInput{
					Servings:     &servings,
					VersionNotes: fmt.Sprintf("Seed edit %d", e+1),
				})
				if err != nil {
					return fmt.Errorf("update recipe: %w", err)
				}
				versionsCreated++
			}
		}
	}

	_, err := fmt.Fprintf(out, "Seeding complete: %d books, %d recipes, %d versions\n",
		opts.books, recipesCreated, versionsCreated)
	return err
}

func randomRecipe(rng *rand.Rand, bookID string) service.CreateRecipeInput {
	n := 2 + rng.IntN(4)
	picks := rng.Perm(len(seedPantry))[:n]

	ingredients := make([]domain.Ingredient, 0, n+1)
	for _, p := range picks {
		item := seedPantry[p]
		ingredients = append(ingredients, domain.Structured(domain.Qty(item.amount), item.metric, item.name))
	}
	ingredients = append(ingredients, domain.FreeText("salt and pepper to taste"))

	steps := seedSteps[:2+rng.IntN(len(seedSteps)-1)]

	return service.CreateRecipeInput{
		Name:         seedDishes[rng.IntN(len(seedDishes))],
		Description:  "Generated by recipehubctl seed",
		CookTime:     fmt.Sprintf("%d min", 10+5*rng.IntN(10)),
		Servings:     2 + rng.IntN(6),
		Ingredients:  domain.Flat(ingredients...),
		Instructions: domain.Flat(steps...),
		BookID:       bookID,
	}
}
