package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/holiday-menu/internal/config"
	"github.com/foxxcyber/holiday-menu/internal/database"
	"github.com/foxxcyber/holiday-menu/internal/models"
)

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	localFile := flag.String("file", "", "Import dishes from a CSV file instead of the built-in catalog")
	fixPrices := flag.Bool("fix-prices", false, "Set reference prices for known ingredients and exit")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()
	ctx := context.Background()

	if *fixPrices {
		db := connect(cfg)
		defer db.Close()

		fixed, unknown, err := fixIngredientPrices(ctx, db, *dryRun)
		if err != nil {
			log.Fatalf("Failed to fix prices: %v", err)
		}
		log.Printf("Prices fixed: %d ingredients updated, %d without a reference price", fixed, unknown)
		return
	}

	catalog := builtinCatalog()
	if *localFile != "" {
		file, err := os.Open(*localFile)
		if err != nil {
			log.Fatalf("Failed to open local file: %v", err)
		}
		defer file.Close()
		log.Printf("Reading from local file: %s", *localFile)

		catalog, err = parseCatalog(file)
		if err != nil {
			log.Fatalf("Failed to parse catalog: %v", err)
		}
	}

	log.Printf("Found %d dishes to import", len(catalog))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(os.Stdout, catalog)
		return
	}

	db := connect(cfg)
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	created, skipped, err := importCatalog(ctx, db, catalog)
	if err != nil {
		log.Fatalf("Failed to import catalog: %v", err)
	}

	log.Printf("Import complete: %d new dishes, %d already present", created, skipped)
}

func connect(cfg *config.Config) *database.DB {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// importCatalog creates the dishes that do not exist yet, together with
// their types and ingredients
func importCatalog(ctx context.Context, db *database.DB, catalog []seedDish) (created, skipped int, err error) {
	for _, dish := range catalog {
		var existingID int
		err := db.Pool.QueryRow(ctx, `
			SELECT id FROM dishes WHERE LOWER(name) = LOWER($1)
		`, dish.Name).Scan(&existingID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return created, skipped, fmt.Errorf("failed to check existing %s: %w", dish.Name, err)
		}

		req := &models.CreateDishRequest{
			Name:            dish.Name,
			CookingTime:     dish.CookingTime,
			Difficulty:      dish.Difficulty,
			PopularityScore: dish.Popularity,
		}

		if dish.Type != "" {
			dishType, err := db.GetOrCreateDishType(ctx, dish.Type)
			if err != nil {
				return created, skipped, fmt.Errorf("failed to create dish type %s: %w", dish.Type, err)
			}
			req.DishTypeID = &dishType.ID
		}

		for _, item := range dish.Ingredients {
			ing, err := db.UpsertIngredient(ctx, &models.CreateIngredientRequest{
				Name:         item.Name,
				Unit:         item.Unit,
				AveragePrice: item.Price,
				Category:     item.Category,
			})
			if err != nil {
				return created, skipped, fmt.Errorf("failed to upsert ingredient %s: %w", item.Name, err)
			}
			req.Ingredients = append(req.Ingredients, models.DishIngredientInput{
				IngredientID: ing.ID,
				Quantity:     item.Quantity,
				Notes:        item.Notes,
			})
		}

		if _, err := db.CreateDish(ctx, req); err != nil {
			return created, skipped, fmt.Errorf("failed to create %s: %w", dish.Name, err)
		}
		created++
		log.Printf("Created %s (%d ingredients)", dish.Name, len(req.Ingredients))
	}

	return created, skipped, nil
}

// fixIngredientPrices walks all ingredients and sets the reference price
// of every one whose name is recognised
func fixIngredientPrices(ctx context.Context, db *database.DB, dryRun bool) (fixed, unknown int, err error) {
	const pageSize = 100

	var ingredients []*models.Ingredient
	for offset := 0; ; offset += pageSize {
		page, total, err := db.ListIngredients(ctx, &models.IngredientListParams{Limit: pageSize, Offset: offset})
		if err != nil {
			return 0, 0, err
		}
		ingredients = append(ingredients, page...)
		if offset+pageSize >= total {
			break
		}
	}

	for _, ing := range ingredients {
		reference, ok := referencePrice(ing.Name)
		if !ok {
			unknown++
			log.Printf("No reference price for %s", ing.Name)
			continue
		}
		if ing.AveragePrice != nil && *ing.AveragePrice == reference {
			continue
		}

		old := "none"
		if ing.AveragePrice != nil {
			old = fmt.Sprintf("%.2f", *ing.AveragePrice)
		}
		log.Printf("%s: %s -> %.2f", ing.Name, old, reference)

		if !dryRun {
			if _, err := db.SetIngredientPrice(ctx, ing.Name, reference); err != nil {
				return fixed, unknown, fmt.Errorf("failed to update %s: %w", ing.Name, err)
			}
		}
		fixed++
	}

	return fixed, unknown, nil
}

// printPreview shows the dishes to be imported
func printPreview(w io.Writer, catalog []seedDish) {
	fmt.Fprintln(w, "\n=== Preview of dishes to import ===")
	fmt.Fprintf(w, "Total: %d dishes\n\n", len(catalog))

	for _, dish := range catalog {
		dishType := dish.Type
		if dishType == "" {
			dishType = "untyped"
		}
		fmt.Fprintf(w, "%s (%s, %d min, %s)\n", dish.Name, dishType, dish.CookingTime, dish.Difficulty)

		names := make([]string, 0, len(dish.Ingredients))
		for _, ing := range dish.Ingredients {
			names = append(names, fmt.Sprintf("%s %g %s", ing.Name, ing.Quantity, ing.Unit))
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(names, ", "))
	}
}
