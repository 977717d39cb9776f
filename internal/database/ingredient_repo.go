package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient already exists")
)

const ingredientColumns = `i.id, i.name, i.unit, i.average_price, i.category`

// ListIngredients returns a paginated list of ingredients with optional filtering
func (db *DB) ListIngredients(ctx context.Context, params *models.IngredientListParams) ([]*models.Ingredient, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(i.name) LIKE LOWER($%d)", argIndex))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(i.category) = LOWER($%d)", argIndex))
		args = append(args, params.Category)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Get total count
	var total int
	err := db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM ingredients i %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM ingredients i
		%s
		ORDER BY i.category ASC, i.name ASC
		LIMIT $%d OFFSET $%d
	`, ingredientColumns, whereClause, argIndex, argIndex+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ingredients := []*models.Ingredient{}
	for rows.Next() {
		ing := &models.Ingredient{}
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Unit, &ing.AveragePrice, &ing.Category); err != nil {
			return nil, 0, err
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, total, rows.Err()
}

// GetIngredientByID retrieves an ingredient by ID
func (db *DB) GetIngredientByID(ctx context.Context, id int) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := db.Pool.QueryRow(ctx, `SELECT `+ingredientColumns+` FROM ingredients i WHERE i.id = $1`, id).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.AveragePrice, &ing.Category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ing, nil
}

// CreateIngredient creates a new ingredient
func (db *DB) CreateIngredient(ctx context.Context, req *models.CreateIngredientRequest) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO ingredients (name, unit, average_price, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, unit, average_price, category
	`, req.Name, req.Unit, req.AveragePrice, req.Category).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.AveragePrice, &ing.Category,
	)
	if err != nil {
		if isUniqueViolation(err, "ingredients_name_key") {
			return nil, ErrIngredientExists
		}
		return nil, err
	}
	return ing, nil
}

// UpdateIngredient updates an ingredient
func (db *DB) UpdateIngredient(ctx context.Context, id int, req *models.UpdateIngredientRequest) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE ingredients
		SET name = COALESCE($2, name),
		    unit = COALESCE($3, unit),
		    average_price = COALESCE($4, average_price),
		    category = COALESCE($5, category)
		WHERE id = $1
		RETURNING id, name, unit, average_price, category
	`, id, req.Name, req.Unit, req.AveragePrice, req.Category).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.AveragePrice, &ing.Category,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		if isUniqueViolation(err, "ingredients_name_key") {
			return nil, ErrIngredientExists
		}
		return nil, err
	}
	return ing, nil
}

// DeleteIngredient deletes an ingredient
func (db *DB) DeleteIngredient(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}

	return nil
}

// UpsertIngredient creates an ingredient or updates the one with the same name
func (db *DB) UpsertIngredient(ctx context.Context, req *models.CreateIngredientRequest) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO ingredients (name, unit, average_price, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET unit = EXCLUDED.unit,
		    average_price = COALESCE(EXCLUDED.average_price, ingredients.average_price),
		    category = EXCLUDED.category
		RETURNING id, name, unit, average_price, category
	`, req.Name, req.Unit, req.AveragePrice, req.Category).Scan(
		&ing.ID, &ing.Name, &ing.Unit, &ing.AveragePrice, &ing.Category,
	)
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// SetIngredientPrice sets the reference price of an ingredient by name.
// It returns false when no ingredient has that name.
func (db *DB) SetIngredientPrice(ctx context.Context, name string, price float64) (bool, error) {
	result, err := db.Pool.Exec(ctx, `
		UPDATE ingredients SET average_price = $2 WHERE LOWER(name) = LOWER($1)
	`, name, price)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
