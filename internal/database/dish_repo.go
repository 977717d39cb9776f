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
	ErrDishNotFound     = errors.New("dish not found")
	ErrDishTypeNotFound = errors.New("dish type not found")
	ErrDishTypeExists   = errors.New("dish type already exists")
)

const dishColumns = `
	d.id, d.name, d.description, d.dish_type_id, dt.name, dt.description,
	d.cooking_time, d.difficulty, d.recipe, d.tags, d.popularity_score,
	d.created_at, d.updated_at`

const dishFrom = `FROM dishes d LEFT JOIN dish_types dt ON d.dish_type_id = dt.id`

// scanDish scans dishColumns; leading holds destinations for columns
// selected before them
func scanDish(row pgx.Row, leading ...any) (*models.Dish, error) {
	d := &models.Dish{}
	var typeID *int
	var typeName, typeDescription *string

	dest := append(leading,
		&d.ID, &d.Name, &d.Description, &typeID, &typeName, &typeDescription,
		&d.CookingTime, &d.Difficulty, &d.Recipe, &d.Tags, &d.PopularityScore,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if typeID != nil && typeName != nil {
		d.Type = &models.DishType{ID: *typeID, Name: *typeName}
		if typeDescription != nil {
			d.Type.Description = *typeDescription
		}
	}

	return d, nil
}

// ListDishTypes returns all dish types
func (db *DB) ListDishTypes(ctx context.Context) ([]models.DishType, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, description FROM dish_types ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []models.DishType{}
	for rows.Next() {
		var t models.DishType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	return types, rows.Err()
}

// CreateDishType creates a new dish type
func (db *DB) CreateDishType(ctx context.Context, req *models.CreateDishTypeRequest) (*models.DishType, error) {
	t := &models.DishType{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO dish_types (name, description) VALUES ($1, $2)
		RETURNING id, name, description
	`, req.Name, req.Description).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		if isUniqueViolation(err, "dish_types_name_key") {
			return nil, ErrDishTypeExists
		}
		return nil, err
	}
	return t, nil
}

// GetOrCreateDishType returns the dish type with the given name, creating it if needed
func (db *DB) GetOrCreateDishType(ctx context.Context, name string) (*models.DishType, error) {
	t := &models.DishType{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO dish_types (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, description
	`, name).Scan(&t.ID, &t.Name, &t.Description)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteDishType deletes a dish type; its dishes become untyped
func (db *DB) DeleteDishType(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM dish_types WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrDishTypeNotFound
	}

	return nil
}

// ListDishes returns a paginated list of dishes without ingredients
func (db *DB) ListDishes(ctx context.Context, params *models.DishListParams) ([]models.Dish, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(LOWER(d.name) LIKE LOWER($%d) OR LOWER(d.description) LIKE LOWER($%d) OR LOWER(d.tags) LIKE LOWER($%d))",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.DishTypeID > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("d.dish_type_id = $%d", argIndex))
		args = append(args, params.DishTypeID)
		argIndex++
	}

	if params.Difficulty != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("d.difficulty = $%d", argIndex))
		args = append(args, params.Difficulty)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Get total count
	var total int
	err := db.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM dishes d %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY d.popularity_score DESC, d.name ASC
		LIMIT $%d OFFSET $%d
	`, dishColumns, dishFrom, whereClause, argIndex, argIndex+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	dishes := []models.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, 0, err
		}
		dishes = append(dishes, *d)
	}

	return dishes, total, rows.Err()
}

// ListAllDishes returns the whole catalog with ingredients, ordered by ID
func (db *DB) ListAllDishes(ctx context.Context) ([]models.Dish, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+dishColumns+` `+dishFrom+` ORDER BY d.id ASC`)
	if err != nil {
		return nil, err
	}

	dishes := []models.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		dishes = append(dishes, *d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachIngredients(ctx, db.Pool, dishes); err != nil {
		return nil, err
	}

	return dishes, nil
}

// GetDishByID retrieves a dish with its ingredients
func (db *DB) GetDishByID(ctx context.Context, id int) (*models.Dish, error) {
	return getDish(ctx, db.Pool, id)
}

func getDish(ctx context.Context, q querier, id int) (*models.Dish, error) {
	d, err := scanDish(q.QueryRow(ctx, `SELECT `+dishColumns+` `+dishFrom+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}

	dishes := []models.Dish{*d}
	if err := attachIngredients(ctx, q, dishes); err != nil {
		return nil, err
	}

	return &dishes[0], nil
}

// attachIngredients loads the ingredient lines of the given dishes in one query
func attachIngredients(ctx context.Context, q querier, dishes []models.Dish) error {
	if len(dishes) == 0 {
		return nil
	}

	ids := make([]int, len(dishes))
	index := make(map[int]int, len(dishes))
	for i, d := range dishes {
		ids[i] = d.ID
		index[d.ID] = i
		dishes[i].Ingredients = []models.DishIngredient{}
	}

	rows, err := q.Query(ctx, `
		SELECT di.dish_id, di.quantity, di.notes, `+ingredientColumns+`
		FROM dish_ingredients di
		JOIN ingredients i ON di.ingredient_id = i.id
		WHERE di.dish_id = ANY($1)
		ORDER BY di.dish_id, di.position, i.name
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var dishID int
		var line models.DishIngredient
		ing := &line.Ingredient
		if err := rows.Scan(
			&dishID, &line.Quantity, &line.Notes,
			&ing.ID, &ing.Name, &ing.Unit, &ing.AveragePrice, &ing.Category,
		); err != nil {
			return err
		}
		i := index[dishID]
		dishes[i].Ingredients = append(dishes[i].Ingredients, line)
	}

	return rows.Err()
}

// CreateDish creates a dish together with its ingredient lines
func (db *DB) CreateDish(ctx context.Context, req *models.CreateDishRequest) (*models.Dish, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO dishes (name, description, dish_type_id, cooking_time, difficulty, recipe, tags, popularity_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`, req.Name, req.Description, req.DishTypeID, req.CookingTime, difficulty, req.Recipe, req.Tags, req.PopularityScore).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrDishTypeNotFound
		}
		return nil, err
	}

	if err := insertDishIngredients(ctx, tx, id, req.Ingredients); err != nil {
		return nil, err
	}

	dish, err := getDish(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return dish, nil
}

// UpdateDish updates a dish. A non-nil ingredient list replaces the existing one.
func (db *DB) UpdateDish(ctx context.Context, id int, req *models.UpdateDishRequest) (*models.Dish, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE dishes
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    dish_type_id = COALESCE($4, dish_type_id),
		    cooking_time = COALESCE($5, cooking_time),
		    difficulty = COALESCE($6, difficulty),
		    recipe = COALESCE($7, recipe),
		    tags = COALESCE($8, tags),
		    popularity_score = COALESCE($9, popularity_score),
		    updated_at = NOW()
		WHERE id = $1
	`, id, req.Name, req.Description, req.DishTypeID, req.CookingTime, req.Difficulty, req.Recipe, req.Tags, req.PopularityScore)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrDishTypeNotFound
		}
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, ErrDishNotFound
	}

	if req.Ingredients != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM dish_ingredients WHERE dish_id = $1`, id); err != nil {
			return nil, err
		}
		if err := insertDishIngredients(ctx, tx, id, req.Ingredients); err != nil {
			return nil, err
		}
	}

	dish, err := getDish(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return dish, nil
}

func insertDishIngredients(ctx context.Context, tx pgx.Tx, dishID int, lines []models.DishIngredientInput) error {
	for position, line := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO dish_ingredients (dish_id, ingredient_id, quantity, notes, position)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (dish_id, ingredient_id) DO UPDATE SET quantity = EXCLUDED.quantity, notes = EXCLUDED.notes
		`, dishID, line.IngredientID, line.Quantity, line.Notes, position)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("ingredient %d: %w", line.IngredientID, ErrIngredientNotFound)
			}
			return err
		}
	}
	return nil
}

// DeleteDish deletes a dish
func (db *DB) DeleteDish(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}
