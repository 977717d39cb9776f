package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

var ErrGuestNotFound = errors.New("guest not found")

const guestColumns = `g.id, g.user_id, g.name, g.email, g.preferences, g.created_at`

func scanGuest(row pgx.Row) (*models.Guest, error) {
	g := &models.Guest{}
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Email, &g.Preferences, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}

// ListGuests returns all guests of a user with their favorite dishes
func (db *DB) ListGuests(ctx context.Context, userID int) ([]models.Guest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+guestColumns+`
		FROM guests g
		WHERE g.user_id = $1
		ORDER BY g.name ASC
	`, userID)
	if err != nil {
		return nil, err
	}

	guests := []models.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		guests = append(guests, *g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachFavorites(ctx, db.Pool, guests); err != nil {
		return nil, err
	}

	return guests, nil
}

// GetGuestByID retrieves a guest owned by userID
func (db *DB) GetGuestByID(ctx context.Context, id int, userID int) (*models.Guest, error) {
	return getGuest(ctx, db.Pool, id, userID)
}

func getGuest(ctx context.Context, q querier, id int, userID int) (*models.Guest, error) {
	g, err := scanGuest(q.QueryRow(ctx, `
		SELECT `+guestColumns+` FROM guests g WHERE g.id = $1 AND g.user_id = $2
	`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	guests := []models.Guest{*g}
	if err := attachFavorites(ctx, q, guests); err != nil {
		return nil, err
	}

	return &guests[0], nil
}

// attachFavorites loads the favorite dishes of the given guests in one query.
// Favorites carry the dish and its type but not its ingredients.
func attachFavorites(ctx context.Context, q querier, guests []models.Guest) error {
	if len(guests) == 0 {
		return nil
	}

	ids := make([]int, len(guests))
	index := make(map[int][]int, len(guests))
	for i, g := range guests {
		ids[i] = g.ID
		// The same guest can appear more than once in an event listing.
		index[g.ID] = append(index[g.ID], i)
		guests[i].FavoriteDishes = []models.Dish{}
	}

	rows, err := q.Query(ctx, `
		SELECT f.guest_id, `+dishColumns+`
		FROM guest_favorite_dishes f
		JOIN dishes d ON f.dish_id = d.id
		LEFT JOIN dish_types dt ON d.dish_type_id = dt.id
		WHERE f.guest_id = ANY($1)
		ORDER BY f.guest_id, d.id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var guestID int
		d, err := scanDish(rows, &guestID)
		if err != nil {
			return err
		}

		for _, i := range index[guestID] {
			guests[i].FavoriteDishes = append(guests[i].FavoriteDishes, *d)
		}
	}

	return rows.Err()
}

// CreateGuest creates a guest with optional favorite dishes
func (db *DB) CreateGuest(ctx context.Context, userID int, req *models.CreateGuestRequest) (*models.Guest, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int
	err = tx.QueryRow(ctx, `
		INSERT INTO guests (user_id, name, email, preferences, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`, userID, req.Name, req.Email, req.Preferences).Scan(&id)
	if err != nil {
		return nil, err
	}

	if err := replaceFavorites(ctx, tx, id, req.FavoriteDishIDs); err != nil {
		return nil, err
	}

	guest, err := getGuest(ctx, tx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return guest, nil
}

// UpdateGuest updates a guest's details
func (db *DB) UpdateGuest(ctx context.Context, id int, userID int, req *models.UpdateGuestRequest) (*models.Guest, error) {
	result, err := db.Pool.Exec(ctx, `
		UPDATE guests
		SET name = COALESCE($3, name),
		    email = COALESCE($4, email),
		    preferences = COALESCE($5, preferences)
		WHERE id = $1 AND user_id = $2
	`, id, userID, req.Name, req.Email, req.Preferences)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, ErrGuestNotFound
	}

	return db.GetGuestByID(ctx, id, userID)
}

// SetGuestFavorites replaces the favorite dishes of a guest
func (db *DB) SetGuestFavorites(ctx context.Context, id int, userID int, dishIDs []int) (*models.Guest, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM guests WHERE id = $1 AND user_id = $2)
	`, id, userID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGuestNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM guest_favorite_dishes WHERE guest_id = $1`, id); err != nil {
		return nil, err
	}

	if err := replaceFavorites(ctx, tx, id, dishIDs); err != nil {
		return nil, err
	}

	guest, err := getGuest(ctx, tx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return guest, nil
}

func replaceFavorites(ctx context.Context, tx pgx.Tx, guestID int, dishIDs []int) error {
	for _, dishID := range dishIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO guest_favorite_dishes (guest_id, dish_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, guestID, dishID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("dish %d: %w", dishID, ErrDishNotFound)
			}
			return err
		}
	}
	return nil
}

// DeleteGuest deletes a guest
func (db *DB) DeleteGuest(ctx context.Context, id int, userID int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM guests WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrGuestNotFound
	}

	return nil
}
