package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

// ListEvents returns the events of a user, most recent date first
func (db *DB) ListEvents(ctx context.Context, params *models.EventListParams) ([]*models.EventSummary, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE user_id = $1`, params.UserID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT
			e.id, e.name, e.event_date, e.number_of_guests, e.created_at,
			COALESCE((SELECT COUNT(*) FROM event_guests WHERE event_id = e.id), 0) as guest_count,
			COALESCE((SELECT COUNT(*) FROM event_dishes WHERE event_id = e.id), 0) as dish_count,
			(SELECT total_cost FROM shopping_lists WHERE event_id = e.id) as total_cost
		FROM events e
		WHERE e.user_id = $1
		ORDER BY e.event_date DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`, params.UserID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := []*models.EventSummary{}
	for rows.Next() {
		e := &models.EventSummary{}
		err := rows.Scan(
			&e.ID, &e.Name, &e.EventDate, &e.NumberOfGuests, &e.CreatedAt,
			&e.GuestCount, &e.DishCount, &e.TotalCost,
		)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}

	return events, total, rows.Err()
}

// GetEventByID retrieves an event with its guests and selected dishes.
// Guests come with their favorites and selected dishes with their ingredients.
func (db *DB) GetEventByID(ctx context.Context, id int, userID int) (*models.Event, error) {
	event := &models.Event{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, event_date, number_of_guests, created_at, updated_at
		FROM events
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&event.ID, &event.UserID, &event.Name, &event.EventDate, &event.NumberOfGuests, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if event.Guests, err = db.eventGuests(ctx, id); err != nil {
		return nil, err
	}

	if event.SelectedDishes, err = db.eventDishes(ctx, id); err != nil {
		return nil, err
	}

	return event, nil
}

func (db *DB) eventGuests(ctx context.Context, eventID int) ([]models.Guest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+guestColumns+`
		FROM event_guests eg
		JOIN guests g ON eg.guest_id = g.id
		WHERE eg.event_id = $1
		ORDER BY eg.added_at ASC, g.id ASC
	`, eventID)
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

func (db *DB) eventDishes(ctx context.Context, eventID int) ([]models.SelectedDish, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT ed.servings, `+dishColumns+`
		FROM event_dishes ed
		JOIN dishes d ON ed.dish_id = d.id
		LEFT JOIN dish_types dt ON d.dish_type_id = dt.id
		WHERE ed.event_id = $1
		ORDER BY ed.position ASC, d.id ASC
	`, eventID)
	if err != nil {
		return nil, err
	}

	var servings []*int
	dishes := []models.Dish{}
	for rows.Next() {
		var s *int
		d, err := scanDish(rows, &s)
		if err != nil {
			rows.Close()
			return nil, err
		}
		servings = append(servings, s)
		dishes = append(dishes, *d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachIngredients(ctx, db.Pool, dishes); err != nil {
		return nil, err
	}

	selected := make([]models.SelectedDish, len(dishes))
	for i := range dishes {
		selected[i] = models.SelectedDish{Dish: dishes[i], Servings: servings[i]}
	}
	return selected, nil
}

// CreateEvent creates a new event
func (db *DB) CreateEvent(ctx context.Context, userID int, name string, eventDate time.Time, numberOfGuests int) (*models.Event, error) {
	event := &models.Event{
		Guests:         []models.Guest{},
		SelectedDishes: []models.SelectedDish{},
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO events (user_id, name, event_date, number_of_guests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, user_id, name, event_date, number_of_guests, created_at, updated_at
	`, userID, name, eventDate, numberOfGuests).Scan(
		&event.ID, &event.UserID, &event.Name, &event.EventDate, &event.NumberOfGuests, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return event, nil
}

// UpdateEvent updates an event's details
func (db *DB) UpdateEvent(ctx context.Context, id int, userID int, name *string, eventDate *time.Time, numberOfGuests *int) (*models.Event, error) {
	result, err := db.Pool.Exec(ctx, `
		UPDATE events
		SET name = COALESCE($3, name),
		    event_date = COALESCE($4, event_date),
		    number_of_guests = COALESCE($5, number_of_guests),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID, name, eventDate, numberOfGuests)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, ErrEventNotFound
	}

	return db.GetEventByID(ctx, id, userID)
}

// DeleteEvent deletes an event with its shopping list
func (db *DB) DeleteEvent(ctx context.Context, id int, userID int) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// AddEventGuest adds one of the user's guests to an event
func (db *DB) AddEventGuest(ctx context.Context, eventID, guestID, userID int) error {
	if err := db.checkEventOwner(ctx, db.Pool, eventID, userID); err != nil {
		return err
	}

	result, err := db.Pool.Exec(ctx, `
		INSERT INTO event_guests (event_id, guest_id, added_at)
		SELECT $1, g.id, NOW() FROM guests g WHERE g.id = $2 AND g.user_id = $3
		ON CONFLICT DO NOTHING
	`, eventID, guestID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// Either the guest is not the user's or it is already invited.
		var owned bool
		err := db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM guests WHERE id = $1 AND user_id = $2)
		`, guestID, userID).Scan(&owned)
		if err != nil {
			return err
		}
		if !owned {
			return ErrGuestNotFound
		}
	}

	return touchEvent(ctx, db.Pool, eventID)
}

// RemoveEventGuest removes a guest from an event
func (db *DB) RemoveEventGuest(ctx context.Context, eventID, guestID, userID int) error {
	if err := db.checkEventOwner(ctx, db.Pool, eventID, userID); err != nil {
		return err
	}

	result, err := db.Pool.Exec(ctx, `
		DELETE FROM event_guests WHERE event_id = $1 AND guest_id = $2
	`, eventID, guestID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrGuestNotFound
	}

	return touchEvent(ctx, db.Pool, eventID)
}

// SetEventDishes replaces the selected dishes of an event in one transaction
func (db *DB) SetEventDishes(ctx context.Context, eventID, userID int, dishes []models.SelectedDishInput) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := db.checkEventOwner(ctx, tx, eventID, userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM event_dishes WHERE event_id = $1`, eventID); err != nil {
		return err
	}

	for position, d := range dishes {
		_, err := tx.Exec(ctx, `
			INSERT INTO event_dishes (event_id, dish_id, servings, position)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (event_id, dish_id) DO UPDATE SET servings = EXCLUDED.servings
		`, eventID, d.DishID, d.Servings, position)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("dish %d: %w", d.DishID, ErrDishNotFound)
			}
			return err
		}
	}

	if err := touchEvent(ctx, tx, eventID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// touchEvent bumps updated_at after the guest list or menu changes
func touchEvent(ctx context.Context, q querier, eventID int) error {
	if _, err := q.Exec(ctx, `UPDATE events SET updated_at = NOW() WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("touch event %d: %w", eventID, err)
	}
	return nil
}

func (db *DB) checkEventOwner(ctx context.Context, q querier, eventID, userID int) error {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM events WHERE id = $1 AND user_id = $2)
	`, eventID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEventNotFound
	}
	return nil
}
