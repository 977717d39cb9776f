package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

var (
	ErrShoppingListNotFound = errors.New("shopping list not found")
	ErrShoppingItemNotFound = errors.New("shopping item not found")
)

// ReplaceShoppingList stores a computed shopping list as the event's only
// list. Previous items are deleted and the new ones inserted in a single
// transaction.
func (db *DB) ReplaceShoppingList(ctx context.Context, eventID int, result *models.ShoppingListResult) (*models.ShoppingList, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	list := &models.ShoppingList{}
	err = tx.QueryRow(ctx, `
		INSERT INTO shopping_lists (event_id, total_cost, generated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id) DO UPDATE SET total_cost = EXCLUDED.total_cost, generated_at = NOW()
		RETURNING id, event_id, total_cost, generated_at
	`, eventID, result.TotalCost).Scan(&list.ID, &list.EventID, &list.TotalCost, &list.GeneratedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM shopping_items WHERE shopping_list_id = $1`, list.ID); err != nil {
		return nil, err
	}

	for position, item := range result.Items {
		// Items without a reference price keep a NULL cost rather than zero.
		var cost *float64
		if item.Ingredient.AveragePrice != nil {
			c := item.EstimatedCost
			cost = &c
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO shopping_items (shopping_list_id, ingredient_id, quantity_needed, estimated_cost, dishes, purchased, position)
			VALUES ($1, $2, $3, $4, $5, false, $6)
		`, list.ID, item.Ingredient.ID, item.Quantity, cost, item.Dishes, position)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return list, nil
}

// GetShoppingList retrieves the shopping list of an event owned by userID,
// with items grouped by category
func (db *DB) GetShoppingList(ctx context.Context, eventID int, userID int) (*models.ShoppingListWithItems, error) {
	list := &models.ShoppingListWithItems{}
	err := db.Pool.QueryRow(ctx, `
		SELECT sl.id, sl.event_id, sl.total_cost, sl.generated_at, e.name, e.number_of_guests
		FROM shopping_lists sl
		JOIN events e ON sl.event_id = e.id
		WHERE sl.event_id = $1 AND e.user_id = $2
	`, eventID, userID).Scan(
		&list.ID, &list.EventID, &list.TotalCost, &list.GeneratedAt, &list.EventName, &list.NumberOfGuests,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShoppingListNotFound
		}
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT si.id, si.shopping_list_id, si.ingredient_id, i.name, i.category, i.unit,
			si.quantity_needed, si.estimated_cost, si.dishes, si.purchased
		FROM shopping_items si
		JOIN ingredients i ON si.ingredient_id = i.id
		WHERE si.shopping_list_id = $1
		ORDER BY si.position ASC, si.id ASC
	`, list.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list.Items = []models.ShoppingItem{}
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, *item)
		if item.Purchased {
			list.PurchasedCount++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list.Categories = groupShoppingItems(list.Items)
	return list, nil
}

func scanShoppingItem(row pgx.Row) (*models.ShoppingItem, error) {
	item := &models.ShoppingItem{}
	err := row.Scan(
		&item.ID, &item.ShoppingListID, &item.IngredientID, &item.IngredientName, &item.Category, &item.Unit,
		&item.QuantityNeeded, &item.EstimatedCost, &item.Dishes, &item.Purchased,
	)
	if err != nil {
		return nil, err
	}

	if item.Category == "" {
		item.Category = models.DefaultCategory
	}
	item.UnitLabel = item.Unit.Label()
	if item.Dishes == nil {
		item.Dishes = []string{}
	}

	return item, nil
}

// groupShoppingItems groups items by category in order of first appearance
func groupShoppingItems(items []models.ShoppingItem) []models.ShoppingItemGroup {
	groups := []models.ShoppingItemGroup{}
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, models.ShoppingItemGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

// ToggleShoppingItem flips the purchased flag of an item
func (db *DB) ToggleShoppingItem(ctx context.Context, eventID, itemID, userID int) (*models.ShoppingItem, error) {
	item, err := scanShoppingItem(db.Pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE shopping_items si
			SET purchased = NOT si.purchased
			FROM shopping_lists sl, events e
			WHERE si.id = $1
			  AND si.shopping_list_id = sl.id
			  AND sl.event_id = $2
			  AND e.id = sl.event_id
			  AND e.user_id = $3
			RETURNING si.*
		)
		SELECT u.id, u.shopping_list_id, u.ingredient_id, i.name, i.category, i.unit,
			u.quantity_needed, u.estimated_cost, u.dishes, u.purchased
		FROM updated u
		JOIN ingredients i ON u.ingredient_id = i.id
	`, itemID, eventID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShoppingItemNotFound
		}
		return nil, err
	}

	return item, nil
}
