package models

import (
	"time"
)

// ShoppingItemEstimate is one consolidated ingredient of a computed
// shopping list
type ShoppingItemEstimate struct {
	Ingredient    Ingredient `json:"ingredient"`
	Quantity      float64    `json:"quantity"`
	Unit          Unit       `json:"unit"`
	UnitLabel     string     `json:"unit_label"`
	EstimatedCost float64    `json:"estimated_cost"`
	Category      string     `json:"category"`
	Dishes        []string   `json:"dishes"`
}

// CategoryGroup is the items of a shopping list that share a category
type CategoryGroup struct {
	Category string                 `json:"category"`
	Items    []ShoppingItemEstimate `json:"items"`
}

// ShoppingListResult is the output of the shopping list aggregator
type ShoppingListResult struct {
	Items        []ShoppingItemEstimate `json:"items"`
	Categories   []CategoryGroup        `json:"categories"`
	TotalCost    float64                `json:"total_cost"`
	GuestsCount  int                    `json:"guests_count"`
	PerGuestCost float64                `json:"per_guest_cost"`
}

// ShoppingList is the persisted shopping list of an event
type ShoppingList struct {
	ID          int       `json:"id"`
	EventID     int       `json:"event_id"`
	TotalCost   float64   `json:"total_cost"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ShoppingItem is a persisted shopping list line
type ShoppingItem struct {
	ID             int      `json:"id"`
	ShoppingListID int      `json:"shopping_list_id"`
	IngredientID   int      `json:"ingredient_id"`
	IngredientName string   `json:"ingredient_name"`
	Category       string   `json:"category"`
	Unit           Unit     `json:"unit"`
	UnitLabel      string   `json:"unit_label"`
	QuantityNeeded float64  `json:"quantity_needed"`
	EstimatedCost  *float64 `json:"estimated_cost,omitempty"`
	Dishes         []string `json:"dishes"`
	Purchased      bool     `json:"purchased"`
}

// ShoppingItemGroup is the persisted items of one category
type ShoppingItemGroup struct {
	Category string         `json:"category"`
	Items    []ShoppingItem `json:"items"`
}

// ShoppingListWithItems includes the list and all its items grouped by category
type ShoppingListWithItems struct {
	ShoppingList
	EventName      string              `json:"event_name"`
	NumberOfGuests int                 `json:"number_of_guests"`
	PerGuestCost   float64             `json:"per_guest_cost"`
	Items          []ShoppingItem      `json:"items"`
	Categories     []ShoppingItemGroup `json:"categories"`
	PurchasedCount int                 `json:"purchased_count"`
}

// ExportResult describes an uploaded shopping list export
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EmailListRequest is the request body for mailing a shopping list
type EmailListRequest struct {
	To string `json:"to"`
}
