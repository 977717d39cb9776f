package models

import (
	"time"
)

// Event is a holiday party being planned
type Event struct {
	ID             int            `json:"id"`
	UserID         int            `json:"user_id"`
	Name           string         `json:"name"`
	EventDate      time.Time      `json:"event_date"`
	NumberOfGuests int            `json:"number_of_guests"`
	Guests         []Guest        `json:"guests"`
	SelectedDishes []SelectedDish `json:"selected_dishes"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SelectedDish is a dish chosen for an event. A nil Servings means the
// event's guest count is used.
type SelectedDish struct {
	Dish     Dish `json:"dish"`
	Servings *int `json:"servings,omitempty"`
}

// EventSummary is a compact representation for list views
type EventSummary struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	EventDate      time.Time `json:"event_date"`
	NumberOfGuests int       `json:"number_of_guests"`
	GuestCount     int       `json:"guest_count"`
	DishCount      int       `json:"dish_count"`
	TotalCost      *float64  `json:"total_cost,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Name           string `json:"name"`
	EventDate      string `json:"event_date"` // YYYY-MM-DD
	NumberOfGuests int    `json:"number_of_guests"`
}

// UpdateEventRequest is the request body for updating an event
type UpdateEventRequest struct {
	Name           *string `json:"name,omitempty"`
	EventDate      *string `json:"event_date,omitempty"`
	NumberOfGuests *int    `json:"number_of_guests,omitempty"`
}

// SelectedDishInput is one dish of a SetDishesRequest
type SelectedDishInput struct {
	DishID   int  `json:"dish_id"`
	Servings *int `json:"servings,omitempty"`
}

// SetDishesRequest replaces the selected dishes of an event
type SetDishesRequest struct {
	Dishes []SelectedDishInput `json:"dishes"`
}

// EventListParams contains parameters for listing events
type EventListParams struct {
	Limit  int
	Offset int
	UserID int
}
