package models

import (
	"time"
)

// Guest is a person with a set of favorite dishes
type Guest struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Preferences    string    `json:"preferences,omitempty"` // free text, allergies etc.
	FavoriteDishes []Dish    `json:"favorite_dishes"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateGuestRequest is the request body for creating a guest
type CreateGuestRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Preferences     string `json:"preferences,omitempty"`
	FavoriteDishIDs []int  `json:"favorite_dish_ids,omitempty"`
}

// UpdateGuestRequest is the request body for updating a guest
type UpdateGuestRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Preferences *string `json:"preferences,omitempty"`
}

// SetFavoritesRequest replaces a guest's favorite dishes
type SetFavoritesRequest struct {
	DishIDs []int `json:"dish_ids"`
}
