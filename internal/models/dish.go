package models

import (
	"time"
)

// Difficulty is how hard a dish is to prepare
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DishType is a menu category such as salad, main course or dessert
type DishType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Dish represents a recipe that can be put on a menu
type Dish struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Type            *DishType        `json:"dish_type,omitempty"`
	CookingTime     int              `json:"cooking_time"` // minutes
	Difficulty      Difficulty       `json:"difficulty"`
	Recipe          string           `json:"recipe,omitempty"`
	Tags            string           `json:"tags,omitempty"`
	PopularityScore float64          `json:"popularity_score"`
	Ingredients     []DishIngredient `json:"ingredients,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// TypeName returns the dish type name, or "" when the dish has no type
func (d *Dish) TypeName() string {
	if d.Type == nil {
		return ""
	}
	return d.Type.Name
}

// DishIngredient is an ingredient requirement of a dish, per serving
type DishIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	Quantity   float64    `json:"quantity"`
	Notes      string     `json:"notes,omitempty"`
}

// DishIngredientInput is one ingredient line of a create/update dish request
type DishIngredientInput struct {
	IngredientID int     `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Notes        string  `json:"notes,omitempty"`
}

// CreateDishRequest is the request body for creating a dish
type CreateDishRequest struct {
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	DishTypeID      *int                  `json:"dish_type_id,omitempty"`
	CookingTime     int                   `json:"cooking_time"`
	Difficulty      Difficulty            `json:"difficulty,omitempty"`
	Recipe          string                `json:"recipe,omitempty"`
	Tags            string                `json:"tags,omitempty"`
	PopularityScore float64               `json:"popularity_score"`
	Ingredients     []DishIngredientInput `json:"ingredients,omitempty"`
}

// UpdateDishRequest is the request body for updating a dish.
// A non-nil Ingredients replaces the whole ingredient list.
type UpdateDishRequest struct {
	Name            *string               `json:"name,omitempty"`
	Description     *string               `json:"description,omitempty"`
	DishTypeID      *int                  `json:"dish_type_id,omitempty"`
	CookingTime     *int                  `json:"cooking_time,omitempty"`
	Difficulty      *Difficulty           `json:"difficulty,omitempty"`
	Recipe          *string               `json:"recipe,omitempty"`
	Tags            *string               `json:"tags,omitempty"`
	PopularityScore *float64              `json:"popularity_score,omitempty"`
	Ingredients     []DishIngredientInput `json:"ingredients,omitempty"`
}

// CreateDishTypeRequest is the request body for creating a dish type
type CreateDishTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// DishListParams contains parameters for listing dishes
type DishListParams struct {
	Limit      int
	Offset     int
	Search     string
	DishTypeID int
	Difficulty Difficulty
}
