package services

import (
	"math"
	"testing"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

func price(v float64) *float64 {
	return &v
}

func servings(n int) *int {
	return &n
}

func dish(id int, name string, dishType string, cookingTime int, popularity float64) models.Dish {
	d := models.Dish{
		ID:              id,
		Name:            name,
		CookingTime:     cookingTime,
		Difficulty:      models.DifficultyMedium,
		PopularityScore: popularity,
	}
	if dishType != "" {
		d.Type = &models.DishType{Name: dishType}
	}
	return d
}

func guest(name string, favorites ...models.Dish) models.Guest {
	return models.Guest{Name: name, FavoriteDishes: favorites}
}

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
