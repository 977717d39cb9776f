package services

import (
	"testing"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

func TestItemCost(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     models.Unit
		price    *float64
		want     float64
	}{
		{"grams priced per kilogram", 200, models.UnitGram, price(60), 12},
		{"kilograms", 1.5, models.UnitKilogram, price(60), 90},
		{"milliliters priced per liter", 500, models.UnitMilliliter, price(100), 50},
		{"liters", 2, models.UnitLiter, price(80), 160},
		{"pieces", 1, models.UnitPiece, price(10), 10},
		{"tablespoons", 4, models.UnitTablespoon, price(1000), 0.06},
		{"teaspoons", 2, models.UnitTeaspoon, price(1000), 0.01},
		{"unknown unit treated as grams", 500, models.Unit("cup"), price(10), 5},
		{"missing price", 200, models.UnitGram, nil, 0},
		{"zero price", 200, models.UnitKilogram, price(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloat(t, "ItemCost", ItemCost(tt.quantity, tt.unit, tt.price), tt.want)
		})
	}
}

func TestItemCostMissingPriceForEveryUnit(t *testing.T) {
	units := []models.Unit{
		models.UnitGram, models.UnitKilogram, models.UnitMilliliter, models.UnitLiter,
		models.UnitPiece, models.UnitTablespoon, models.UnitTeaspoon,
	}
	for _, unit := range units {
		if got := ItemCost(123, unit, nil); got != 0 {
			t.Errorf("ItemCost(123, %s, nil) = %v, want 0", unit, got)
		}
	}
}

func TestPerGuestCost(t *testing.T) {
	assertFloat(t, "PerGuestCost(180, 10)", PerGuestCost(180, 10), 18)

	if got := PerGuestCost(180, 0); got != 0 {
		t.Errorf("PerGuestCost(180, 0) = %v, want 0", got)
	}
	if got := PerGuestCost(180, -3); got != 0 {
		t.Errorf("PerGuestCost(180, -3) = %v, want 0", got)
	}
}
