package services

import (
	"github.com/foxxcyber/holiday-menu/internal/models"
)

// Spoon measures are priced against the per-kilogram reference price
const (
	tablespoonFactor = 0.015
	teaspoonFactor   = 0.005
)

// ItemCost converts a quantity in the ingredient's unit into a cost, given
// the reference price for that unit (per kg, per liter or per piece).
// A missing or zero price yields 0; unknown units are priced as grams.
func ItemCost(quantity float64, unit models.Unit, pricePerUnit *float64) float64 {
	if pricePerUnit == nil || *pricePerUnit == 0 {
		return 0
	}
	price := *pricePerUnit

	switch unit {
	case models.UnitGram, models.UnitMilliliter:
		return (quantity / 1000) * price
	case models.UnitKilogram, models.UnitLiter, models.UnitPiece:
		return quantity * price
	case models.UnitTablespoon:
		return (quantity * tablespoonFactor / 1000) * price
	case models.UnitTeaspoon:
		return (quantity * teaspoonFactor / 1000) * price
	default:
		return (quantity / 1000) * price
	}
}

// PerGuestCost splits a total over the guests, returning 0 when there are none
func PerGuestCost(totalCost float64, guests int) float64 {
	if guests <= 0 {
		return 0
	}
	return totalCost / float64(guests)
}
