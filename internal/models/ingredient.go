package models

// Unit is the unit of measure an ingredient is bought and priced in
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPiece      Unit = "pcs"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
)

var unitLabels = map[Unit]string{
	UnitGram:       "gram",
	UnitKilogram:   "kilogram",
	UnitMilliliter: "milliliter",
	UnitLiter:      "liter",
	UnitPiece:      "pieces",
	UnitTablespoon: "tablespoon",
	UnitTeaspoon:   "teaspoon",
}

// Valid reports whether u is one of the known units
func (u Unit) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

// Label returns the display name of the unit, or the raw code if unknown
func (u Unit) Label() string {
	if label, ok := unitLabels[u]; ok {
		return label
	}
	return string(u)
}

// DefaultCategory is used for ingredients without a category
const DefaultCategory = "Other"

// Ingredient represents a purchasable product with a reference price.
// AveragePrice is quoted per kilogram for g/kg/tbsp/tsp, per liter for ml/l
// and per piece for pcs.
type Ingredient struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Unit         Unit     `json:"unit"`
	AveragePrice *float64 `json:"average_price,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// CategoryOrDefault returns the category, or DefaultCategory when empty
func (i *Ingredient) CategoryOrDefault() string {
	if i.Category == "" {
		return DefaultCategory
	}
	return i.Category
}

// CreateIngredientRequest is the request body for creating an ingredient
type CreateIngredientRequest struct {
	Name         string   `json:"name"`
	Unit         Unit     `json:"unit"`
	AveragePrice *float64 `json:"average_price,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// UpdateIngredientRequest is the request body for updating an ingredient
type UpdateIngredientRequest struct {
	Name         *string  `json:"name,omitempty"`
	Unit         *Unit    `json:"unit,omitempty"`
	AveragePrice *float64 `json:"average_price,omitempty"`
	Category     *string  `json:"category,omitempty"`
}

// IngredientListParams contains parameters for listing ingredients
type IngredientListParams struct {
	Limit    int
	Offset   int
	Search   string
	Category string
}
