package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

func TestBuiltinCatalog(t *testing.T) {
	catalog := builtinCatalog()
	if len(catalog) != 5 {
		t.Fatalf("len(catalog) = %d, want 5", len(catalog))
	}

	for _, dish := range catalog {
		t.Run(dish.Name, func(t *testing.T) {
			if !dish.Difficulty.Valid() {
				t.Errorf("invalid difficulty %q", dish.Difficulty)
			}
			if dish.Type == "" {
				t.Error("dish has no type")
			}

			seen := make(map[string]bool)
			for _, ing := range dish.Ingredients {
				if !ing.Unit.Valid() {
					t.Errorf("%s: invalid unit %q", ing.Name, ing.Unit)
				}
				if ing.Quantity <= 0 {
					t.Errorf("%s: quantity = %v", ing.Name, ing.Quantity)
				}
				if seen[ing.Name] {
					t.Errorf("%s listed twice", ing.Name)
				}
				seen[ing.Name] = true
			}
		})
	}
}

func TestParseCatalog(t *testing.T) {
	input := `Dish,Dish_Type,Cooking_Time,Difficulty,Popularity,Ingredient,Unit,Quantity,Price,Category
Vinegret,Salad,30,easy,7,Beetroot,g,40,70,Vegetables
Vinegret,,,,,Sauerkraut,g,30,,
vinegret,,,,,Sunflower oil,ML,10,150,Grocery
Kholodets,,240,hard,6.5,Pork shank,g,150,250,Meat
,,,,,Orphan,g,1,,
`

	catalog, err := parseCatalog(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCatalog() error = %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("len(catalog) = %d, want 2", len(catalog))
	}

	vinegret := catalog[0]
	if vinegret.Name != "Vinegret" || vinegret.Type != "Salad" || vinegret.CookingTime != 30 {
		t.Errorf("dish = %+v", vinegret)
	}
	if vinegret.Difficulty != models.DifficultyEasy || vinegret.Popularity != 7 {
		t.Errorf("difficulty/popularity = %s/%v", vinegret.Difficulty, vinegret.Popularity)
	}
	if len(vinegret.Ingredients) != 3 {
		t.Fatalf("len(Ingredients) = %d, want 3", len(vinegret.Ingredients))
	}
	if vinegret.Ingredients[1].Price != nil {
		t.Errorf("sauerkraut price = %v, want nil", *vinegret.Ingredients[1].Price)
	}
	if vinegret.Ingredients[2].Unit != models.UnitMilliliter {
		t.Errorf("oil unit = %q, want ml", vinegret.Ingredients[2].Unit)
	}

	kholodets := catalog[1]
	if kholodets.Type != "" || kholodets.Difficulty != models.DifficultyHard {
		t.Errorf("dish = %+v", kholodets)
	}
	if p := kholodets.Ingredients[0].Price; p == nil || *p != 250 {
		t.Errorf("price = %v, want 250", p)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing column", "dish,ingredient\nOlivier,Potato\n"},
		{"bad quantity", "dish,ingredient,quantity\nOlivier,Potato,lots\n"},
		{"unknown unit", "dish,ingredient,unit,quantity\nOlivier,Potato,cup,1\n"},
		{"bad difficulty", "dish,ingredient,quantity,difficulty\nOlivier,Potato,1,insane\n"},
		{"negative price", "dish,ingredient,quantity,price\nOlivier,Potato,1,-3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCatalog(strings.NewReader(tt.input)); err == nil {
				t.Error("parseCatalog() error = nil, want error")
			}
		})
	}
}

func TestReferencePrice(t *testing.T) {
	tests := []struct {
		name  string
		want  float64
		found bool
	}{
		{"Potato", 60, true},
		{"Salted herring", 300, true},
		{"Chicken fillet", 400, true},
		{"Chicken thighs", 350, true},
		{"Black pepper", 500, true},
		{"Plov spices", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := referencePrice(tt.name)
			if ok != tt.found || got != tt.want {
				t.Errorf("referencePrice(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestPrintPreview(t *testing.T) {
	var buf bytes.Buffer
	printPreview(&buf, builtinCatalog()[:1])

	out := buf.String()
	if !strings.Contains(out, "Olivier (Salad, 40 min, easy)") {
		t.Errorf("preview missing dish line:\n%s", out)
	}
	if !strings.Contains(out, "Eggs 0.4 pcs") {
		t.Errorf("preview missing ingredient line:\n%s", out)
	}
}
