package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

// seedIngredient is an ingredient line of a seed dish. Quantity is per
// serving; Price is the reference price for the unit, nil if unknown.
type seedIngredient struct {
	Name     string
	Unit     models.Unit
	Category string
	Price    *float64
	Quantity float64
	Notes    string
}

// seedDish is a dish to import
type seedDish struct {
	Name        string
	Type        string
	CookingTime int
	Difficulty  models.Difficulty
	Popularity  float64
	Ingredients []seedIngredient
}

func price(v float64) *float64 {
	return &v
}

// Reference prices are per kilogram, per liter or per piece
var (
	potato       = seedIngredient{Name: "Potato", Unit: models.UnitGram, Category: "Vegetables", Price: price(60)}
	carrot       = seedIngredient{Name: "Carrot", Unit: models.UnitGram, Category: "Vegetables", Price: price(80)}
	onion        = seedIngredient{Name: "Onion", Unit: models.UnitGram, Category: "Vegetables", Price: price(50)}
	cucumbers    = seedIngredient{Name: "Pickled cucumbers", Unit: models.UnitGram, Category: "Vegetables", Price: price(120)}
	beetroot     = seedIngredient{Name: "Beetroot", Unit: models.UnitGram, Category: "Vegetables", Price: price(70)}
	herbs        = seedIngredient{Name: "Herbs", Unit: models.UnitGram, Category: "Vegetables", Price: price(300)}
	mayonnaise   = seedIngredient{Name: "Mayonnaise", Unit: models.UnitGram, Category: "Sauces", Price: price(200)}
	eggs         = seedIngredient{Name: "Eggs", Unit: models.UnitPiece, Category: "Grocery", Price: price(10)}
	greenPeas    = seedIngredient{Name: "Green peas", Unit: models.UnitGram, Category: "Canned goods", Price: price(120)}
	corn         = seedIngredient{Name: "Sweet corn", Unit: models.UnitGram, Category: "Canned goods", Price: price(100)}
	rice         = seedIngredient{Name: "Rice", Unit: models.UnitGram, Category: "Grocery", Price: price(120)}
	salt         = seedIngredient{Name: "Salt", Unit: models.UnitGram, Category: "Grocery", Price: price(40)}
	vinegar      = seedIngredient{Name: "Vinegar", Unit: models.UnitMilliliter, Category: "Grocery", Price: price(60)}
	vegetableOil = seedIngredient{Name: "Vegetable oil", Unit: models.UnitMilliliter, Category: "Grocery", Price: price(120)}
	blackPepper  = seedIngredient{Name: "Black pepper", Unit: models.UnitGram, Category: "Spices", Price: price(500)}
	plovSpices   = seedIngredient{Name: "Plov spices", Unit: models.UnitGram}
	herring      = seedIngredient{Name: "Salted herring", Unit: models.UnitGram, Category: "Fish", Price: price(300)}
	crabSticks   = seedIngredient{Name: "Crab sticks", Unit: models.UnitGram, Category: "Fish", Price: price(400)}
	porkNeck     = seedIngredient{Name: "Pork neck", Unit: models.UnitGram, Category: "Meat", Price: price(400)}
	beef         = seedIngredient{Name: "Beef", Unit: models.UnitGram, Category: "Meat", Price: price(500)}
)

func line(ing seedIngredient, quantity float64, notes string) seedIngredient {
	ing.Quantity = quantity
	ing.Notes = notes
	return ing
}

// builtinCatalog returns the classic holiday table
func builtinCatalog() []seedDish {
	return []seedDish{
		{
			Name: "Olivier", Type: "Salad", CookingTime: 40, Difficulty: models.DifficultyEasy, Popularity: 9.5,
			Ingredients: []seedIngredient{
				line(potato, 30, "boiled"),
				line(carrot, 20, "boiled"),
				line(cucumbers, 20, ""),
				line(eggs, 0.4, "boiled"),
				line(mayonnaise, 20, ""),
				line(greenPeas, 15, "canned"),
			},
		},
		{
			Name: "Herring under a fur coat", Type: "Salad", CookingTime: 60, Difficulty: models.DifficultyMedium, Popularity: 8.5,
			Ingredients: []seedIngredient{
				line(herring, 30, ""),
				line(potato, 40, "boiled"),
				line(carrot, 30, "boiled"),
				line(beetroot, 30, "boiled"),
				line(onion, 10, ""),
				line(mayonnaise, 25, ""),
			},
		},
		{
			Name: "Crab salad", Type: "Salad", CookingTime: 25, Difficulty: models.DifficultyEasy, Popularity: 8,
			Ingredients: []seedIngredient{
				line(crabSticks, 30, ""),
				line(corn, 20, "canned"),
				line(eggs, 0.3, "boiled"),
				line(rice, 20, "boiled"),
				line(mayonnaise, 15, ""),
				line(herbs, 5, "dill"),
			},
		},
		{
			Name: "Shashlik", Type: "Main course", CookingTime: 120, Difficulty: models.DifficultyMedium, Popularity: 9,
			Ingredients: []seedIngredient{
				line(porkNeck, 250, ""),
				line(onion, 125, ""),
				line(vinegar, 25, "wine vinegar"),
				line(salt, 5, ""),
				line(blackPepper, 2, ""),
				line(vegetableOil, 12, ""),
			},
		},
		{
			Name: "Plov", Type: "Main course", CookingTime: 90, Difficulty: models.DifficultyMedium, Popularity: 8.5,
			Ingredients: []seedIngredient{
				line(rice, 100, ""),
				line(beef, 120, ""),
				line(carrot, 60, ""),
				line(onion, 60, ""),
				line(vegetableOil, 20, ""),
				line(plovSpices, 10, ""),
			},
		},
	}
}

// parseCatalog reads one row per dish ingredient. Expected columns:
// dish,dish_type,cooking_time,difficulty,popularity,ingredient,unit,quantity,price,category
// Dish attributes are taken from the first row of each dish.
func parseCatalog(reader io.Reader) ([]seedDish, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"dish", "ingredient", "quantity"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := colMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var dishes []*seedDish
	byName := make(map[string]*seedDish)
	rowCount := 0

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}
		rowCount++

		name := field(record, "dish")
		ingName := field(record, "ingredient")
		if name == "" || ingName == "" {
			continue
		}

		quantity, err := strconv.ParseFloat(field(record, "quantity"), 64)
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("row %d: invalid quantity %q", rowCount, field(record, "quantity"))
		}

		unit := models.Unit(strings.ToLower(field(record, "unit")))
		if unit == "" {
			unit = models.UnitGram
		}
		if !unit.Valid() {
			return nil, fmt.Errorf("row %d: unknown unit %q", rowCount, unit)
		}

		ing := seedIngredient{
			Name:     ingName,
			Unit:     unit,
			Category: field(record, "category"),
			Quantity: quantity,
		}
		if p := field(record, "price"); p != "" {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("row %d: invalid price %q", rowCount, p)
			}
			ing.Price = &v
		}

		key := strings.ToLower(name)
		dish, ok := byName[key]
		if !ok {
			dish, err = newSeedDish(name, record, field)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowCount, err)
			}
			byName[key] = dish
			dishes = append(dishes, dish)
		}
		dish.Ingredients = append(dish.Ingredients, ing)
	}

	log.Printf("Processed %d rows", rowCount)

	result := make([]seedDish, 0, len(dishes))
	for _, d := range dishes {
		result = append(result, *d)
	}
	return result, nil
}

func newSeedDish(name string, record []string, field func([]string, string) string) (*seedDish, error) {
	dish := &seedDish{
		Name:       name,
		Type:       field(record, "dish_type"),
		Difficulty: models.Difficulty(strings.ToLower(field(record, "difficulty"))),
	}

	if dish.Difficulty == "" {
		dish.Difficulty = models.DifficultyMedium
	}
	if !dish.Difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", dish.Difficulty)
	}

	if v := field(record, "cooking_time"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes < 0 {
			return nil, fmt.Errorf("invalid cooking_time %q", v)
		}
		dish.CookingTime = minutes
	}

	if v := field(record, "popularity"); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid popularity %q", v)
		}
		dish.Popularity = score
	}

	return dish, nil
}

// referencePrices are matched as case-insensitive substrings of the
// ingredient name, first match wins
var referencePrices = []struct {
	key   string
	price float64
}{
	{"chicken fillet", 400},
	{"chicken", 350},
	{"pork", 400},
	{"beef", 500},
	{"herring", 300},
	{"crab", 400},
	{"potato", 60},
	{"carrot", 80},
	{"onion", 50},
	{"cucumber", 120},
	{"tomato", 150},
	{"beet", 70},
	{"cabbage", 40},
	{"garlic", 300},
	{"herbs", 300},
	{"mayonnaise", 200},
	{"sour cream", 180},
	{"cheese", 600},
	{"yogurt", 150},
	{"egg", 10},
	{"rice", 120},
	{"flour", 80},
	{"sugar", 90},
	{"salt", 40},
	{"vegetable oil", 120},
	{"pepper", 500},
	{"corn", 100},
	{"peas", 120},
	{"lemon", 50},
	{"avocado", 200},
	{"vinegar", 60},
}

// referencePrice returns a realistic price for an ingredient name
func referencePrice(name string) (float64, bool) {
	lower := strings.ToLower(name)
	for _, rp := range referencePrices {
		if strings.Contains(lower, rp.key) {
			return rp.price, true
		}
	}
	return 0, false
}
