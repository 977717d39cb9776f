package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

// ErrNoDishesAvailable is returned when there is nothing to put on a menu
var ErrNoDishesAvailable = errors.New("no dishes available")

const (
	guestCountWeight  = 0.7
	cookingTimeWeight = 0.3

	// untypedDishKey is the type-balance key for dishes without a type.
	// The NUL prefix keeps it apart from any real type name.
	untypedDishKey = "\x00other"

	popularDishReason = "popular dish"
)

// MenuPlanner analyses guest preferences against the dish catalog.
// It only reads the snapshots it was given and is safe for concurrent use.
type MenuPlanner struct {
	guests []models.Guest
	dishes []models.Dish
}

// NewMenuPlanner creates a planner over the event guests and all dishes
func NewMenuPlanner(guests []models.Guest, dishes []models.Dish) *MenuPlanner {
	return &MenuPlanner{
		guests: guests,
		dishes: dishes,
	}
}

// FindIntersections returns the dishes liked by at least minCommon guests
func (p *MenuPlanner) FindIntersections(minCommon int) []models.DishIntersection {
	return FindIntersections(BuildPreferenceIndex(p.guests), minCommon)
}

// SuggestMenu picks up to MaxDishes dishes whose total cooking time stays
// within MaxCookingTime. Candidates are taken greedily by guest count; the
// accepted dishes are then returned ordered by score. When nobody has any
// favorite, the most popular dishes of the catalog are returned instead.
func (p *MenuPlanner) SuggestMenu(params models.SuggestParams) []models.MenuSuggestion {
	candidates := p.FindIntersections(1)
	if len(candidates) == 0 {
		return p.popularDishes(params.MaxDishes)
	}

	catalog := make(map[int]models.Dish, len(p.dishes))
	for _, dish := range p.dishes {
		catalog[dish.ID] = dish
	}

	suggestions := []models.MenuSuggestion{}
	usedTypes := make(map[string]bool)
	totalTime := 0

	for _, candidate := range candidates {
		if len(suggestions) >= params.MaxDishes {
			break
		}

		dish, ok := catalog[candidate.Dish.ID]
		if !ok {
			continue
		}

		if totalTime+dish.CookingTime > params.MaxCookingTime {
			continue
		}

		typeKey := dish.TypeName()
		if typeKey == "" {
			typeKey = untypedDishKey
		}
		if params.BalanceTypes && usedTypes[typeKey] {
			continue
		}

		suggestions = append(suggestions, models.MenuSuggestion{
			Dish:       dish,
			Reason:     fmt.Sprintf("liked by %d guests", candidate.GuestCount),
			Score:      suggestionScore(candidate.GuestCount, dish.CookingTime, params.MaxCookingTime),
			GuestNames: candidate.GuestNames,
		})

		usedTypes[typeKey] = true
		totalTime += dish.CookingTime
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	return suggestions
}

// popularDishes ranks the whole catalog by popularity score
func (p *MenuPlanner) popularDishes(limit int) []models.MenuSuggestion {
	ranked := make([]models.Dish, len(p.dishes))
	copy(ranked, p.dishes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PopularityScore > ranked[j].PopularityScore
	})

	if limit < 0 {
		limit = 0
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	suggestions := make([]models.MenuSuggestion, 0, len(ranked))
	for _, dish := range ranked {
		suggestions = append(suggestions, models.MenuSuggestion{
			Dish:   dish,
			Reason: popularDishReason,
			Score:  dish.PopularityScore,
		})
	}
	return suggestions
}

// suggestionScore weighs guest count against how much of the cooking time
// budget a dish uses. Dishes longer than the budget score below their guest
// count. A zero budget contributes nothing.
func suggestionScore(guestCount, cookingTime, maxCookingTime int) float64 {
	timeFactor := 0.0
	if maxCookingTime > 0 {
		timeFactor = 1 - float64(cookingTime)/float64(maxCookingTime)
	}
	return float64(guestCount)*guestCountWeight + timeFactor*cookingTimeWeight
}

// CalculateShoppingList expands the selected dishes into one line per
// ingredient. Each dish is cooked for its own servings, or guestsCount when
// unset. Costs are converted per dish contribution and then summed.
func (p *MenuPlanner) CalculateShoppingList(selected []models.SelectedDish, guestsCount int) *models.ShoppingListResult {
	return CalculateShoppingList(selected, guestsCount)
}

// CalculateShoppingList is the stateless form of MenuPlanner.CalculateShoppingList
func CalculateShoppingList(selected []models.SelectedDish, guestsCount int) *models.ShoppingListResult {
	lines := make(map[int]*models.ShoppingItemEstimate)
	var order []int
	var totalCost float64

	for _, sd := range selected {
		servings := guestsCount
		if sd.Servings != nil {
			servings = *sd.Servings
		}

		for _, di := range sd.Dish.Ingredients {
			ingredient := di.Ingredient
			quantityNeeded := di.Quantity * float64(servings)

			line, ok := lines[ingredient.ID]
			if !ok {
				line = &models.ShoppingItemEstimate{
					Ingredient: ingredient,
					Unit:       ingredient.Unit,
					UnitLabel:  ingredient.Unit.Label(),
					Category:   ingredient.CategoryOrDefault(),
					Dishes:     []string{},
				}
				lines[ingredient.ID] = line
				order = append(order, ingredient.ID)
			}

			line.Quantity += quantityNeeded
			line.Dishes = append(line.Dishes, sd.Dish.Name)

			cost := ItemCost(quantityNeeded, ingredient.Unit, ingredient.AveragePrice)
			line.EstimatedCost += cost
			totalCost += cost
		}
	}

	items := make([]models.ShoppingItemEstimate, 0, len(order))
	for _, id := range order {
		items = append(items, *lines[id])
	}

	// Sort on the raw category so uncategorized items come first.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Ingredient.Category < items[j].Ingredient.Category
	})

	return &models.ShoppingListResult{
		Items:        items,
		Categories:   groupByCategory(items),
		TotalCost:    totalCost,
		GuestsCount:  guestsCount,
		PerGuestCost: PerGuestCost(totalCost, guestsCount),
	}
}

func groupByCategory(items []models.ShoppingItemEstimate) []models.CategoryGroup {
	groups := []models.CategoryGroup{}
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, models.CategoryGroup{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

// SelectEventDishes returns the dishes to shop for: the event's own
// selection, or the suggested menu when nothing has been selected yet.
func SelectEventDishes(event *models.Event, catalog []models.Dish, params models.SuggestParams) ([]models.SelectedDish, error) {
	if len(event.SelectedDishes) > 0 {
		return event.SelectedDishes, nil
	}

	suggestions := NewMenuPlanner(event.Guests, catalog).SuggestMenu(params)
	if len(suggestions) == 0 {
		return nil, ErrNoDishesAvailable
	}

	selected := make([]models.SelectedDish, 0, len(suggestions))
	for _, s := range suggestions {
		selected = append(selected, models.SelectedDish{Dish: s.Dish})
	}
	return selected, nil
}
