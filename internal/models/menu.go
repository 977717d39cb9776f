package models

// DishPreference is a dish together with the guests who favor it
type DishPreference struct {
	Dish       Dish     `json:"dish"`
	GuestCount int      `json:"guest_count"`
	GuestNames []string `json:"guest_names"`
	GuestIDs   []int    `json:"guest_ids"` // parallel to GuestNames
}

// DishIntersection is a row of the intersection table: a dish liked by at
// least the requested number of guests
type DishIntersection struct {
	Dish        Dish       `json:"dish"`
	GuestCount  int        `json:"guest_count"`
	GuestNames  []string   `json:"guest_names"`
	GuestIDs    []int      `json:"guest_ids"`
	CookingTime int        `json:"cooking_time"`
	Difficulty  Difficulty `json:"difficulty"`
	DishType    string     `json:"dish_type"`
}

// MenuSuggestion is a dish recommended for the menu
type MenuSuggestion struct {
	Dish       Dish     `json:"dish"`
	Reason     string   `json:"reason"`
	Score      float64  `json:"score"`
	GuestNames []string `json:"guest_names,omitempty"`
}

// SuggestParams bounds the menu suggester
type SuggestParams struct {
	MaxDishes      int  `json:"max_dishes"`
	MaxCookingTime int  `json:"max_cooking_time"` // minutes, summed over the menu
	BalanceTypes   bool `json:"balance_types"`
}

// MenuAnalysis is chart-ready data describing a menu
type MenuAnalysis struct {
	TypeDistribution       map[string]int     `json:"type_distribution"`
	DifficultyDistribution map[Difficulty]int `json:"difficulty_distribution"`
	CookingTimes           []DishMetric       `json:"cooking_times"`
	Popularity             []DishMetric       `json:"popularity"`
	TotalCookingTime       int                `json:"total_cooking_time"`
}

// DishMetric is a single named value for a dish
type DishMetric struct {
	DishID int     `json:"dish_id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// DishStats contains aggregate statistics over the dish catalog
type DishStats struct {
	TotalDishes            int                `json:"total_dishes"`
	AvgCookingTime         float64            `json:"avg_cooking_time"`
	DifficultyDistribution map[Difficulty]int `json:"difficulty_distribution"`
	TypeDistribution       map[string]int     `json:"type_distribution"`
	TopPopular             []DishMetric       `json:"top_popular"`
}

// CommonGuest is a guest who favors more than one of a set of dishes
type CommonGuest struct {
	GuestID           int    `json:"guest_id,omitempty"`
	Name              string `json:"name"`
	CommonDishesCount int    `json:"common_dishes_count"`
}

// DefaultMinCommon is the intersection threshold when none is given
const DefaultMinCommon = 2

// SuggestOptions overrides planner defaults; nil fields keep the default
type SuggestOptions struct {
	MaxDishes      *int  `json:"max_dishes,omitempty"`
	MaxCookingTime *int  `json:"max_cooking_time,omitempty"`
	BalanceTypes   *bool `json:"balance_types,omitempty"`
}

// MenuPreviewRequest runs the whole planning pipeline over inline data.
// Guests reference dishes by ID through FavoriteDishIDs.
type MenuPreviewRequest struct {
	Guests      []CreateGuestRequest `json:"guests"`
	Dishes      []Dish               `json:"dishes"`
	GuestsCount int                  `json:"guests_count"` // defaults to the number of guests
	MinCommon   *int                 `json:"min_common,omitempty"`
	SuggestOptions
}

// MenuPreviewResponse is the result of a preview run
type MenuPreviewResponse struct {
	Intersections []DishIntersection  `json:"intersections"`
	CommonGuests  []CommonGuest       `json:"common_guests"`
	Suggestions   []MenuSuggestion    `json:"suggestions"`
	ShoppingList  *ShoppingListResult `json:"shopping_list"`
	Analysis      *MenuAnalysis       `json:"analysis"`
}

// SuggestMenuRequest is the request body for suggesting an event menu
type SuggestMenuRequest struct {
	SuggestOptions
	Apply bool `json:"apply"` // store the suggestion as the event's selected dishes
}

// SuggestMenuResponse is the response of the event menu suggestion
type SuggestMenuResponse struct {
	Suggestions []MenuSuggestion `json:"suggestions"`
	Analysis    *MenuAnalysis    `json:"analysis"`
	Applied     bool             `json:"applied"`
}
