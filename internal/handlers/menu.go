package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/middleware"
	"github.com/foxxcyber/holiday-menu/internal/models"
	"github.com/foxxcyber/holiday-menu/internal/services"
)

// suggestParams applies request overrides on top of the configured defaults
func (h *Handler) suggestParams(opts models.SuggestOptions) models.SuggestParams {
	params := models.SuggestParams{
		MaxDishes:      h.cfg.MenuMaxDishes,
		MaxCookingTime: h.cfg.MenuMaxCookingTime,
		BalanceTypes:   h.cfg.MenuBalanceTypes,
	}
	if opts.MaxDishes != nil {
		params.MaxDishes = *opts.MaxDishes
	}
	if opts.MaxCookingTime != nil {
		params.MaxCookingTime = *opts.MaxCookingTime
	}
	if opts.BalanceTypes != nil {
		params.BalanceTypes = *opts.BalanceTypes
	}
	return params
}

func validateSuggestOptions(opts models.SuggestOptions) string {
	if opts.MaxDishes != nil && *opts.MaxDishes < 0 {
		return "max_dishes cannot be negative"
	}
	if opts.MaxCookingTime != nil && *opts.MaxCookingTime < 0 {
		return "max_cooking_time cannot be negative"
	}
	return ""
}

// PreviewMenu runs the planning pipeline over guests and dishes given in
// the request body. Nothing is read from or written to the database.
func (h *Handler) PreviewMenu(c *fiber.Ctx) error {
	var req models.MenuPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if msg := validateSuggestOptions(req.SuggestOptions); msg != "" {
		return Error(c, fiber.StatusBadRequest, msg)
	}
	if req.GuestsCount < 0 {
		return Error(c, fiber.StatusBadRequest, "guests_count cannot be negative")
	}

	dishes := make(map[int]models.Dish, len(req.Dishes))
	for _, dish := range req.Dishes {
		if _, dup := dishes[dish.ID]; dup {
			return Error(c, fiber.StatusBadRequest, "dish "+strconv.Itoa(dish.ID)+" is listed twice")
		}
		if err := validatePreviewDish(dish); err != nil {
			return Error(c, fiber.StatusBadRequest, dish.Name+": "+err.Error())
		}
		dishes[dish.ID] = dish
	}

	guests := make([]models.Guest, 0, len(req.Guests))
	for i, g := range req.Guests {
		if g.Name == "" {
			return Error(c, fiber.StatusBadRequest, "guest name is required")
		}
		// Inline guests are told apart by position
		guest := models.Guest{ID: i + 1, Name: g.Name, Email: g.Email, Preferences: g.Preferences}
		seen := make(map[int]bool, len(g.FavoriteDishIDs))
		for _, id := range g.FavoriteDishIDs {
			dish, ok := dishes[id]
			if !ok {
				return Error(c, fiber.StatusBadRequest, "guest "+g.Name+" favors unknown dish "+strconv.Itoa(id))
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			guest.FavoriteDishes = append(guest.FavoriteDishes, dish)
		}
		guests = append(guests, guest)
	}

	minCommon := models.DefaultMinCommon
	if req.MinCommon != nil {
		minCommon = *req.MinCommon
	}
	guestsCount := req.GuestsCount
	if guestsCount == 0 {
		guestsCount = len(guests)
	}

	planner := services.NewMenuPlanner(guests, req.Dishes)
	intersections := planner.FindIntersections(minCommon)
	suggestions := planner.SuggestMenu(h.suggestParams(req.SuggestOptions))

	selected := make([]models.SelectedDish, 0, len(suggestions))
	suggested := make([]models.Dish, 0, len(suggestions))
	for _, s := range suggestions {
		selected = append(selected, models.SelectedDish{Dish: s.Dish})
		suggested = append(suggested, s.Dish)
	}

	return Success(c, models.MenuPreviewResponse{
		Intersections: intersections,
		CommonGuests:  services.CommonGuests(intersections),
		Suggestions:   suggestions,
		ShoppingList:  planner.CalculateShoppingList(selected, guestsCount),
		Analysis:      services.AnalyzeMenu(suggested),
	})
}

// validatePreviewDish applies the catalog rules to an inline dish. Ingredient
// lines are merged by ID, so every ingredient needs one.
func validatePreviewDish(dish models.Dish) error {
	lines := make([]models.DishIngredientInput, 0, len(dish.Ingredients))
	for _, di := range dish.Ingredients {
		if di.Ingredient.ID <= 0 {
			return fmt.Errorf("ingredient %q needs a positive id", di.Ingredient.Name)
		}
		lines = append(lines, models.DishIngredientInput{IngredientID: di.Ingredient.ID, Quantity: di.Quantity})
	}
	return validateDish(dish.CookingTime, dish.Difficulty, lines)
}

// GetIntersections returns the dishes shared by the event's guests
func (h *Handler) GetIntersections(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}
	minCommon := c.QueryInt("min", models.DefaultMinCommon)

	event, err := h.db.GetEventByID(c.Context(), id, userID)
	if err != nil {
		return eventError(c, err, "failed to get event")
	}

	intersections := services.NewMenuPlanner(event.Guests, nil).FindIntersections(minCommon)

	return Success(c, fiber.Map{
		"min_common":    minCommon,
		"intersections": intersections,
		"common_guests": services.CommonGuests(intersections),
	})
}

// SuggestMenu suggests a menu for an event from its guests' favorites and
// optionally stores it as the event's selection
func (h *Handler) SuggestMenu(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req models.SuggestMenuRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if msg := validateSuggestOptions(req.SuggestOptions); msg != "" {
		return Error(c, fiber.StatusBadRequest, msg)
	}

	event, err := h.db.GetEventByID(c.Context(), id, userID)
	if err != nil {
		return eventError(c, err, "failed to get event")
	}

	catalog, err := h.db.ListAllDishes(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load dishes")
	}

	suggestions := services.NewMenuPlanner(event.Guests, catalog).SuggestMenu(h.suggestParams(req.SuggestOptions))

	dishes := make([]models.Dish, 0, len(suggestions))
	inputs := make([]models.SelectedDishInput, 0, len(suggestions))
	for _, s := range suggestions {
		dishes = append(dishes, s.Dish)
		inputs = append(inputs, models.SelectedDishInput{DishID: s.Dish.ID})
	}

	applied := false
	if req.Apply && len(inputs) > 0 {
		if err := h.db.SetEventDishes(c.Context(), id, userID, inputs); err != nil {
			return eventError(c, err, "failed to store menu")
		}
		applied = true
	}

	return Success(c, models.SuggestMenuResponse{
		Suggestions: suggestions,
		Analysis:    services.AnalyzeMenu(dishes),
		Applied:     applied,
	})
}
