package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/database"
	"github.com/foxxcyber/holiday-menu/internal/models"
	"github.com/foxxcyber/holiday-menu/internal/services"
)

// ListDishes returns a paginated list of dishes
func (h *Handler) ListDishes(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50)
	params := &models.DishListParams{
		Limit:      limit,
		Offset:     offset,
		Search:     c.Query("search"),
		DishTypeID: c.QueryInt("type", 0),
		Difficulty: models.Difficulty(c.Query("difficulty")),
	}

	if params.Difficulty != "" && !params.Difficulty.Valid() {
		return Error(c, fiber.StatusBadRequest, "difficulty must be easy, medium or hard")
	}

	dishes, total, err := h.db.ListDishes(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list dishes")
	}

	return SuccessWithMeta(c, dishes, total, params.Limit, params.Offset)
}

// GetDish returns a dish with its ingredients
func (h *Handler) GetDish(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid dish id")
	}

	dish, err := h.db.GetDishByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrDishNotFound) {
			return Error(c, fiber.StatusNotFound, "dish not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get dish")
	}

	return Success(c, dish)
}

// GetDishStats returns aggregate statistics over the catalog
func (h *Handler) GetDishStats(c *fiber.Ctx) error {
	dishes, err := h.db.ListAllDishes(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load dishes")
	}

	return Success(c, services.DishStatistics(dishes))
}

// CreateDish creates a new dish (admin only)
func (h *Handler) CreateDish(c *fiber.Ctx) error {
	var req models.CreateDishRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if err := validateDish(req.CookingTime, req.Difficulty, req.Ingredients); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	dish, err := h.db.CreateDish(c.Context(), &req)
	if err != nil {
		return dishWriteError(c, err, "failed to create dish")
	}

	return Created(c, dish)
}

// UpdateDish updates a dish (admin only)
func (h *Handler) UpdateDish(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid dish id")
	}

	var req models.UpdateDishRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil && *req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name cannot be empty")
	}
	cookingTime := 0
	if req.CookingTime != nil {
		cookingTime = *req.CookingTime
	}
	var difficulty models.Difficulty
	if req.Difficulty != nil {
		difficulty = *req.Difficulty
	}
	if err := validateDish(cookingTime, difficulty, req.Ingredients); err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	dish, err := h.db.UpdateDish(c.Context(), id, &req)
	if err != nil {
		return dishWriteError(c, err, "failed to update dish")
	}

	return Success(c, dish)
}

// DeleteDish deletes a dish (admin only)
func (h *Handler) DeleteDish(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid dish id")
	}

	if err := h.db.DeleteDish(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrDishNotFound) {
			return Error(c, fiber.StatusNotFound, "dish not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete dish")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func dishWriteError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrDishNotFound):
		return Error(c, fiber.StatusNotFound, "dish not found")
	case errors.Is(err, database.ErrDishTypeNotFound):
		return Error(c, fiber.StatusBadRequest, "dish type not found")
	case errors.Is(err, database.ErrIngredientNotFound):
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	return Error(c, fiber.StatusInternalServerError, fallback)
}

// validateDish checks the fields shared by create and update
func validateDish(cookingTime int, difficulty models.Difficulty, ingredients []models.DishIngredientInput) error {
	if cookingTime < 0 {
		return errors.New("cooking_time cannot be negative")
	}
	if difficulty != "" && !difficulty.Valid() {
		return errors.New("difficulty must be easy, medium or hard")
	}

	seen := make(map[int]bool, len(ingredients))
	for _, line := range ingredients {
		if line.Quantity < 0 {
			return fmt.Errorf("quantity of ingredient %d cannot be negative", line.IngredientID)
		}
		if seen[line.IngredientID] {
			return fmt.Errorf("ingredient %d is listed twice", line.IngredientID)
		}
		seen[line.IngredientID] = true
	}

	return nil
}

// ListDishTypes returns all dish types
func (h *Handler) ListDishTypes(c *fiber.Ctx) error {
	types, err := h.db.ListDishTypes(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list dish types")
	}

	return Success(c, types)
}

// CreateDishType creates a dish type (admin only)
func (h *Handler) CreateDishType(c *fiber.Ctx) error {
	var req models.CreateDishTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	dishType, err := h.db.CreateDishType(c.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrDishTypeExists) {
			return Error(c, fiber.StatusConflict, "dish type already exists")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create dish type")
	}

	return Created(c, dishType)
}

// DeleteDishType deletes a dish type (admin only)
func (h *Handler) DeleteDishType(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid dish type id")
	}

	if err := h.db.DeleteDishType(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrDishTypeNotFound) {
			return Error(c, fiber.StatusNotFound, "dish type not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete dish type")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
