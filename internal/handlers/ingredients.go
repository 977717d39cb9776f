package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/database"
	"github.com/foxxcyber/holiday-menu/internal/models"
)

// ListIngredients returns a paginated list of ingredients
func (h *Handler) ListIngredients(c *fiber.Ctx) error {
	limit, offset := pagination(c, 100)
	params := &models.IngredientListParams{
		Limit:    limit,
		Offset:   offset,
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	ingredients, total, err := h.db.ListIngredients(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list ingredients")
	}

	return SuccessWithMeta(c, ingredients, total, params.Limit, params.Offset)
}

// CreateIngredient creates an ingredient (admin only)
func (h *Handler) CreateIngredient(c *fiber.Ctx) error {
	var req models.CreateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Unit == "" {
		req.Unit = models.UnitGram
	}
	if !req.Unit.Valid() {
		return Error(c, fiber.StatusBadRequest, "unknown unit")
	}
	if req.AveragePrice != nil && *req.AveragePrice < 0 {
		return Error(c, fiber.StatusBadRequest, "average_price cannot be negative")
	}

	ingredient, err := h.db.CreateIngredient(c.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrIngredientExists) {
			return Error(c, fiber.StatusConflict, "ingredient already exists")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create ingredient")
	}

	return Created(c, ingredient)
}

// UpdateIngredient updates an ingredient (admin only)
func (h *Handler) UpdateIngredient(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}

	var req models.UpdateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Unit != nil && !req.Unit.Valid() {
		return Error(c, fiber.StatusBadRequest, "unknown unit")
	}
	if req.AveragePrice != nil && *req.AveragePrice < 0 {
		return Error(c, fiber.StatusBadRequest, "average_price cannot be negative")
	}

	ingredient, err := h.db.UpdateIngredient(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrIngredientNotFound) {
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		}
		if errors.Is(err, database.ErrIngredientExists) {
			return Error(c, fiber.StatusConflict, "ingredient already exists")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update ingredient")
	}

	return Success(c, ingredient)
}

// DeleteIngredient deletes an ingredient (admin only)
func (h *Handler) DeleteIngredient(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid ingredient id")
	}

	if err := h.db.DeleteIngredient(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrIngredientNotFound) {
			return Error(c, fiber.StatusNotFound, "ingredient not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete ingredient")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
