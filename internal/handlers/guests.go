package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/database"
	"github.com/foxxcyber/holiday-menu/internal/middleware"
	"github.com/foxxcyber/holiday-menu/internal/models"
)

// ListGuests returns the current user's guests with their favorite dishes
func (h *Handler) ListGuests(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	guests, err := h.db.ListGuests(c.Context(), userID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list guests")
	}

	return Success(c, guests)
}

// GetGuest returns a single guest
func (h *Handler) GetGuest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid guest id")
	}

	guest, err := h.db.GetGuestByID(c.Context(), id, userID)
	if err != nil {
		return guestError(c, err, "failed to get guest")
	}

	return Success(c, guest)
}

// CreateGuest creates a guest, optionally with favorite dishes
func (h *Handler) CreateGuest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.CreateGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		return Error(c, fiber.StatusBadRequest, "invalid email format")
	}

	guest, err := h.db.CreateGuest(c.Context(), userID, &req)
	if err != nil {
		return guestError(c, err, "failed to create guest")
	}

	return Created(c, guest)
}

// UpdateGuest updates a guest's details
func (h *Handler) UpdateGuest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid guest id")
	}

	var req models.UpdateGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil && *req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name cannot be empty")
	}
	if req.Email != nil && *req.Email != "" && !emailRegex.MatchString(*req.Email) {
		return Error(c, fiber.StatusBadRequest, "invalid email format")
	}

	guest, err := h.db.UpdateGuest(c.Context(), id, userID, &req)
	if err != nil {
		return guestError(c, err, "failed to update guest")
	}

	return Success(c, guest)
}

// SetGuestFavorites replaces a guest's favorite dishes
func (h *Handler) SetGuestFavorites(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid guest id")
	}

	var req models.SetFavoritesRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	guest, err := h.db.SetGuestFavorites(c.Context(), id, userID, req.DishIDs)
	if err != nil {
		return guestError(c, err, "failed to set favorites")
	}

	return Success(c, guest)
}

// DeleteGuest deletes a guest
func (h *Handler) DeleteGuest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid guest id")
	}

	if err := h.db.DeleteGuest(c.Context(), id, userID); err != nil {
		return guestError(c, err, "failed to delete guest")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func guestError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrGuestNotFound):
		return Error(c, fiber.StatusNotFound, "guest not found")
	case errors.Is(err, database.ErrDishNotFound):
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	return Error(c, fiber.StatusInternalServerError, fallback)
}
