package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/database"
	"github.com/foxxcyber/holiday-menu/internal/middleware"
	"github.com/foxxcyber/holiday-menu/internal/models"
)

const eventDateLayout = "2006-01-02"

// ListEvents returns the current user's events
func (h *Handler) ListEvents(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, offset := pagination(c, 20)
	params := &models.EventListParams{
		Limit:  limit,
		Offset: offset,
		UserID: userID,
	}

	events, total, err := h.db.ListEvents(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list events")
	}

	return SuccessWithMeta(c, events, total, params.Limit, params.Offset)
}

// GetEvent returns an event with guests and selected dishes
func (h *Handler) GetEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	event, err := h.db.GetEventByID(c.Context(), id, userID)
	if err != nil {
		return eventError(c, err, "failed to get event")
	}

	return Success(c, event)
}

// CreateEvent creates a new event
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.NumberOfGuests < 1 {
		return Error(c, fiber.StatusBadRequest, "number_of_guests must be positive")
	}
	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "event_date must be YYYY-MM-DD")
	}

	event, err := h.db.CreateEvent(c.Context(), userID, req.Name, eventDate, req.NumberOfGuests)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create event")
	}

	return Created(c, event)
}

// UpdateEvent updates an event's details
func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req models.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil && *req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name cannot be empty")
	}
	if req.NumberOfGuests != nil && *req.NumberOfGuests < 1 {
		return Error(c, fiber.StatusBadRequest, "number_of_guests must be positive")
	}

	var eventDate *time.Time
	if req.EventDate != nil {
		d, err := time.Parse(eventDateLayout, *req.EventDate)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "event_date must be YYYY-MM-DD")
		}
		eventDate = &d
	}

	event, err := h.db.UpdateEvent(c.Context(), id, userID, req.Name, eventDate, req.NumberOfGuests)
	if err != nil {
		return eventError(c, err, "failed to update event")
	}

	return Success(c, event)
}

// DeleteEvent deletes an event, its shopping list and any stored exports
func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	if err := h.db.DeleteEvent(c.Context(), id, userID); err != nil {
		return eventError(c, err, "failed to delete event")
	}

	if h.storage != nil {
		if err := h.storage.DeleteEventExports(c.Context(), id); err != nil {
			log.Printf("Failed to delete exports of event %d: %v", id, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddEventGuest invites one of the user's guests to an event
func (h *Handler) AddEventGuest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, guestID, err := eventGuestParams(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.AddEventGuest(c.Context(), eventID, guestID, userID); err != nil {
		return eventError(c, err, "failed to add guest")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveEventGuest removes a guest from an event
func (h *Handler) RemoveEventGuest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	eventID, guestID, err := eventGuestParams(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.RemoveEventGuest(c.Context(), eventID, guestID, userID); err != nil {
		return eventError(c, err, "failed to remove guest")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func eventGuestParams(c *fiber.Ctx) (int, int, error) {
	eventID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, 0, errors.New("invalid event id")
	}
	guestID, err := strconv.Atoi(c.Params("guest_id"))
	if err != nil {
		return 0, 0, errors.New("invalid guest id")
	}
	return eventID, guestID, nil
}

// SetEventDishes replaces the dishes selected for an event
func (h *Handler) SetEventDishes(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req models.SetDishesRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	seen := make(map[int]bool, len(req.Dishes))
	for _, d := range req.Dishes {
		if d.Servings != nil && *d.Servings < 1 {
			return Error(c, fiber.StatusBadRequest, "servings must be positive")
		}
		if seen[d.DishID] {
			return Error(c, fiber.StatusBadRequest, "dish "+strconv.Itoa(d.DishID)+" is listed twice")
		}
		seen[d.DishID] = true
	}

	if err := h.db.SetEventDishes(c.Context(), id, userID, req.Dishes); err != nil {
		return eventError(c, err, "failed to set dishes")
	}

	event, err := h.db.GetEventByID(c.Context(), id, userID)
	if err != nil {
		return eventError(c, err, "failed to get event")
	}

	return Success(c, event)
}

func eventError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrEventNotFound):
		return Error(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, database.ErrGuestNotFound):
		return Error(c, fiber.StatusNotFound, "guest not found")
	case errors.Is(err, database.ErrDishNotFound):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrShoppingListNotFound):
		return Error(c, fiber.StatusNotFound, "shopping list not found")
	case errors.Is(err, database.ErrShoppingItemNotFound):
		return Error(c, fiber.StatusNotFound, "shopping item not found")
	}
	return Error(c, fiber.StatusInternalServerError, fallback)
}
