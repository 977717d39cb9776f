package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/middleware"
	"github.com/foxxcyber/holiday-menu/internal/models"
	"github.com/foxxcyber/holiday-menu/internal/services"
)

// GenerateShoppingList aggregates the event's selected dishes, or the
// suggested menu when none are selected, and stores the result as the
// event's shopping list
func (h *Handler) GenerateShoppingList(c *fiber.Ctx) error {
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

	var catalog []models.Dish
	if len(event.SelectedDishes) == 0 {
		catalog, err = h.db.ListAllDishes(c.Context())
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to load dishes")
		}
	}

	selected, err := services.SelectEventDishes(event, catalog, h.suggestParams(models.SuggestOptions{}))
	if err != nil {
		if errors.Is(err, services.ErrNoDishesAvailable) {
			return Error(c, fiber.StatusUnprocessableEntity, "no dishes available for this event")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to select dishes")
	}

	result := services.CalculateShoppingList(selected, event.NumberOfGuests)

	if _, err := h.db.ReplaceShoppingList(c.Context(), id, result); err != nil {
		log.Printf("Failed to store shopping list for event %d: %v", id, err)
		return Error(c, fiber.StatusInternalServerError, "failed to store shopping list")
	}

	list, err := h.loadShoppingList(c, id, userID)
	if err != nil {
		return eventError(c, err, "failed to get shopping list")
	}

	return Created(c, list)
}

// GetShoppingList returns the stored shopping list of an event
func (h *Handler) GetShoppingList(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	list, err := h.loadShoppingList(c, id, userID)
	if err != nil {
		return eventError(c, err, "failed to get shopping list")
	}

	return Success(c, list)
}

func (h *Handler) loadShoppingList(c *fiber.Ctx, eventID, userID int) (*models.ShoppingListWithItems, error) {
	list, err := h.db.GetShoppingList(c.Context(), eventID, userID)
	if err != nil {
		return nil, err
	}
	list.PerGuestCost = services.PerGuestCost(list.TotalCost, list.NumberOfGuests)
	return list, nil
}

// ToggleShoppingItem flips the purchased flag of a shopping list item
func (h *Handler) ToggleShoppingItem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}
	itemID, err := strconv.Atoi(c.Params("item_id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	item, err := h.db.ToggleShoppingItem(c.Context(), id, itemID, userID)
	if err != nil {
		return eventError(c, err, "failed to update item")
	}

	return Success(c, item)
}

// ExportShoppingListCSV streams the shopping list as a CSV attachment
func (h *Handler) ExportShoppingListCSV(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	data, err := h.renderShoppingListCSV(c, id, userID)
	if err != nil {
		return eventError(c, err, "failed to export shopping list")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="shopping-list-%d.csv"`, id))
	return c.Send(data)
}

// UploadShoppingListExport stores a CSV export in object storage and
// returns a temporary download link
func (h *Handler) UploadShoppingListExport(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "export storage is not configured")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	data, err := h.renderShoppingListCSV(c, id, userID)
	if err != nil {
		return eventError(c, err, "failed to export shopping list")
	}

	result, err := h.storage.UploadShoppingListExport(c.Context(), id, data, h.cfg.ExportURLExpiry)
	if err != nil {
		log.Printf("Failed to upload export for event %d: %v", id, err)
		return Error(c, fiber.StatusInternalServerError, "failed to upload export")
	}

	return Created(c, result)
}

func (h *Handler) renderShoppingListCSV(c *fiber.Ctx, eventID, userID int) ([]byte, error) {
	list, err := h.loadShoppingList(c, eventID, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := services.WriteShoppingListCSV(&buf, list); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EmailShoppingList mails the shopping list to a recipient
func (h *Handler) EmailShoppingList(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req models.EmailListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.To = strings.TrimSpace(req.To)
	if !emailRegex.MatchString(req.To) {
		return Error(c, fiber.StatusBadRequest, "invalid email address")
	}

	if !h.emailService.IsConfigured() {
		return Error(c, fiber.StatusServiceUnavailable, "email is not configured")
	}

	list, err := h.loadShoppingList(c, id, userID)
	if err != nil {
		return eventError(c, err, "failed to get shopping list")
	}

	subject, htmlBody, textBody := services.ShoppingListEmail(list)
	if err := h.emailService.SendEmail(req.To, subject, htmlBody, textBody); err != nil {
		log.Printf("Failed to email shopping list for event %d: %v", id, err)
		return Error(c, fiber.StatusBadGateway, "failed to send email")
	}

	return Success(c, fiber.Map{"sent_to": req.To})
}
