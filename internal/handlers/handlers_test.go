package handlers

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/holiday-menu/internal/config"
	"github.com/foxxcyber/holiday-menu/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		MenuMaxDishes:      8,
		MenuMaxCookingTime: 180,
		MenuBalanceTypes:   true,
	}
}

// testApp mounts handlers that never reach the database. Requests are
// authenticated as user 1 by a stub middleware.
func testApp() *fiber.App {
	h := New(nil, testConfig(), nil)

	app := fiber.New()
	app.Post("/menu/preview", h.PreviewMenu)

	anon := app.Group("/anon")
	anon.Get("/events/:id", h.GetEvent)
	anon.Post("/events/:id/shopping-list", h.GenerateShoppingList)

	auth := app.Group("/auth", func(c *fiber.Ctx) error {
		c.Locals("user_id", 1)
		return c.Next()
	})
	auth.Post("/events", h.CreateEvent)
	auth.Get("/events/:id", h.GetEvent)
	auth.Put("/events/:id/dishes", h.SetEventDishes)
	auth.Post("/events/:id/menu", h.SuggestMenu)
	auth.Post("/events/:id/shopping-list/export", h.UploadShoppingListExport)
	auth.Post("/events/:id/shopping-list/email", h.EmailShoppingList)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, APIResponse, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var envelope APIResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, envelope, raw
}

const previewBody = `{
	"dishes": [
		{"id": 1, "name": "Olivier", "dish_type": {"id": 1, "name": "Salad"}, "cooking_time": 60,
		 "difficulty": "easy", "popularity_score": 9,
		 "ingredients": [{"ingredient": {"id": 10, "name": "Potato", "unit": "g", "average_price": 40, "category": "Vegetables"}, "quantity": 200}]},
		{"id": 2, "name": "Crab salad", "dish_type": {"id": 1, "name": "Salad"}, "cooking_time": 30,
		 "difficulty": "easy", "popularity_score": 7},
		{"id": 3, "name": "Shashlik", "dish_type": {"id": 2, "name": "Main"}, "cooking_time": 120,
		 "difficulty": "medium", "popularity_score": 8,
		 "ingredients": [{"ingredient": {"id": 11, "name": "Pork neck", "unit": "g", "average_price": 500, "category": "Meat"}, "quantity": 300}]}
	],
	"guests": [
		{"name": "Anna", "favorite_dish_ids": [1, 3]},
		{"name": "Boris", "favorite_dish_ids": [1, 2, 1]},
		{"name": "Vera", "favorite_dish_ids": [1]}
	]
}`

func TestPreviewMenu(t *testing.T) {
	app := testApp()

	status, _, raw := send(t, app, "POST", "/menu/preview", previewBody)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", status, raw)
	}

	var resp struct {
		Data models.MenuPreviewResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	got := resp.Data

	t.Run("intersections use the default threshold", func(t *testing.T) {
		if len(got.Intersections) != 1 {
			t.Fatalf("len(Intersections) = %d, want 1", len(got.Intersections))
		}
		row := got.Intersections[0]
		if row.Dish.ID != 1 || row.GuestCount != 3 {
			t.Errorf("row = dish %d count %d, want dish 1 count 3", row.Dish.ID, row.GuestCount)
		}
		if strings.Join(row.GuestNames, ",") != "Anna,Boris,Vera" {
			t.Errorf("GuestNames = %v", row.GuestNames)
		}
		if len(got.CommonGuests) != 0 {
			t.Errorf("CommonGuests = %v, want none", got.CommonGuests)
		}
	})

	t.Run("suggestions are balanced and bounded", func(t *testing.T) {
		if len(got.Suggestions) != 2 {
			t.Fatalf("len(Suggestions) = %d, want 2", len(got.Suggestions))
		}
		if got.Suggestions[0].Dish.ID != 1 || got.Suggestions[1].Dish.ID != 3 {
			t.Errorf("suggested dishes = %d, %d, want 1, 3", got.Suggestions[0].Dish.ID, got.Suggestions[1].Dish.ID)
		}
		if math.Abs(got.Suggestions[0].Score-2.3) > 1e-9 {
			t.Errorf("Score = %v, want 2.3", got.Suggestions[0].Score)
		}
		if got.Suggestions[0].Reason != "liked by 3 guests" {
			t.Errorf("Reason = %q", got.Suggestions[0].Reason)
		}
	})

	t.Run("shopping list covers the suggested dishes", func(t *testing.T) {
		list := got.ShoppingList
		if list == nil {
			t.Fatal("ShoppingList is nil")
		}
		if list.GuestsCount != 3 {
			t.Errorf("GuestsCount = %d, want 3", list.GuestsCount)
		}
		if len(list.Items) != 2 || list.Items[0].Ingredient.Name != "Pork neck" {
			t.Fatalf("Items = %+v, want pork first", list.Items)
		}
		if math.Abs(list.Items[1].Quantity-600) > 1e-9 {
			t.Errorf("potato quantity = %v, want 600", list.Items[1].Quantity)
		}
		if math.Abs(list.TotalCost-474) > 1e-9 {
			t.Errorf("TotalCost = %v, want 474", list.TotalCost)
		}
		if math.Abs(list.PerGuestCost-158) > 1e-9 {
			t.Errorf("PerGuestCost = %v, want 158", list.PerGuestCost)
		}
	})

	t.Run("analysis", func(t *testing.T) {
		if got.Analysis == nil {
			t.Fatal("Analysis is nil")
		}
		if got.Analysis.TotalCookingTime != 180 {
			t.Errorf("TotalCookingTime = %d, want 180", got.Analysis.TotalCookingTime)
		}
		if got.Analysis.TypeDistribution["Salad"] != 1 || got.Analysis.TypeDistribution["Main"] != 1 {
			t.Errorf("TypeDistribution = %v", got.Analysis.TypeDistribution)
		}
	})
}

func TestPreviewMenuOverrides(t *testing.T) {
	app := testApp()

	body := strings.Replace(previewBody, `"guests": [`, `"min_common": 1, "max_dishes": 1, "guests_count": 10, "guests": [`, 1)
	status, _, raw := send(t, app, "POST", "/menu/preview", body)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", status, raw)
	}

	var resp struct {
		Data models.MenuPreviewResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode preview: %v", err)
	}

	if len(resp.Data.Intersections) != 3 {
		t.Errorf("len(Intersections) = %d, want 3", len(resp.Data.Intersections))
	}
	wantCommon := []models.CommonGuest{
		{GuestID: 1, Name: "Anna", CommonDishesCount: 2},
		{GuestID: 2, Name: "Boris", CommonDishesCount: 2},
	}
	if !reflect.DeepEqual(resp.Data.CommonGuests, wantCommon) {
		t.Errorf("CommonGuests = %+v, want %+v", resp.Data.CommonGuests, wantCommon)
	}
	if len(resp.Data.Suggestions) != 1 {
		t.Errorf("len(Suggestions) = %d, want 1", len(resp.Data.Suggestions))
	}
	if resp.Data.ShoppingList.GuestsCount != 10 {
		t.Errorf("GuestsCount = %d, want 10", resp.Data.ShoppingList.GuestsCount)
	}
	if math.Abs(resp.Data.ShoppingList.TotalCost-80) > 1e-9 {
		t.Errorf("TotalCost = %v, want 80", resp.Data.ShoppingList.TotalCost)
	}
}

func TestPreviewMenuRejectsBadInput(t *testing.T) {
	app := testApp()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"guests": [`},
		{"unknown favorite", `{"dishes": [{"id": 1, "name": "Olivier"}], "guests": [{"name": "Anna", "favorite_dish_ids": [2]}]}`},
		{"duplicate dish", `{"dishes": [{"id": 1, "name": "Olivier"}, {"id": 1, "name": "Olivier"}]}`},
		{"nameless guest", `{"dishes": [], "guests": [{"name": ""}]}`},
		{"negative cooking time", `{"dishes": [{"id": 1, "name": "Olivier", "cooking_time": -5}]}`},
		{"ingredient without id", `{"dishes": [{"id": 1, "name": "Olivier", "ingredients": [
			{"ingredient": {"name": "Potato", "unit": "g"}, "quantity": 300},
			{"ingredient": {"name": "Eggs", "unit": "pcs"}, "quantity": 1}]}]}`},
		{"duplicate ingredient", `{"dishes": [{"id": 1, "name": "Olivier", "ingredients": [
			{"ingredient": {"id": 10, "name": "Potato", "unit": "g"}, "quantity": 300},
			{"ingredient": {"id": 10, "name": "Potato", "unit": "g"}, "quantity": 100}]}]}`},
		{"negative quantity", `{"dishes": [{"id": 1, "name": "Olivier", "ingredients": [
			{"ingredient": {"id": 10, "name": "Potato", "unit": "g"}, "quantity": -300}]}]}`},
		{"unknown difficulty", `{"dishes": [{"id": 1, "name": "Olivier", "difficulty": "heroic"}]}`},
		{"negative max dishes", `{"max_dishes": -1}`},
		{"negative guests count", `{"guests_count": -3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope, _ := send(t, app, "POST", "/menu/preview", tt.body)
			if status != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if envelope.Success || envelope.Error == "" {
				t.Errorf("envelope = %+v, want an error", envelope)
			}
		})
	}
}

func TestPreviewMenuWithoutFavorites(t *testing.T) {
	app := testApp()

	body := `{"dishes": [
		{"id": 1, "name": "Olivier", "popularity_score": 5},
		{"id": 2, "name": "Plov", "popularity_score": 9}
	], "guests": [{"name": "Anna"}], "max_dishes": 1}`

	status, _, raw := send(t, app, "POST", "/menu/preview", body)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", status, raw)
	}

	var resp struct {
		Data models.MenuPreviewResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode preview: %v", err)
	}

	if len(resp.Data.Suggestions) != 1 {
		t.Fatalf("len(Suggestions) = %d, want 1", len(resp.Data.Suggestions))
	}
	s := resp.Data.Suggestions[0]
	if s.Dish.Name != "Plov" || s.Reason != "popular dish" || s.Score != 9 {
		t.Errorf("suggestion = %+v, want Plov by popularity", s)
	}
	if len(resp.Data.Intersections) != 0 {
		t.Errorf("Intersections = %v, want none", resp.Data.Intersections)
	}
}

func TestEventRoutesRequireUser(t *testing.T) {
	app := testApp()

	status, _, _ := send(t, app, "GET", "/anon/events/1", "")
	if status != fiber.StatusUnauthorized {
		t.Errorf("GET event status = %d, want 401", status)
	}

	status, _, _ = send(t, app, "POST", "/anon/events/1/shopping-list", "")
	if status != fiber.StatusUnauthorized {
		t.Errorf("POST shopping-list status = %d, want 401", status)
	}
}

func TestEventRequestValidation(t *testing.T) {
	app := testApp()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"create without name", "POST", "/auth/events", `{"event_date": "2026-12-31", "number_of_guests": 4}`, fiber.StatusBadRequest},
		{"create with zero guests", "POST", "/auth/events", `{"name": "New Year", "event_date": "2026-12-31", "number_of_guests": 0}`, fiber.StatusBadRequest},
		{"create with bad date", "POST", "/auth/events", `{"name": "New Year", "event_date": "31.12.2026", "number_of_guests": 4}`, fiber.StatusBadRequest},
		{"bad event id", "GET", "/auth/events/abc", "", fiber.StatusBadRequest},
		{"zero servings", "PUT", "/auth/events/1/dishes", `{"dishes": [{"dish_id": 1, "servings": 0}]}`, fiber.StatusBadRequest},
		{"duplicate dish", "PUT", "/auth/events/1/dishes", `{"dishes": [{"dish_id": 1}, {"dish_id": 1}]}`, fiber.StatusBadRequest},
		{"negative cooking budget", "POST", "/auth/events/1/menu", `{"max_cooking_time": -10}`, fiber.StatusBadRequest},
		{"export without storage", "POST", "/auth/events/1/shopping-list/export", "", fiber.StatusServiceUnavailable},
		{"email to bad address", "POST", "/auth/events/1/shopping-list/email", `{"to": "not-an-email"}`, fiber.StatusBadRequest},
		{"email without smtp", "POST", "/auth/events/1/shopping-list/email", `{"to": "host@example.com"}`, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope, _ := send(t, app, tt.method, tt.path, tt.body)
			if status != tt.want {
				t.Errorf("status = %d, want %d (%s)", status, tt.want, envelope.Error)
			}
		})
	}
}

func TestValidateDish(t *testing.T) {
	tests := []struct {
		name        string
		cookingTime int
		difficulty  models.Difficulty
		ingredients []models.DishIngredientInput
		wantErr     bool
	}{
		{"valid", 45, models.DifficultyMedium, []models.DishIngredientInput{{IngredientID: 1, Quantity: 100}, {IngredientID: 2, Quantity: 2}}, false},
		{"difficulty optional", 0, "", nil, false},
		{"negative cooking time", -1, models.DifficultyEasy, nil, true},
		{"unknown difficulty", 10, "extreme", nil, true},
		{"negative quantity", 10, models.DifficultyEasy, []models.DishIngredientInput{{IngredientID: 1, Quantity: -1}}, true},
		{"duplicate ingredient", 10, models.DifficultyEasy, []models.DishIngredientInput{{IngredientID: 1, Quantity: 1}, {IngredientID: 1, Quantity: 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDish(tt.cookingTime, tt.difficulty, tt.ingredients)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateDish() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c, 20)
		return c.JSON(fiber.Map{"limit": limit, "offset": offset})
	})

	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=50&offset=10", 50, 10},
		{"?limit=500", 20, 0},
		{"?limit=0&offset=-4", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			var got struct {
				Limit  int `json:"limit"`
				Offset int `json:"offset"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
				t.Errorf("pagination = (%d, %d), want (%d, %d)", got.Limit, got.Offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
