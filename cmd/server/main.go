package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/holiday-menu/internal/config"
	"github.com/foxxcyber/holiday-menu/internal/database"
	"github.com/foxxcyber/holiday-menu/internal/handlers"
	"github.com/foxxcyber/holiday-menu/internal/middleware"
	"github.com/foxxcyber/holiday-menu/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, initStorage(cfg))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)

	// Catalog routes (public read)
	dishes := api.Group("/dishes")
	dishes.Get("/", h.ListDishes)
	dishes.Get("/stats", h.GetDishStats)
	dishes.Get("/:id", h.GetDish)

	api.Get("/dish-types", h.ListDishTypes)
	api.Get("/ingredients", h.ListIngredients)

	// Menu preview (public, no persistence)
	api.Post("/menu/preview", h.PreviewMenu)

	// Admin catalog routes (admin only)
	admin := api.Group("/admin", middleware.AuthRequired(cfg), middleware.AdminRequired())
	admin.Post("/dishes", h.CreateDish)
	admin.Put("/dishes/:id", h.UpdateDish)
	admin.Delete("/dishes/:id", h.DeleteDish)
	admin.Post("/dish-types", h.CreateDishType)
	admin.Delete("/dish-types/:id", h.DeleteDishType)
	admin.Post("/ingredients", h.CreateIngredient)
	admin.Put("/ingredients/:id", h.UpdateIngredient)
	admin.Delete("/ingredients/:id", h.DeleteIngredient)

	// Guest routes (authenticated)
	guests := api.Group("/guests", middleware.AuthRequired(cfg))
	guests.Get("/", h.ListGuests)
	guests.Post("/", h.CreateGuest)
	guests.Get("/:id", h.GetGuest)
	guests.Put("/:id", h.UpdateGuest)
	guests.Put("/:id/favorites", h.SetGuestFavorites)
	guests.Delete("/:id", h.DeleteGuest)

	// Event routes (authenticated)
	events := api.Group("/events", middleware.AuthRequired(cfg))
	events.Get("/", h.ListEvents)
	events.Post("/", h.CreateEvent)
	events.Get("/:id", h.GetEvent)
	events.Put("/:id", h.UpdateEvent)
	events.Delete("/:id", h.DeleteEvent)
	events.Post("/:id/guests/:guest_id", h.AddEventGuest)
	events.Delete("/:id/guests/:guest_id", h.RemoveEventGuest)
	events.Get("/:id/intersections", h.GetIntersections)
	events.Post("/:id/menu", h.SuggestMenu)
	events.Put("/:id/dishes", h.SetEventDishes)

	// Shopping list routes
	events.Post("/:id/shopping-list", h.GenerateShoppingList)
	events.Get("/:id/shopping-list", h.GetShoppingList)
	events.Post("/:id/shopping-list/items/:item_id/toggle", h.ToggleShoppingItem)
	events.Get("/:id/shopping-list/export.csv", h.ExportShoppingListCSV)
	events.Post("/:id/shopping-list/export", h.UploadShoppingListExport)
	events.Post("/:id/shopping-list/email", h.EmailShoppingList)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// initStorage connects to the export bucket. Exports to object storage are
// disabled when it is not configured or unreachable.
func initStorage(cfg *config.Config) *services.StorageService {
	if !cfg.StorageConfigured() {
		log.Println("S3 credentials not configured, shopping list uploads disabled")
		return nil
	}

	storage, err := services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage service: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
		return nil
	}

	log.Printf("Export storage initialized (bucket %s)", cfg.S3Bucket)
	return storage
}
