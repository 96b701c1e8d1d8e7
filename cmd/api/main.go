package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"validade-backend/internal/catalog"
	"validade-backend/internal/handler"
	"validade-backend/internal/i18n"
	"validade-backend/internal/mailer"
	"validade-backend/internal/middleware"
	"validade-backend/internal/notify"
	"validade-backend/internal/repository"
	"validade-backend/internal/service"
	"validade-backend/internal/storage"
	"validade-backend/internal/ws"
	"validade-backend/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

// reminderSink pushes fired reminders to the app over the hub.
type reminderSink struct {
	hub *ws.Hub
}

func (s *reminderSink) Deliver(title, body string) {
	s.hub.BroadcastEvent("reminder_fired", map[string]string{"title": title, "body": body})
}

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database and schema
	db := database.ConnectDB(getEnv("DB_PATH", "data/validade.db"))
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	// 3. WebSocket Hub + reminder scheduler
	wsHub := ws.NewHub()
	go wsHub.Run()
	scheduler := notify.NewScheduler(&reminderSink{hub: wsHub})

	// 4. Supporting infrastructure
	photos, err := storage.NewPhotoStore(getEnv("DATA_DIR", "data"))
	if err != nil {
		log.Fatal("Photo store init failed: ", err)
	}
	catalogClient := catalog.New(os.Getenv("CATALOG_URL"))
	mail := mailer.NewFromEnv()
	msgs := i18n.Load(getEnv("APP_LOCALE", "pt-BR"))

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	deviceRepo := repository.NewDeviceRepo(db)

	productService := service.NewProductService(productRepo, settingsRepo, scheduler, photos, catalogClient, msgs, wsHub)
	backupService := service.NewBackupService(productRepo, settingsRepo, scheduler, productService)
	reportService := service.NewReportService(productRepo, settingsRepo, mail, msgs)
	authService := service.NewAuthService(deviceRepo)

	if err := authService.EnsureDevice(getEnv("DEVICE_PIN", "0000")); err != nil {
		log.Fatal("Device seed failed: ", err)
	}

	// 6. Startup housekeeping: sweep stale records, then rebuild
	// reminder timers, both before the first request is served.
	if _, err := productService.RetentionSweep(getEnvInt("RETENTION_DAYS", 5)); err != nil {
		log.Fatal("Retention sweep failed: ", err)
	}
	if err := productService.RescheduleAll(); err != nil {
		log.Fatal("Reminder rebuild failed: ", err)
	}

	productHandler := handler.NewProductHandler(productService, msgs)
	dashHandler := handler.NewDashboardHandler(productService)
	scanHandler := handler.NewScanHandler(productService)
	backupHandler := handler.NewBackupHandler(backupService, msgs)
	settingsHandler := handler.NewSettingsHandler(settingsRepo, productService)
	reportHandler := handler.NewReportHandler(reportService)
	photoHandler := handler.NewPhotoHandler(photos)
	authHandler := handler.NewAuthHandler(authService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "De Olho na Validade API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/pair", authHandler.Pair)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireDevice(deviceRepo))

	protected.Get("/products", productHandler.ListProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)
	protected.Get("/products/archived", productHandler.ListArchived)
	protected.Post("/products/archive", productHandler.ArchiveProducts)
	protected.Post("/products/:id/restore", productHandler.RestoreProduct)

	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/scan/:barcode", scanHandler.Prefill)

	protected.Get("/settings", settingsHandler.GetSettings)
	protected.Put("/settings", settingsHandler.UpdateSettings)

	protected.Get("/backup/export", backupHandler.Export)
	protected.Post("/backup/import", backupHandler.Import)

	protected.Get("/reports/expired", reportHandler.ExpiredReport)
	protected.Post("/reports/expired/share", reportHandler.ShareExpired)

	protected.Post("/photos", photoHandler.Upload)
	app.Static("/photos", photos.PhotoDir())

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := getEnv("PORT", "3000")
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
