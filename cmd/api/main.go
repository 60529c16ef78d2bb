package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stockledger/internal/handler"
	"go-stockledger/internal/middleware"
	"go-stockledger/internal/model"
	"go-stockledger/internal/repository"
	"go-stockledger/internal/service"
	"go-stockledger/internal/ws"
	"go-stockledger/pkg/database"
	"go-stockledger/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{}, &model.Category{})

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	invService := service.NewInventoryService(productRepo, db, wsHub)
	txService := service.NewTransactionService(productRepo, txRepo, db, wsHub)
	dashService := service.NewDashboardService(txRepo)
	authService := service.NewAuthService(userRepo)

	invHandler := handler.NewInventoryHandler(invService)
	txHandler := handler.NewTransactionHandler(txService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "StockLedger API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	// Everything below runs inside a resolved tenant scope
	protected := api.Group("", middleware.RequireAuth())

	// Product Routes
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", invHandler.CreateProduct)
	protected.Put("/products/:id", invHandler.UpdateProduct)

	// Category Routes
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Delete("/categories", categoryHandler.DeleteCategory)

	// Transaction Routes
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Post("/transactions", txHandler.CreateTransaction)
	protected.Put("/transactions/:id", txHandler.UpdateTransaction)
	protected.Delete("/transactions/:id", txHandler.DeleteTransaction)

	// Dashboard Routes
	protected.Get("/dashboard/summary", dashHandler.GetSummary)
	protected.Get("/dashboard/trends", dashHandler.GetTrends)
	protected.Get("/dashboard/top-products", dashHandler.GetTopProducts)
	protected.Get("/dashboard/recent-transactions", dashHandler.GetRecentTransactions)

	// WebSocket Route (token passed as query param on upgrade)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		claims, err := jwt.ValidateToken(c.Query("token"))
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		c.Locals("tenant_id", claims.TenantID)
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		tenantID, _ := c.Locals("tenant_id").(string)
		wsHub.Register <- ws.Client{Conn: c, TenantID: tenantID}
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
