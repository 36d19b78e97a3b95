package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/redis/go-redis/v9"

	"github.com/jainhardik06/Qrave-sub000/internal/caching"
	"github.com/jainhardik06/Qrave-sub000/internal/handlers"
	"github.com/jainhardik06/Qrave-sub000/internal/jobs"
	"github.com/jainhardik06/Qrave-sub000/internal/jobs/background"
	"github.com/jainhardik06/Qrave-sub000/internal/middleware"
	"github.com/jainhardik06/Qrave-sub000/internal/repositories"
	"github.com/jainhardik06/Qrave-sub000/internal/services"
	"github.com/jainhardik06/Qrave-sub000/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0 // Default DB
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, redisAddr)
	}

	// Create repositories
	itemRepo := repositories.NewInventoryItemRepo(pool)
	transactionRepo := repositories.NewTransactionRepo(pool)
	recipeRepo := repositories.NewRecipeRepo(pool)
	armyRepo := repositories.NewRestockingArmyRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheServiceFromClient(redisClient)

	// Create services
	itemSvc := services.NewInventoryItemService(itemRepo, cacheSvc)
	transactionSvc := services.NewTransactionService(transactionRepo)
	recipeSvc := services.NewRecipeService(recipeRepo, itemRepo, cacheSvc)
	deductionSvc := services.NewDeductionService(recipeRepo, transactionRepo, itemSvc)
	orderSvc := services.NewOrderService(orderRepo, deductionSvc)
	restockingSvc := services.NewRestockingService(armyRepo, itemRepo, itemSvc)

	// Background jobs
	alertSvc := jobs.NewLowStockAlertService(itemRepo)
	scheduler := background.NewJobScheduler(alertSvc, cacheSvc, itemRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create handlers
	inventoryHandlers := handlers.NewInventoryHandlers(itemSvc)
	transactionHandlers := handlers.NewTransactionHandlers(transactionSvc)
	recipeHandlers := handlers.NewRecipeHandlers(recipeSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	restockingHandlers := handlers.NewRestockingHandlers(restockingSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, redisClient)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoint (no auth required)
	e.GET("/health", healthHandlers.Health)

	// API routes
	v1 := e.Group("/v1")

	// Protected routes (require a tenant-scoped JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))
	protected.Use(middleware.TenantContext())

	// Inventory item routes
	protected.GET("/items", inventoryHandlers.ListItems)
	protected.POST("/items", inventoryHandlers.CreateItem)
	protected.GET("/items/search", inventoryHandlers.SearchItems)
	protected.GET("/items/low-stock", inventoryHandlers.LowStockItems)
	protected.GET("/items/value", inventoryHandlers.TotalValue)
	protected.GET("/items/units", inventoryHandlers.ListUnits)
	protected.GET("/items/:id", inventoryHandlers.GetItem)
	protected.PUT("/items/:id", inventoryHandlers.UpdateItem)
	protected.DELETE("/items/:id", inventoryHandlers.DeactivateItem)
	protected.POST("/items/:id/adjust", inventoryHandlers.AdjustStock)
	protected.GET("/items/:id/transactions", transactionHandlers.ItemHistory)

	// Ledger routes
	protected.GET("/transactions", transactionHandlers.ListTransactions)

	// Recipe routes
	protected.GET("/recipes", recipeHandlers.ListRecipes)
	protected.POST("/recipes", recipeHandlers.UpsertRecipe)
	protected.GET("/recipes/availability", recipeHandlers.DishAvailability)
	protected.GET("/recipes/:dishId", recipeHandlers.GetRecipe)
	protected.DELETE("/recipes/:dishId", recipeHandlers.DeleteRecipe)
	protected.GET("/recipes/:dishId/ingredients", recipeHandlers.RecipeIngredientDetails)

	// Order routes
	protected.GET("/orders", orderHandlers.ListOrders)
	protected.POST("/orders", orderHandlers.CreateOrder)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	protected.GET("/orders/:id/transactions", transactionHandlers.OrderTransactions)

	// Restocking army routes
	protected.GET("/restocking-armies", restockingHandlers.ListArmies)
	protected.POST("/restocking-armies", restockingHandlers.CreateArmy)
	protected.GET("/restocking-armies/:id", restockingHandlers.GetArmy)
	protected.PUT("/restocking-armies/:id", restockingHandlers.UpdateArmy)
	protected.DELETE("/restocking-armies/:id", restockingHandlers.DeactivateArmy)
	protected.POST("/restocking-armies/:id/execute", restockingHandlers.ExecuteArmy)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("🚀 Qrave inventory server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown so the scheduler and pool close cleanly
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := e.Shutdown(context.Background()); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
