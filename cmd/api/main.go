package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quickcar/quickcar-backend/internal/database"
	"github.com/quickcar/quickcar-backend/internal/handlers"
	"github.com/quickcar/quickcar-backend/internal/matching"
	"github.com/quickcar/quickcar-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis (optional - lookups work without the cache)
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	// Wire the matching core to its storage collaborators
	listingStore := database.NewQuickCarStore(db)
	tripStore := database.NewTripStore(db)
	reconciler := matching.NewReconciler(tripStore)
	matcher := matching.NewMatcher(listingStore, reconciler)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := r.Group("/api")
	{
		quickcars := api.Group("/quickcars")
		{
			quickcars.GET("/nearby", handlers.GetNearbyQuickCars(matcher))
			quickcars.POST("", handlers.CreateQuickCar(db))
			quickcars.GET("", handlers.GetActiveQuickCars(db))
			quickcars.GET("/:id", handlers.GetQuickCar(db))
			quickcars.PUT("/:id", handlers.UpdateQuickCar(db))
			quickcars.DELETE("/:id", handlers.DeleteQuickCar(db))
			quickcars.POST("/:id/location", handlers.UpdateQuickCarLocation(db))
			quickcars.GET("/:id/location", handlers.GetQuickCarLocation(db))
		}

		trips := api.Group("/trips")
		{
			trips.POST("/nearby", handlers.FindDriversForTrip(matcher))
			trips.POST("", handlers.CreateTrip(db))
			trips.GET("/:id", handlers.GetTrip(db))
			trips.PATCH("/:id/status", handlers.UpdateTripStatus(db))
			trips.GET("/passenger/:passengerId", handlers.GetPassengerTrips(db))
			trips.GET("/driver/:driverId", handlers.GetDriverTrips(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
