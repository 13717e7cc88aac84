package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"car_rental/internal/api"        // Custom package for API handlers
	"car_rental/internal/config"     // Custom package for configuration
	"car_rental/internal/middleware" // Custom package for middleware

	"github.com/gin-contrib/cors"  // CORS middleware for Gin
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Per-request logging
	r.Use(middleware.RequestLoggingMiddleware())

	// CORS for the browser client
	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000" // Default frontend origin
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},                      // Allowed origin
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},  // Allowed methods
		AllowHeaders:     []string{"Content-Type", "Authorization"}, // Allowed headers
		AllowCredentials: true,                                      // Cookies allowed
	}))

	// Auth routes
	r.POST("/api/v1/users/signup", api.SignUpHandler(db))                // Registration endpoint
	r.POST("/api/v1/users/signin", api.SignInHandler(db, cfg.JWTSecret)) // Login endpoint

	// Booking routes (protected by JWT)
	bookingGroup := r.Group("/api/v1/bookings")
	// Protect booking routes with JWT middleware and inject Redis client into context
	bookingGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	bookingGroup.POST("", api.CreateBookingHandler(db))              // Create booking endpoint
	bookingGroup.GET("", api.GetBookingsHandler(db, redisClient))    // List / single / summary endpoint
	bookingGroup.PUT("/:bookingId", api.UpdateBookingHandler(db))    // Update booking endpoint
	bookingGroup.DELETE("/:bookingId", api.DeleteBookingHandler(db)) // Delete booking endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
