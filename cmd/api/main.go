package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"conference-api/config"
	"conference-api/middleware"
	"conference-api/monitor"
	"conference-api/routes"
	"conference-api/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging (stdout + log file)
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()
	config.MigrateDB()

	// Register Prometheus metrics
	monitor.Register()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Add rate limiting
	router.Use(middleware.RateLimitMiddleware(rateLimitFromEnv()))

	// Setup routes and metrics endpoint
	routes.SetupRoutes(router)
	monitor.Mount(router)

	// Start the email outbox worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := services.NewEmailWorker(config.DB, func(to, subject, body string) error {
		return config.SendMail([]string{to}, subject, body)
	})
	if interval, err := time.ParseDuration(os.Getenv("OUTBOX_INTERVAL")); err == nil && interval > 0 {
		worker.Interval = interval
	}
	if batch, err := strconv.Atoi(os.Getenv("OUTBOX_BATCH_SIZE")); err == nil && batch > 0 {
		worker.BatchSize = batch
	}
	go worker.Run(ctx)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

// rateLimitFromEnv reads RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW with the
// defaults of 100 requests per minute per client IP.
func rateLimitFromEnv() (int, time.Duration) {
	limit := 100
	if raw, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && raw > 0 {
		limit = raw
	}
	window := time.Minute
	if raw, err := time.ParseDuration(os.Getenv("RATE_LIMIT_WINDOW")); err == nil && raw > 0 {
		window = raw
	}
	return limit, window
}
