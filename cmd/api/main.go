package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smileops/dentaldesk/internal/adapters/archive"
	"github.com/smileops/dentaldesk/internal/adapters/cache"
	"github.com/smileops/dentaldesk/internal/adapters/database"
	"github.com/smileops/dentaldesk/internal/adapters/photos"
	"github.com/smileops/dentaldesk/internal/api/handlers"
	"github.com/smileops/dentaldesk/internal/api/routes"
	"github.com/smileops/dentaldesk/internal/application/services"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/anthropic"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/mysql"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/redis"
	"github.com/smileops/dentaldesk/internal/infrastructure/observability"
	"github.com/smileops/dentaldesk/pkg/config"
)

func main() {
	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize the Open Dental MySQL client
	dbClient, err := mysql.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize MySQL client: %v", err)
	}
	defer dbClient.Close()
	log.Println("MySQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	appointmentAdapter := database.NewAppointmentAdapter(dbClient)
	photoStore := photos.NewOpenDentalStore(cfg.Kiosk.ImageRoot)
	briefingArchive := archive.NewFileArchive(cfg.Briefing.ArchiveDir)

	// The briefing provider is optional; without an API key the briefing
	// endpoints report that generation is not configured.
	var briefingProvider providers.BriefingProvider
	if cfg.Anthropic.APIKey == "" {
		log.Println("Warning: ANTHROPIC_API_KEY is not set; briefing generation disabled")
	} else {
		anthropicClient, err := anthropic.NewClient(&cfg.Anthropic)
		if err != nil {
			log.Printf("Warning: Failed to initialize Anthropic client: %v", err)
		} else {
			briefingProvider = anthropicClient
		}
	}

	// Initialize services
	scheduleService := services.NewScheduleService(appointmentAdapter, cacheProvider)
	kioskSearchService := services.NewKioskSearchService(appointmentAdapter)
	briefingService := services.NewBriefingService(
		scheduleService,
		briefingProvider,
		briefingArchive,
		cacheProvider,
		cfg.Briefing.CacheTTL,
	)

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(scheduleService)
	kioskHandler := handlers.NewKioskHandler(kioskSearchService, photoStore, metrics)
	briefingHandler := handlers.NewBriefingHandler(briefingService)

	// Set up router
	router := routes.NewRouter(
		dashboardHandler,
		kioskHandler,
		briefingHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
