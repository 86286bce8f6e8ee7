package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smileops/dentaldesk/internal/adapters/archive"
	"github.com/smileops/dentaldesk/internal/adapters/cache"
	"github.com/smileops/dentaldesk/internal/adapters/database"
	"github.com/smileops/dentaldesk/internal/adapters/locker"
	"github.com/smileops/dentaldesk/internal/application/services"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/anthropic"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/mysql"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/redis"
	"github.com/smileops/dentaldesk/internal/infrastructure/observability"
	"github.com/smileops/dentaldesk/internal/worker"
	"github.com/smileops/dentaldesk/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	if cfg.Anthropic.APIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY is not set; the scheduler has nothing to run")
	}

	dbClient, err := mysql.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize MySQL client: %v", err)
	}
	defer dbClient.Close()

	// The leader lock needs Redis; without it the worker still runs but
	// every instance generates independently.
	var cacheProvider providers.CacheProvider
	var lockProvider providers.LockProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		lockProvider = locker.NewRedisLocker(redisClient)
	}

	anthropicClient, err := anthropic.NewClient(&cfg.Anthropic)
	if err != nil {
		log.Fatalf("Failed to initialize Anthropic client: %v", err)
	}

	appointmentAdapter := database.NewAppointmentAdapter(dbClient)
	scheduleService := services.NewScheduleService(appointmentAdapter, cacheProvider)
	briefingService := services.NewBriefingService(
		scheduleService,
		anthropicClient,
		archive.NewFileArchive(cfg.Briefing.ArchiveDir),
		cacheProvider,
		cfg.Briefing.CacheTTL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	briefingWorker := worker.NewBriefingWorker(briefingService, lockProvider, cfg.Briefing.CronSpec)
	briefingWorker.Start(ctx)
	log.Printf("Scheduler started with cron spec %q", cfg.Briefing.CronSpec)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Scheduler shutting down...")
	briefingWorker.Stop()
	log.Println("Scheduler stopped")
}
