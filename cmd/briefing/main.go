package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/smileops/dentaldesk/internal/adapters/archive"
	"github.com/smileops/dentaldesk/internal/adapters/cache"
	"github.com/smileops/dentaldesk/internal/adapters/database"
	"github.com/smileops/dentaldesk/internal/application/services"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/anthropic"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/mysql"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/redis"
	"github.com/smileops/dentaldesk/internal/infrastructure/observability"
	"github.com/smileops/dentaldesk/pkg/config"
)

func main() {
	_ = godotenv.Load()

	dateFlag := flag.String("date", "", "target date as YYYY-MM-DD (default today)")
	briefingFlag := flag.Bool("briefing", false, "generate and archive the AI briefing instead of printing the schedule")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	date := time.Now()
	if *dateFlag != "" {
		date, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("Invalid --date %q: expected YYYY-MM-DD", *dateFlag)
		}
	}

	dbClient, err := mysql.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize MySQL client: %v", err)
	}
	defer dbClient.Close()

	// Redis is optional for the CLI; without it results are simply uncached.
	var cacheProvider providers.CacheProvider
	if redisClient, err := redis.NewClient(&cfg.Redis); err == nil {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	appointmentAdapter := database.NewAppointmentAdapter(dbClient)
	scheduleService := services.NewScheduleService(appointmentAdapter, cacheProvider)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	if !*briefingFlag {
		printSchedule(ctx, scheduleService, date)
		return
	}

	if cfg.Anthropic.APIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY is not set; cannot generate a briefing")
	}
	anthropicClient, err := anthropic.NewClient(&cfg.Anthropic)
	if err != nil {
		log.Fatalf("Failed to initialize Anthropic client: %v", err)
	}

	briefingService := services.NewBriefingService(
		scheduleService,
		anthropicClient,
		archive.NewFileArchive(cfg.Briefing.ArchiveDir),
		cacheProvider,
		cfg.Briefing.CacheTTL,
	)

	briefing, err := briefingService.Generate(ctx, date)
	if err != nil {
		log.Fatalf("Failed to generate briefing: %v", err)
	}

	fmt.Println(briefing.Text)
	log.Printf("Briefing archived for %s (model %s, %d in / %d out tokens)",
		briefing.Date.Format("2006-01-02"), briefing.Model, briefing.InputTokens, briefing.OutputTokens)
}

// printSchedule writes the day schedule as a JSON document, the same
// payload shape the dashboard endpoint serves.
func printSchedule(ctx context.Context, schedule *services.ScheduleService, date time.Time) {
	day, err := schedule.DaySchedule(ctx, date)
	if err != nil {
		log.Fatalf("Failed to load schedule: %v", err)
	}

	payload := map[string]interface{}{
		"date":              day.Date.Format("2006-01-02"),
		"appointment_count": len(day.Appointments),
		"appointments":      day.Appointments,
		"broken_history":    day.BrokenHistory,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("Failed to encode schedule: %v", err)
	}
}
