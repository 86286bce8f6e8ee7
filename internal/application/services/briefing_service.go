package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/smileops/dentaldesk/internal/domain/entities"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

// BriefingArchive persists generated briefing texts.
type BriefingArchive interface {
	// Save writes the briefing text for a date and returns where it landed.
	Save(briefing *entities.Briefing) (string, error)

	// Read returns the archived text for a date, or an error when absent.
	Read(date time.Time) (string, error)
}

// BriefingService generates, caches and archives the morning briefing.
type BriefingService struct {
	schedule *ScheduleService
	provider providers.BriefingProvider
	archive  BriefingArchive
	cache    providers.CacheProvider
	cacheTTL int
	now      func() time.Time
}

// NewBriefingService creates a new briefing service. Cache is optional.
func NewBriefingService(
	schedule *ScheduleService,
	provider providers.BriefingProvider,
	archive BriefingArchive,
	cache providers.CacheProvider,
	cacheTTL int,
) *BriefingService {
	return &BriefingService{
		schedule: schedule,
		provider: provider,
		archive:  archive,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Generate builds the schedule prompt for a date, calls the model, archives
// and caches the result.
func (s *BriefingService) Generate(ctx context.Context, date time.Time) (*entities.Briefing, error) {
	if s.provider == nil {
		return nil, apperrors.NewValidationError("briefing provider is not configured; set ANTHROPIC_API_KEY")
	}

	schedule, err := s.schedule.DaySchedule(ctx, date)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load schedule for briefing", err)
	}

	block := FormatScheduleBlock(schedule)

	log.Info().Str("date", date.Format("2006-01-02")).
		Int("appointments", len(schedule.Appointments)).
		Msg("requesting morning briefing")

	result, err := s.provider.GenerateBriefing(ctx, block)
	if err != nil {
		return nil, apperrors.NewExternalError("briefing generation failed", err)
	}

	briefing := &entities.Briefing{
		ID:           uuid.New().String(),
		Date:         date,
		Text:         result.Text,
		Model:        result.Model,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		GeneratedAt:  s.now(),
	}

	if s.archive != nil {
		path, err := s.archive.Save(briefing)
		if err != nil {
			log.Warn().Err(err).Msg("failed to archive briefing")
		} else {
			log.Info().Str("path", path).Msg("briefing archived")
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(briefing); err == nil {
			if err := s.cache.Set(ctx, briefingCacheKey(date), data, s.cacheTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache briefing")
			}
		}
	}

	return briefing, nil
}

// Get returns a previously generated briefing for a date, from cache first,
// falling back to the archive.
func (s *BriefingService) Get(ctx context.Context, date time.Time) (*entities.Briefing, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, briefingCacheKey(date)); err == nil {
			var briefing entities.Briefing
			if err := json.Unmarshal(data, &briefing); err == nil {
				return &briefing, nil
			}
		}
	}

	if s.archive != nil {
		text, err := s.archive.Read(date)
		if err == nil {
			return &entities.Briefing{
				Date: date,
				Text: text,
			}, nil
		}
	}

	return nil, apperrors.NewNotFoundError(
		fmt.Sprintf("no briefing found for %s", date.Format("2006-01-02")))
}

func briefingCacheKey(date time.Time) string {
	return "briefing:" + date.Format("2006-01-02")
}
