package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smileops/dentaldesk/internal/domain/entities"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	"github.com/smileops/dentaldesk/internal/domain/repositories"
)

const dayScheduleCacheTTL = 60 // seconds; dashboards poll, schedules churn

// ScheduleService serves the dashboard's day and month views.
type ScheduleService struct {
	repo  repositories.AppointmentRepository
	cache providers.CacheProvider
}

// NewScheduleService creates a new schedule service. The cache is optional.
func NewScheduleService(repo repositories.AppointmentRepository, cache providers.CacheProvider) *ScheduleService {
	return &ScheduleService{
		repo:  repo,
		cache: cache,
	}
}

// DaySchedule loads the full schedule for a date: appointments plus each
// patient's broken-appointment history.
func (s *ScheduleService) DaySchedule(ctx context.Context, date time.Time) (*entities.DaySchedule, error) {
	cacheKey := fmt.Sprintf("schedule:%s", date.Format("2006-01-02"))

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var schedule entities.DaySchedule
			if err := json.Unmarshal(data, &schedule); err == nil {
				return &schedule, nil
			}
		}
	}

	appointments, err := s.repo.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	patNums := make([]int64, 0, len(appointments))
	for _, apt := range appointments {
		patNums = append(patNums, apt.PatNum)
	}

	brokenHistory, err := s.repo.BrokenHistory(ctx, patNums)
	if err != nil {
		return nil, err
	}

	schedule := &entities.DaySchedule{
		Date:          date,
		Appointments:  appointments,
		BrokenHistory: brokenHistory,
	}

	if s.cache != nil {
		if data, err := json.Marshal(schedule); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, dayScheduleCacheTTL); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache day schedule")
			}
		}
	}

	return schedule, nil
}

// MonthCounts returns scheduled appointment counts per day for a month.
func (s *ScheduleService) MonthCounts(ctx context.Context, year int, month time.Month) (map[string]int, error) {
	return s.repo.MonthCounts(ctx, year, month)
}
