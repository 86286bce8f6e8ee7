package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/smileops/dentaldesk/internal/application/services"
	"github.com/smileops/dentaldesk/internal/domain/providers"
)

const (
	leaderLockKey = "briefing:leader"
	leaderLockTTL = 5 * time.Minute
)

// BriefingWorker generates the daily briefing on a cron schedule. When
// several scheduler instances run, a Redis leader lock ensures only one
// generates per firing.
type BriefingWorker struct {
	briefings *services.BriefingService
	locker    providers.LockProvider
	spec      string

	runCtx context.Context
	cancel context.CancelFunc
	cron   *cron.Cron
}

// NewBriefingWorker creates a briefing worker firing on the given cron
// spec (five-field format, e.g. "0 8 * * *").
func NewBriefingWorker(briefings *services.BriefingService, locker providers.LockProvider, spec string) *BriefingWorker {
	return &BriefingWorker{
		briefings: briefings,
		locker:    locker,
		spec:      spec,
	}
}

// Start schedules the worker. An invalid cron spec falls back to @daily.
func (w *BriefingWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)

	c := cron.New()
	if _, err := c.AddFunc(w.spec, func() { w.RunOnce(w.runCtx) }); err != nil {
		log.Warn().Err(err).Str("spec", w.spec).Msg("briefing worker: invalid cron spec, falling back to @daily")
		c = cron.New()
		_, _ = c.AddFunc("@daily", func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c

	log.Info().Str("spec", w.spec).Msg("briefing worker started")
}

// Stop prevents future firings, waits for an in-flight run to finish,
// then releases the run context.
func (w *BriefingWorker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	if w.cancel != nil {
		w.cancel()
	}
}

// RunOnce generates today's briefing under the leader lock. Losing the
// lock race is not an error.
func (w *BriefingWorker) RunOnce(ctx context.Context) {
	if w.locker != nil {
		acquired, token, err := w.locker.TryLock(ctx, leaderLockKey, leaderLockTTL)
		if err != nil {
			log.Warn().Err(err).Msg("briefing worker: leader lock attempt failed")
			return
		}
		if !acquired {
			log.Info().Msg("briefing worker: leader lock held elsewhere, skipping run")
			return
		}
		defer func() {
			if err := w.locker.Unlock(ctx, leaderLockKey, token); err != nil {
				log.Warn().Err(err).Msg("briefing worker: failed to release leader lock")
			}
		}()
	}

	today := time.Now()
	briefing, err := w.briefings.Generate(ctx, today)
	if err != nil {
		log.Error().Err(err).Str("date", today.Format("2006-01-02")).Msg("briefing worker: generation failed")
		return
	}

	log.Info().
		Str("date", briefing.Date.Format("2006-01-02")).
		Str("model", briefing.Model).
		Int("input_tokens", briefing.InputTokens).
		Int("output_tokens", briefing.OutputTokens).
		Msg("briefing worker: daily briefing generated")
}
