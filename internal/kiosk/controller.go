package kiosk

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smileops/dentaldesk/internal/domain/entities"
)

const (
	// DefaultCountdownTicks is the card auto-reset countdown length.
	DefaultCountdownTicks = 30
	// DefaultTickInterval is the reference tick granularity. The unit is
	// configurable; the ring depletion stays proportional either way.
	DefaultTickInterval = time.Second

	minPhoneDigits = 7

	photoLoadTimeout = 10 * time.Second
)

// Controller owns the kiosk State and is the single writer of it. Every
// user action (input edit, submit, select, back, language switch) and
// every countdown tick flows through it; rendering surfaces only read
// snapshots. All methods are safe for concurrent use.
type Controller struct {
	mu    sync.Mutex
	state State

	search SearchClient
	photos PhotoLoader
	prefs  PreferenceStore
	bundle *Bundle

	totalTicks int
	tickEvery  time.Duration

	// countdownGen invalidates stale timers: every start and stop bumps
	// it, and a tick from an older generation is a no-op. At most one
	// live timer goroutine can hold the current generation.
	countdownGen  uint64
	countdownStop chan struct{}

	// photoGen invalidates photo loads that settle after a reset.
	photoGen uint64
}

// NewController creates a kiosk controller in the welcome state. photos
// and prefs may be nil; photo loads and language persistence are then
// skipped.
func NewController(search SearchClient, photos PhotoLoader, prefs PreferenceStore, totalTicks int, tickEvery time.Duration) *Controller {
	if totalTicks <= 0 {
		totalTicks = DefaultCountdownTicks
	}
	if tickEvery <= 0 {
		tickEvery = DefaultTickInterval
	}
	return &Controller{
		search:     search,
		photos:     photos,
		prefs:      prefs,
		bundle:     DefaultBundle(),
		totalTicks: totalTicks,
		tickEvery:  tickEvery,
		state: State{
			Screen: ScreenWelcome,
			Focus:  FieldLastName,
			Lang:   LangEnglish,
			Photo:  PhotoPlaceholder,
		},
	}
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.state
	if c.state.Results != nil {
		snap.Results = make([]*entities.AppointmentMatch, len(c.state.Results))
		copy(snap.Results, c.state.Results)
	}
	return snap
}

// Localize resolves a message key in the current language.
func (c *Controller) Localize(key string) string {
	c.mu.Lock()
	lang := c.state.Lang
	c.mu.Unlock()
	return c.bundle.Lookup(lang, key)
}

// RestoreLanguage loads the persisted language preference. Called once
// at startup; failures keep the default language.
func (c *Controller) RestoreLanguage(ctx context.Context) {
	if c.prefs == nil {
		return
	}
	tag, err := c.prefs.Language(ctx)
	if err != nil || tag == "" {
		return
	}
	c.mu.Lock()
	c.state.Lang = tag
	c.mu.Unlock()
}

// SetLastName applies a last-name edit, clearing the other two inputs.
func (c *Controller) SetLastName(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastName = v
	c.state.DOB = ""
	c.state.Phone = ""
	c.state.Focus = FieldLastName
	c.state.Message = ""
}

// SetDOB applies a date-of-birth edit with progressive MM/DD/YYYY
// formatting, clearing the other two inputs.
func (c *Controller) SetDOB(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DOB = FormatDOB(raw)
	c.state.LastName = ""
	c.state.Phone = ""
	c.state.Focus = FieldDOB
	c.state.Message = ""
}

// SetPhone applies a phone edit with progressive (AAA) BBB-CCCC
// formatting, clearing the other two inputs.
func (c *Controller) SetPhone(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Phone = FormatPhone(raw)
	c.state.LastName = ""
	c.state.DOB = ""
	c.state.Focus = FieldPhone
	c.state.Message = ""
}

// queryLocked picks the search mode in fixed priority order: last name,
// then date of birth, then phone (sent digits-only).
func (c *Controller) queryLocked() (Mode, string, bool) {
	if v := strings.TrimSpace(c.state.LastName); v != "" {
		return ModeLastName, v, true
	}
	if v := strings.TrimSpace(c.state.DOB); v != "" {
		return ModeDOB, v, true
	}
	if v := onlyDigits(c.state.Phone); v != "" {
		return ModePhone, v, true
	}
	return "", "", false
}

// Submit runs one search cycle. Local validation failures (all inputs
// empty, short phone) never issue a request and are never logged. The
// submit control is re-enabled on every outcome.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return
	}

	mode, value, ok := c.queryLocked()
	if !ok {
		c.state.Message = MsgErrEmpty
		c.mu.Unlock()
		return
	}
	if mode == ModePhone && len(value) < minPhoneDigits {
		c.state.Message = MsgErrPhoneShort
		c.mu.Unlock()
		return
	}

	c.state.Busy = true
	c.state.Message = ""
	c.mu.Unlock()

	results, err := c.search.Search(ctx, mode, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.state.Busy = false }()

	if err != nil {
		c.state.Message = c.messageForError(err)
		return
	}

	// The previous snapshot is replaced wholesale.
	switch len(results) {
	case 0:
		c.state.Results = nil
		c.state.Selected = nil
		c.state.Message = MsgNotFound
	case 1:
		c.enterCardLocked(results, results[0])
	default:
		c.state.Screen = ScreenResults
		c.state.Results = results
		c.state.Selected = nil
	}
}

// messageForError maps endpoint error codes onto localized message keys.
// Unrecognized codes and transport failures both collapse to the generic
// connection message; no technical detail reaches the kiosk.
func (c *Controller) messageForError(err error) string {
	var epErr *EndpointError
	if errors.As(err, &epErr) {
		switch epErr.Code {
		case CodeDOBInvalid:
			return MsgErrDOB
		case CodePhoneShort:
			return MsgErrPhoneShort
		case CodeDBUnavailable:
			return MsgErrConnection
		default:
			return MsgErrConnection
		}
	}
	log.Warn().Err(err).Msg("kiosk search request failed")
	return MsgErrConnection
}

// SelectResult moves from the disambiguation list to the card for the
// row at index i. Out-of-range indexes are ignored.
func (c *Controller) SelectResult(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Screen != ScreenResults || i < 0 || i >= len(c.state.Results) {
		return
	}
	c.enterCardLocked(c.state.Results, c.state.Results[i])
}

// enterCardLocked shows the card for match, kicks off the photo load
// when a patient identifier is present, and (re)starts the countdown.
func (c *Controller) enterCardLocked(results []*entities.AppointmentMatch, match *entities.AppointmentMatch) {
	c.state.Screen = ScreenCard
	c.state.Results = results
	c.state.Selected = match
	c.state.Message = ""
	c.state.Photo = PhotoPlaceholder
	c.state.PhotoData = nil

	// Fire-and-forget: the photo must never block the card or countdown.
	if match.PatNum > 0 && c.photos != nil {
		c.photoGen++
		gen := c.photoGen
		c.state.Photo = PhotoLoading
		go c.loadPhoto(gen, match.PatNum)
	}

	c.startCountdownLocked()
}

func (c *Controller) loadPhoto(gen uint64, patNum int64) {
	ctx, cancel := context.WithTimeout(context.Background(), photoLoadTimeout)
	defer cancel()

	data, err := c.photos.LoadPhoto(ctx, patNum)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.photoGen || c.state.Screen != ScreenCard {
		return
	}
	if err != nil {
		// Failed loads restore the placeholder.
		c.state.Photo = PhotoPlaceholder
		c.state.PhotoData = nil
		return
	}
	c.state.Photo = PhotoLoaded
	c.state.PhotoData = data
}

// Back cancels any pending countdown and returns to the welcome screen.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// SwitchLanguage changes the active language and persists the choice.
// The current screen and result set are untouched.
func (c *Controller) SwitchLanguage(ctx context.Context, tag string) {
	c.mu.Lock()
	if tag == "" || tag == c.state.Lang {
		c.mu.Unlock()
		return
	}
	c.state.Lang = tag
	c.mu.Unlock()

	if c.prefs != nil {
		if err := c.prefs.SetLanguage(ctx, tag); err != nil {
			log.Warn().Err(err).Str("lang", tag).Msg("failed to persist kiosk language preference")
		}
	}
}

// startCountdownLocked starts the card countdown, always cancelling a
// prior timer first so at most one is live.
func (c *Controller) startCountdownLocked() {
	c.stopCountdownLocked()

	gen := c.countdownGen
	stop := make(chan struct{})
	c.countdownStop = stop
	c.state.CountdownTotal = c.totalTicks
	c.state.CountdownRemaining = c.totalTicks

	go c.runCountdown(gen, stop)
}

// stopCountdownLocked cancels the live timer, if any, and invalidates
// any tick still in flight from it.
func (c *Controller) stopCountdownLocked() {
	c.countdownGen++
	if c.countdownStop != nil {
		close(c.countdownStop)
		c.countdownStop = nil
	}
}

func (c *Controller) runCountdown(gen uint64, stop chan struct{}) {
	ticker := time.NewTicker(c.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.tick(gen) {
				return
			}
		}
	}
}

// tick applies one countdown step. It reports whether the timer of the
// given generation should keep running; reaching zero resets the kiosk
// unconditionally.
func (c *Controller) tick(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.countdownGen {
		return false
	}
	if c.state.CountdownRemaining > 0 {
		c.state.CountdownRemaining--
	}
	if c.state.CountdownRemaining == 0 {
		c.resetLocked()
		return false
	}
	return true
}

// resetLocked restores the welcome screen: inputs and message cleared,
// results discarded, photo back to the placeholder, focus on last name.
// The language selection survives the reset.
func (c *Controller) resetLocked() {
	c.stopCountdownLocked()
	c.photoGen++

	lang := c.state.Lang
	c.state = State{
		Screen: ScreenWelcome,
		Focus:  FieldLastName,
		Lang:   lang,
		Photo:  PhotoPlaceholder,
	}
}
