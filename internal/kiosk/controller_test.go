package kiosk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileops/dentaldesk/internal/domain/entities"
)

type fakeSearch struct {
	mu      sync.Mutex
	calls   int
	results []*entities.AppointmentMatch
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, mode Mode, value string) ([]*entities.AppointmentMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.err
}

func (f *fakeSearch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePhotos struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (f *fakePhotos) LoadPhoto(ctx context.Context, patNum int64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, f.err
}

func (f *fakePhotos) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePrefs struct {
	mu   sync.Mutex
	lang string
	err  error
}

func (f *fakePrefs) Language(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lang, f.err
}

func (f *fakePrefs) SetLanguage(ctx context.Context, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lang = tag
	return f.err
}

// newTestController uses an hour-long tick so the timer goroutine never
// fires on its own; tests drive tick() directly.
func newTestController(search SearchClient, photos PhotoLoader, prefs PreferenceStore) *Controller {
	return NewController(search, photos, prefs, 30, time.Hour)
}

func match(patNum int64, first, last, at string) *entities.AppointmentMatch {
	return &entities.AppointmentMatch{
		PatNum:    patNum,
		FirstName: first,
		LastName:  last,
		Time:      at,
		Provider:  "Dr. Amy Chen",
		Procedure: "Cleaning",
	}
}

func TestSubmit_AllEmpty_NeverIssuesRequest(t *testing.T) {
	search := &fakeSearch{}
	c := newTestController(search, nil, nil)

	c.Submit(context.Background())

	assert.Equal(t, 0, search.callCount())
	snap := c.Snapshot()
	assert.Equal(t, MsgErrEmpty, snap.Message)
	assert.Equal(t, ScreenWelcome, snap.Screen)
}

func TestSubmit_ShortPhone_NeverIssuesRequest(t *testing.T) {
	search := &fakeSearch{}
	c := newTestController(search, nil, nil)

	c.SetPhone("516555") // six digits
	c.Submit(context.Background())

	assert.Equal(t, 0, search.callCount())
	assert.Equal(t, MsgErrPhoneShort, c.Snapshot().Message)
}

func TestSubmit_SevenDigitPhone_Searches(t *testing.T) {
	search := &fakeSearch{}
	c := newTestController(search, nil, nil)

	c.SetPhone("5165551")
	c.Submit(context.Background())

	assert.Equal(t, 1, search.callCount())
}

func TestSetInput_ClearsOtherFields(t *testing.T) {
	c := newTestController(&fakeSearch{}, nil, nil)

	c.SetLastName("Smith")
	c.SetDOB("01152025")
	snap := c.Snapshot()
	assert.Empty(t, snap.LastName)
	assert.Equal(t, "01/15/2025", snap.DOB)
	assert.Equal(t, FieldDOB, snap.Focus)

	c.SetPhone("5165551234")
	snap = c.Snapshot()
	assert.Empty(t, snap.DOB)
	assert.Equal(t, "(516) 555-1234", snap.Phone)
}

func TestQueryPriority_LastNameBeforeDOBBeforePhone(t *testing.T) {
	c := newTestController(&fakeSearch{}, nil, nil)

	c.mu.Lock()
	c.state.LastName = "Smith"
	c.state.DOB = "01/15/1980"
	c.state.Phone = "(516) 555-1234"
	mode, value, ok := c.queryLocked()
	c.mu.Unlock()

	require.True(t, ok)
	assert.Equal(t, ModeLastName, mode)
	assert.Equal(t, "Smith", value)

	c.mu.Lock()
	c.state.LastName = ""
	mode, _, _ = c.queryLocked()
	c.mu.Unlock()
	assert.Equal(t, ModeDOB, mode)

	c.mu.Lock()
	c.state.DOB = ""
	mode, value, _ = c.queryLocked()
	c.mu.Unlock()
	assert.Equal(t, ModePhone, mode)
	assert.Equal(t, "5165551234", value, "phone is sent digits-only")
}

func TestSubmit_ZeroResults_StaysOnSearchScreen(t *testing.T) {
	search := &fakeSearch{results: []*entities.AppointmentMatch{}}
	c := newTestController(search, nil, nil)

	c.SetLastName("Smith")
	c.Submit(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, ScreenWelcome, snap.Screen)
	assert.Equal(t, MsgNotFound, snap.Message)
	assert.Nil(t, snap.Results)
	assert.False(t, snap.Busy)
}

func TestSubmit_OneResult_GoesStraightToCard(t *testing.T) {
	m := match(0, "Jane", "Smith", "9:30 AM")
	search := &fakeSearch{results: []*entities.AppointmentMatch{m}}
	c := newTestController(search, nil, nil)

	c.SetLastName("Smith")
	c.Submit(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, ScreenCard, snap.Screen)
	assert.Equal(t, m, snap.Selected)
	assert.Equal(t, 30, snap.CountdownRemaining)
	assert.Equal(t, 30, snap.CountdownTotal)
	assert.False(t, snap.Busy)
}

func TestSubmit_ManyResults_ShowsListInEndpointOrder(t *testing.T) {
	results := []*entities.AppointmentMatch{
		match(0, "Jane", "Smith", "9:30 AM"),
		match(0, "John", "Smith", "10:00 AM"),
		match(0, "Jo", "Smithers", "2:15 PM"),
	}
	search := &fakeSearch{results: results}
	c := newTestController(search, nil, nil)

	c.SetLastName("Smi")
	c.Submit(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, ScreenResults, snap.Screen)
	require.Len(t, snap.Results, 3)
	for i := range results {
		assert.Equal(t, results[i], snap.Results[i])
	}
	assert.Nil(t, snap.Selected)
}

func TestSubmit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"dob_invalid maps to the dob message", &EndpointError{Code: CodeDOBInvalid}, MsgErrDOB},
		{"phone_short maps to the short-phone message", &EndpointError{Code: CodePhoneShort}, MsgErrPhoneShort},
		{"db_unavailable maps to the connection message", &EndpointError{Code: CodeDBUnavailable}, MsgErrConnection},
		{"unknown code maps to the connection message", &EndpointError{Code: "mystery"}, MsgErrConnection},
		{"transport failure maps to the connection message", errors.New("dial tcp: connection refused"), MsgErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeSearch{err: tt.err}, nil, nil)
			c.SetLastName("Smith")
			c.Submit(context.Background())

			snap := c.Snapshot()
			assert.Equal(t, tt.expected, snap.Message)
			assert.Equal(t, ScreenWelcome, snap.Screen)
			assert.False(t, snap.Busy, "submit control is re-enabled after a failure")
		})
	}
}

func TestSubmit_BusyGuard_DropsDuplicateSubmits(t *testing.T) {
	search := &fakeSearch{}
	c := newTestController(search, nil, nil)
	c.SetLastName("Smith")

	c.mu.Lock()
	c.state.Busy = true
	c.mu.Unlock()

	c.Submit(context.Background())
	assert.Equal(t, 0, search.callCount())
}

func TestSelectResult_TransitionsToCard(t *testing.T) {
	results := []*entities.AppointmentMatch{
		match(0, "Jane", "Smith", "9:30 AM"),
		match(0, "John", "Smith", "10:00 AM"),
	}
	c := newTestController(&fakeSearch{results: results}, nil, nil)
	c.SetLastName("Smith")
	c.Submit(context.Background())

	c.SelectResult(1)

	snap := c.Snapshot()
	assert.Equal(t, ScreenCard, snap.Screen)
	assert.Equal(t, results[1], snap.Selected)
}

func TestSelectResult_OutOfRangeIsIgnored(t *testing.T) {
	results := []*entities.AppointmentMatch{match(0, "Jane", "Smith", "9:30 AM"), match(0, "John", "Smith", "10:00 AM")}
	c := newTestController(&fakeSearch{results: results}, nil, nil)
	c.SetLastName("Smith")
	c.Submit(context.Background())

	c.SelectResult(5)
	c.SelectResult(-1)

	assert.Equal(t, ScreenResults, c.Snapshot().Screen)
}

func TestCountdown_AtMostOneLiveTimer(t *testing.T) {
	c := newTestController(&fakeSearch{}, nil, nil)

	c.mu.Lock()
	c.startCountdownLocked()
	firstGen := c.countdownGen
	c.startCountdownLocked()
	secondGen := c.countdownGen
	c.mu.Unlock()

	assert.NotEqual(t, firstGen, secondGen)

	// A tick from the cancelled timer is a no-op and stops its loop.
	assert.False(t, c.tick(firstGen))
	assert.Equal(t, 30, c.Snapshot().CountdownRemaining)

	// The live timer still counts.
	assert.True(t, c.tick(secondGen))
	assert.Equal(t, 29, c.Snapshot().CountdownRemaining)
}

func TestCountdown_ZeroResetsToWelcome(t *testing.T) {
	m := match(0, "Jane", "Smith", "9:30 AM")
	c := newTestController(&fakeSearch{results: []*entities.AppointmentMatch{m}}, nil, nil)
	c.SetLastName("Smith")
	c.Submit(context.Background())
	require.Equal(t, ScreenCard, c.Snapshot().Screen)

	c.mu.Lock()
	gen := c.countdownGen
	c.state.CountdownRemaining = 1
	c.mu.Unlock()

	assert.False(t, c.tick(gen), "the timer loop stops after the reset")

	snap := c.Snapshot()
	assert.Equal(t, ScreenWelcome, snap.Screen)
	assert.Empty(t, snap.LastName)
	assert.Empty(t, snap.DOB)
	assert.Empty(t, snap.Phone)
	assert.Empty(t, snap.Message)
	assert.Nil(t, snap.Results)
	assert.Nil(t, snap.Selected)
	assert.Equal(t, PhotoPlaceholder, snap.Photo)
	assert.Equal(t, FieldLastName, snap.Focus)
}

func TestCountdown_RingOffsetIsProportional(t *testing.T) {
	s := State{CountdownTotal: 30, CountdownRemaining: 30}
	assert.InDelta(t, 0.0, s.RingOffset(100), 1e-9)

	s.CountdownRemaining = 15
	assert.InDelta(t, 50.0, s.RingOffset(100), 1e-9)

	s.CountdownRemaining = 0
	assert.InDelta(t, 100.0, s.RingOffset(100), 1e-9)
}

func TestBack_CancelsTimerAndResets(t *testing.T) {
	m := match(0, "Jane", "Smith", "9:30 AM")
	c := newTestController(&fakeSearch{results: []*entities.AppointmentMatch{m}}, nil, nil)
	c.SetLastName("Smith")
	c.Submit(context.Background())

	c.mu.Lock()
	gen := c.countdownGen
	c.mu.Unlock()

	c.Back()

	snap := c.Snapshot()
	assert.Equal(t, ScreenWelcome, snap.Screen)
	assert.Nil(t, snap.Results)

	// A tick from the cancelled countdown no longer fires.
	assert.False(t, c.tick(gen))

	c.mu.Lock()
	assert.Nil(t, c.countdownStop)
	c.mu.Unlock()
}

func TestSwitchLanguage_PreservesScreenAndResults(t *testing.T) {
	results := []*entities.AppointmentMatch{
		match(0, "Jane", "Smith", "9:30 AM"),
		match(0, "John", "Smith", "10:00 AM"),
	}
	prefs := &fakePrefs{}
	c := newTestController(&fakeSearch{results: results}, nil, prefs)
	c.SetLastName("Smith")
	c.Submit(context.Background())

	before := c.Snapshot()
	c.SwitchLanguage(context.Background(), LangSpanish)
	after := c.Snapshot()

	assert.Equal(t, before.Screen, after.Screen)
	assert.Equal(t, before.Results, after.Results)
	assert.Equal(t, LangSpanish, after.Lang)
	assert.Equal(t, LangSpanish, prefs.lang, "language choice is persisted")
	assert.Equal(t, "Apellido", c.Localize("last_name_label"))
}

func TestSwitchLanguage_SurvivesReset(t *testing.T) {
	c := newTestController(&fakeSearch{}, nil, nil)
	c.SwitchLanguage(context.Background(), LangSpanish)

	c.Back()

	assert.Equal(t, LangSpanish, c.Snapshot().Lang)
}

func TestRestoreLanguage_ReadsPersistedTag(t *testing.T) {
	prefs := &fakePrefs{lang: LangSpanish}
	c := newTestController(&fakeSearch{}, nil, prefs)

	c.RestoreLanguage(context.Background())

	assert.Equal(t, LangSpanish, c.Snapshot().Lang)
}

func TestPhoto_NoPatNum_NeverRequestsPhoto(t *testing.T) {
	photos := &fakePhotos{data: []byte("jpeg")}
	m := match(0, "Jane", "Smith", "9:30 AM")
	c := newTestController(&fakeSearch{results: []*entities.AppointmentMatch{m}}, photos, nil)

	c.SetLastName("Smith")
	c.Submit(context.Background())

	assert.Equal(t, 0, photos.callCount())
	assert.Equal(t, PhotoPlaceholder, c.Snapshot().Photo)
}

func TestPhoto_LoadsAsynchronouslyOnSuccess(t *testing.T) {
	photos := &fakePhotos{data: []byte("jpeg")}
	m := match(42, "Jane", "Smith", "9:30 AM")
	c := newTestController(&fakeSearch{results: []*entities.AppointmentMatch{m}}, photos, nil)

	c.SetLastName("Smith")
	c.Submit(context.Background())

	require.Equal(t, ScreenCard, c.Snapshot().Screen)
	assert.Eventually(t, func() bool {
		return c.Snapshot().Photo == PhotoLoaded
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte("jpeg"), c.Snapshot().PhotoData)
}

func TestPhoto_FailureRestoresPlaceholder(t *testing.T) {
	photos := &fakePhotos{err: errors.New("404")}
	m := match(42, "Jane", "Smith", "9:30 AM")
	c := newTestController(&fakeSearch{results: []*entities.AppointmentMatch{m}}, photos, nil)

	c.SetLastName("Smith")
	c.Submit(context.Background())

	assert.Eventually(t, func() bool {
		return photos.callCount() == 1 && c.Snapshot().Photo == PhotoPlaceholder
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, c.Snapshot().PhotoData)
}
