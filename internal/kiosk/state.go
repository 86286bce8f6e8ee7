package kiosk

import "github.com/smileops/dentaldesk/internal/domain/entities"

// Screen identifies which kiosk view is active.
type Screen string

const (
	ScreenWelcome Screen = "welcome"
	ScreenResults Screen = "results"
	ScreenCard    Screen = "card"
)

// Field identifies one of the three search inputs.
type Field string

const (
	FieldLastName Field = "last_name"
	FieldDOB      Field = "dob"
	FieldPhone    Field = "phone"
)

// PhotoStatus tracks the card photo lifecycle. The placeholder is shown
// while no photo is available, before a load settles, and after a failed
// load.
type PhotoStatus string

const (
	PhotoPlaceholder PhotoStatus = "placeholder"
	PhotoLoading     PhotoStatus = "loading"
	PhotoLoaded      PhotoStatus = "loaded"
)

// State is the full kiosk UI state owned by a single Controller.
// Rendering surfaces read snapshots of it; they never mutate it.
type State struct {
	Screen Screen
	Busy   bool // a search request is outstanding; submit is disabled

	LastName string
	DOB      string
	Phone    string
	Focus    Field

	// Message holds a localization key ("" when no banner is shown).
	Message string

	// Results is the immutable snapshot from the latest search. It is
	// replaced wholesale on the next search and discarded on reset.
	Results  []*entities.AppointmentMatch
	Selected *entities.AppointmentMatch

	Lang string

	Photo     PhotoStatus
	PhotoData []byte

	CountdownRemaining int
	CountdownTotal     int
}

// RingOffset returns the stroke offset for a depleting countdown ring of
// the given circumference: circumference × (1 − remaining/total).
func (s State) RingOffset(circumference float64) float64 {
	if s.CountdownTotal <= 0 {
		return 0
	}
	return circumference * (1 - float64(s.CountdownRemaining)/float64(s.CountdownTotal))
}
