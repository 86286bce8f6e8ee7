package kiosk

import "context"

// Message keys shared between the controller and the language bundles.
const (
	MsgErrEmpty      = "err_empty"
	MsgErrPhoneShort = "err_phone_short"
	MsgErrDOB        = "err_dob"
	MsgErrConnection = "err_connection"
	MsgNotFound      = "not_found"
)

const (
	LangEnglish = "en"
	LangSpanish = "es"
)

// PreferenceStore persists the kiosk language selection across sessions.
// It is read once at startup and written on every explicit switch.
type PreferenceStore interface {
	Language(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, tag string) error
}

// Bundle resolves user-facing strings by language tag and key. Missing
// keys fall back to the raw key rather than failing.
type Bundle struct {
	tables map[string]map[string]string
}

// Lookup returns the string for key in lang, falling back to English and
// then to the raw key itself.
func (b *Bundle) Lookup(lang, key string) string {
	if table, ok := b.tables[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if lang != LangEnglish {
		if s, ok := b.tables[LangEnglish][key]; ok {
			return s
		}
	}
	return key
}

// Languages returns the tags the bundle carries.
func (b *Bundle) Languages() []string {
	tags := make([]string, 0, len(b.tables))
	for tag := range b.tables {
		tags = append(tags, tag)
	}
	return tags
}

// DefaultBundle returns the built-in English/Spanish string set.
func DefaultBundle() *Bundle {
	return &Bundle{tables: map[string]map[string]string{
		LangEnglish: {
			"welcome_title":    "Welcome! Please check in.",
			"last_name_label":  "Last Name",
			"dob_label":        "Date of Birth",
			"phone_label":      "Phone Number",
			"search_button":    "Find My Appointment",
			"searching":        "Searching...",
			"select_prompt":    "Please select your appointment:",
			"provider_label":   "Provider",
			"room_label":       "Room",
			"procedure_label":  "Visit Type",
			"last_visit_label": "Last Visit",
			"first_visit":      "Welcome! This is your first visit.",
			"back_button":      "Back",
			"checked_in":       "You're checked in! Please have a seat.",
			MsgErrEmpty:        "Please enter your last name, date of birth, or phone number.",
			MsgErrPhoneShort:   "Please enter at least 7 digits of your phone number.",
			MsgErrDOB:          "Please enter a valid date of birth (MM/DD/YYYY).",
			MsgErrConnection:   "We're having trouble connecting. Please see the front desk.",
			MsgNotFound:        "We couldn't find your appointment today. Please see the front desk.",
		},
		LangSpanish: {
			"welcome_title":    "¡Bienvenido! Por favor regístrese.",
			"last_name_label":  "Apellido",
			"dob_label":        "Fecha de Nacimiento",
			"phone_label":      "Número de Teléfono",
			"search_button":    "Buscar Mi Cita",
			"searching":        "Buscando...",
			"select_prompt":    "Por favor seleccione su cita:",
			"provider_label":   "Doctor",
			"room_label":       "Sala",
			"procedure_label":  "Tipo de Visita",
			"last_visit_label": "Última Visita",
			"first_visit":      "¡Bienvenido! Esta es su primera visita.",
			"back_button":      "Atrás",
			"checked_in":       "¡Está registrado! Por favor tome asiento.",
			MsgErrEmpty:        "Por favor ingrese su apellido, fecha de nacimiento o número de teléfono.",
			MsgErrPhoneShort:   "Por favor ingrese al menos 7 dígitos de su número de teléfono.",
			MsgErrDOB:          "Por favor ingrese una fecha de nacimiento válida (MM/DD/AAAA).",
			MsgErrConnection:   "Tenemos problemas de conexión. Por favor acuda a la recepción.",
			MsgNotFound:        "No encontramos su cita de hoy. Por favor acuda a la recepción.",
		},
	}}
}
