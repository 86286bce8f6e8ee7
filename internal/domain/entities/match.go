package entities

// AppointmentMatch is one patient-safe candidate result returned by the kiosk
// search endpoint. No phone numbers, no missed history, no clinical notes.
type AppointmentMatch struct {
	// PatNum gates the photo lookup; zero means no photo attempt.
	PatNum    int64  `json:"pat_num,omitempty"`
	FirstName string `json:"PatFName"`
	LastName  string `json:"PatLName"`
	Time      string `json:"time"`
	Provider  string `json:"provider"`
	Room      string `json:"room,omitempty"`
	Procedure string `json:"procedure"`
	// LastVisit is empty for a first visit.
	LastVisit string `json:"last_visit,omitempty"`
}

// DisplayName returns the privacy-truncated name shown on the shared
// disambiguation screen: full first name plus last-name initial.
func (m *AppointmentMatch) DisplayName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName[:1] + "."
}

// AvatarLetter returns the single letter shown in the row avatar.
func (m *AppointmentMatch) AvatarLetter() string {
	if m.FirstName == "" {
		return "?"
	}
	return m.FirstName[:1]
}
