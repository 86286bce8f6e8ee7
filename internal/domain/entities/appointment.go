package entities

import (
	"time"
)

// Open Dental appointment statuses (appointment.AptStatus)
const (
	AptStatusScheduled = 1
	AptStatusComplete  = 2
	AptStatusBroken    = 5
)

// invalidBirthYear marks Open Dental's 0001-01-01 sentinel for unknown DOBs.
const invalidBirthYear = 1900

// Appointment is one scheduled appointment row joined with its patient,
// provider and operatory.
type Appointment struct {
	AptNum       int64      `json:"AptNum"`
	AptDateTime  time.Time  `json:"AptDateTime"`
	PatNum       int64      `json:"PatNum"`
	ProvNum      int64      `json:"ProvNum"`
	AptStatus    int        `json:"AptStatus"`
	ProcDescript string     `json:"ProcDescript"`
	IsNewPatient bool       `json:"IsNewPatient"`
	Note         string     `json:"Note"`
	ClinicNum    int64      `json:"ClinicNum"`
	OperatoryNum int64      `json:"OperatoryNum"`

	PatFName      string     `json:"PatFName"`
	PatLName      string     `json:"PatLName"`
	HmPhone       string     `json:"HmPhone"`
	WirelessPhone string     `json:"WirelessPhone"`
	Birthdate     *time.Time `json:"Birthdate,omitempty"`
	Email         string     `json:"Email"`

	ProvFName string `json:"ProvFName"`
	ProvLName string `json:"ProvLName"`
	ProvAbbr  string `json:"ProvAbbr"`

	OperatoryName string `json:"OperatoryName"`
}

// PatientName returns the patient's full display name.
func (a *Appointment) PatientName() string {
	if a.PatFName == "" {
		return a.PatLName
	}
	if a.PatLName == "" {
		return a.PatFName
	}
	return a.PatFName + " " + a.PatLName
}

// TimeDisplay formats the appointment time as "9:30 AM".
func (a *Appointment) TimeDisplay() string {
	s := a.AptDateTime.Format("03:04 PM")
	if s[0] == '0' {
		s = s[1:]
	}
	return s
}

// BestPhone returns the preferred contact number, wireless first.
func (a *Appointment) BestPhone() string {
	if a.WirelessPhone != "" {
		return a.WirelessPhone
	}
	if a.HmPhone != "" {
		return a.HmPhone
	}
	return "no phone on file"
}

// HasValidBirthdate reports whether the birthdate is a real date rather than
// the Open Dental unknown sentinel.
func (a *Appointment) HasValidBirthdate() bool {
	return a.Birthdate != nil && a.Birthdate.Year() >= invalidBirthYear
}

// BirthdayToday reports whether the patient's birthday falls on the given day.
func (a *Appointment) BirthdayToday(today time.Time) bool {
	if !a.HasValidBirthdate() {
		return false
	}
	return a.Birthdate.Month() == today.Month() && a.Birthdate.Day() == today.Day()
}

// Age returns the patient's age turning on their birthday in today's year.
func (a *Appointment) Age(today time.Time) int {
	if !a.HasValidBirthdate() {
		return 0
	}
	age := today.Year() - a.Birthdate.Year()
	if today.Month() < a.Birthdate.Month() ||
		(today.Month() == a.Birthdate.Month() && today.Day() < a.Birthdate.Day()) {
		age--
	}
	return age
}

// DaySchedule is the full schedule for one date.
type DaySchedule struct {
	Date          time.Time
	Appointments  []*Appointment
	BrokenHistory map[int64]int
}
