package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smileops/dentaldesk/internal/domain/entities"
)

const brokenFlagThreshold = 2

// FormatScheduleBlock converts a day schedule into the structured plain-text
// block the briefing model reasons over.
func FormatScheduleBlock(schedule *entities.DaySchedule) string {
	today := schedule.Date

	var b strings.Builder
	fmt.Fprintf(&b, "DATE: %s\n", today.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "TOTAL SCHEDULED APPOINTMENTS: %d\n\n", len(schedule.Appointments))

	if len(schedule.Appointments) == 0 {
		b.WriteString("No appointments are scheduled for today.\n")
		return b.String()
	}

	b.WriteString("APPOINTMENTS (chronological):\n\n")

	var birthdayPatients []*entities.Appointment

	for idx, apt := range schedule.Appointments {
		provAbbr := apt.ProvAbbr
		if provAbbr == "" {
			provAbbr = strings.TrimSpace(apt.ProvFName + " " + apt.ProvLName)
		}
		provFull := strings.TrimSpace(fmt.Sprintf("Dr. %s %s (%s)", apt.ProvFName, apt.ProvLName, provAbbr))

		room := apt.OperatoryName
		if room == "" {
			room = fmt.Sprintf("Op %d", apt.OperatoryNum)
		}

		procedure := apt.ProcDescript
		if procedure == "" {
			procedure = "Not specified"
		}

		var flags []string
		if apt.IsNewPatient {
			flags = append(flags, "🆕 NEW PATIENT")
		}
		if missed := schedule.BrokenHistory[apt.PatNum]; missed >= brokenFlagThreshold {
			flags = append(flags, fmt.Sprintf("⚠️ %d broken appointments on record", missed))
		}
		if apt.BirthdayToday(today) {
			flags = append(flags, "🎂 BIRTHDAY TODAY")
			birthdayPatients = append(birthdayPatients, apt)
		}

		fmt.Fprintf(&b, "%d. %s | %s | %s\n", idx+1, apt.TimeDisplay(), provFull, room)
		fmt.Fprintf(&b, "   Patient  : %s\n", apt.PatientName())
		fmt.Fprintf(&b, "   Procedure: %s\n", procedure)
		fmt.Fprintf(&b, "   Phone    : %s\n", apt.BestPhone())
		if len(flags) > 0 {
			fmt.Fprintf(&b, "   Flags    : %s\n", strings.Join(flags, " | "))
		}
		b.WriteString("\n")
	}

	if len(birthdayPatients) > 0 {
		b.WriteString("BIRTHDAY PATIENTS TODAY:\n")
		for _, apt := range birthdayPatients {
			fmt.Fprintf(&b, "  - %s (turning %d)\n", apt.PatientName(), apt.Age(today))
		}
		b.WriteString("\n")
	}

	writeBrokenHistorySection(&b, schedule)
	writeNewPatientSection(&b, schedule)

	return b.String()
}

func writeBrokenHistorySection(b *strings.Builder, schedule *entities.DaySchedule) {
	type patientCount struct {
		patNum int64
		count  int
	}
	var highRisk []patientCount
	for patNum, count := range schedule.BrokenHistory {
		if count >= brokenFlagThreshold {
			highRisk = append(highRisk, patientCount{patNum, count})
		}
	}
	if len(highRisk) == 0 {
		return
	}

	sort.Slice(highRisk, func(i, j int) bool { return highRisk[i].count > highRisk[j].count })

	names := make(map[int64]string, len(schedule.Appointments))
	for _, apt := range schedule.Appointments {
		names[apt.PatNum] = apt.PatientName()
	}

	b.WriteString("PATIENTS WITH BROKEN APPOINTMENT HISTORY (2+ missed):\n")
	for _, entry := range highRisk {
		name := names[entry.patNum]
		if name == "" {
			name = fmt.Sprintf("PatNum %d", entry.patNum)
		}
		fmt.Fprintf(b, "  - %s: %d broken/missed appointments\n", name, entry.count)
	}
	b.WriteString("\n")
}

func writeNewPatientSection(b *strings.Builder, schedule *entities.DaySchedule) {
	var newPatients []*entities.Appointment
	for _, apt := range schedule.Appointments {
		if apt.IsNewPatient {
			newPatients = append(newPatients, apt)
		}
	}
	if len(newPatients) == 0 {
		return
	}

	b.WriteString("NEW PATIENTS TODAY (first visit — IsNewPatient flag):\n")
	for _, apt := range newPatients {
		fmt.Fprintf(b, "  - %s at %s\n", apt.PatientName(), apt.TimeDisplay())
	}
	b.WriteString("\n")
}
