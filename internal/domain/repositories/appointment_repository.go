package repositories

import (
	"context"
	"time"

	"github.com/smileops/dentaldesk/internal/domain/entities"
)

// AppointmentRepository defines read access to the Open Dental schedule.
type AppointmentRepository interface {
	// ListForDate retrieves scheduled appointments for a date, joined with
	// patient, provider and operatory, ordered by time then operatory.
	ListForDate(ctx context.Context, date time.Time) ([]*entities.Appointment, error)

	// BrokenHistory returns PatNum → count of broken/missed appointments.
	BrokenHistory(ctx context.Context, patNums []int64) (map[int64]int, error)

	// LastVisits returns PatNum → most recent completed visit before today.
	LastVisits(ctx context.Context, patNums []int64) (map[int64]time.Time, error)

	// MonthCounts returns ISO date → scheduled appointment count for a month.
	MonthCounts(ctx context.Context, year int, month time.Month) (map[string]int, error)

	// PatientPhotoFile returns the FileName of the newest patient photo
	// document, or empty when the patient has none.
	PatientPhotoFile(ctx context.Context, patNum int64) (string, error)
}
