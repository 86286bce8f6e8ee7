package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/smileops/dentaldesk/internal/domain/entities"
	"github.com/smileops/dentaldesk/internal/domain/repositories"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/mysql"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

// Document categories Open Dental uses for patient photos.
var photoDocCategories = []int64{182, 190}

// AppointmentAdapter implements AppointmentRepository over the Open Dental
// schema (appointment / patient / provider / operatory / document).
type AppointmentAdapter struct {
	client *mysql.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *mysql.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("mysql", client.DB()),
	}
}

// ListForDate retrieves scheduled appointments for a date.
func (a *AppointmentAdapter) ListForDate(ctx context.Context, date time.Time) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(
		goqu.I("a.AptNum"),
		goqu.I("a.AptDateTime"),
		goqu.I("a.PatNum"),
		goqu.I("a.ProvNum"),
		goqu.I("a.AptStatus"),
		goqu.I("a.ProcDescript"),
		goqu.I("a.IsNewPatient"),
		goqu.I("a.Note"),
		goqu.I("a.ClinicNum"),
		goqu.I("a.Op").As("OperatoryNum"),
		goqu.I("p.FName").As("PatFName"),
		goqu.I("p.LName").As("PatLName"),
		goqu.I("p.HmPhone"),
		goqu.I("p.WirelessPhone"),
		goqu.I("p.Birthdate"),
		goqu.I("p.Email"),
		goqu.I("pr.FName").As("ProvFName"),
		goqu.I("pr.LName").As("ProvLName"),
		goqu.I("pr.Abbr").As("ProvAbbr"),
		goqu.I("o.OpName").As("OperatoryName"),
	).From(goqu.T("appointment").As("a")).
		LeftJoin(goqu.T("patient").As("p"), goqu.On(goqu.Ex{"a.PatNum": goqu.I("p.PatNum")})).
		LeftJoin(goqu.T("provider").As("pr"), goqu.On(goqu.Ex{"a.ProvNum": goqu.I("pr.ProvNum")})).
		LeftJoin(goqu.T("operatory").As("o"), goqu.On(goqu.Ex{"a.Op": goqu.I("o.OperatoryNum")})).
		Where(
			goqu.Func("DATE", goqu.I("a.AptDateTime")).Eq(date.Format("2006-01-02")),
			goqu.I("a.AptStatus").Eq(entities.AptStatusScheduled),
		).
		Order(goqu.I("a.AptDateTime").Asc(), goqu.I("a.Op").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build schedule query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read appointments", err)
	}

	return appointments, nil
}

func scanAppointment(rows *sql.Rows) (*entities.Appointment, error) {
	apt := &entities.Appointment{}
	var (
		procDescript, note             sql.NullString
		patFName, patLName             sql.NullString
		hmPhone, wirelessPhone, email  sql.NullString
		provFName, provLName, provAbbr sql.NullString
		operatoryName                  sql.NullString
		birthdate                      sql.NullTime
		isNewPatient                   sql.NullInt64
	)

	err := rows.Scan(
		&apt.AptNum,
		&apt.AptDateTime,
		&apt.PatNum,
		&apt.ProvNum,
		&apt.AptStatus,
		&procDescript,
		&isNewPatient,
		&note,
		&apt.ClinicNum,
		&apt.OperatoryNum,
		&patFName,
		&patLName,
		&hmPhone,
		&wirelessPhone,
		&birthdate,
		&email,
		&provFName,
		&provLName,
		&provAbbr,
		&operatoryName,
	)
	if err != nil {
		return nil, err
	}

	apt.ProcDescript = procDescript.String
	apt.IsNewPatient = isNewPatient.Int64 == 1
	apt.Note = note.String
	apt.PatFName = patFName.String
	apt.PatLName = patLName.String
	apt.HmPhone = hmPhone.String
	apt.WirelessPhone = wirelessPhone.String
	apt.Email = email.String
	apt.ProvFName = provFName.String
	apt.ProvLName = provLName.String
	apt.ProvAbbr = provAbbr.String
	apt.OperatoryName = operatoryName.String
	if birthdate.Valid {
		bd := birthdate.Time
		apt.Birthdate = &bd
	}

	return apt, nil
}

// BrokenHistory returns PatNum → count of broken appointments.
func (a *AppointmentAdapter) BrokenHistory(ctx context.Context, patNums []int64) (map[int64]int, error) {
	history := make(map[int64]int)
	if len(patNums) == 0 {
		return history, nil
	}

	query, args, err := a.db.Select(
		goqu.I("PatNum"),
		goqu.COUNT(goqu.Star()).As("missed_count"),
	).From("appointment").
		Where(
			goqu.I("AptStatus").Eq(entities.AptStatusBroken),
			goqu.I("PatNum").In(patNums),
		).
		GroupBy(goqu.I("PatNum")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build broken history query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query broken history", err)
	}
	defer rows.Close()

	for rows.Next() {
		var patNum int64
		var count int
		if err := rows.Scan(&patNum, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan broken history", err)
		}
		history[patNum] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read broken history", err)
	}

	return history, nil
}

// LastVisits returns PatNum → most recent completed visit before today.
func (a *AppointmentAdapter) LastVisits(ctx context.Context, patNums []int64) (map[int64]time.Time, error) {
	visits := make(map[int64]time.Time)
	if len(patNums) == 0 {
		return visits, nil
	}

	query, args, err := a.db.Select(
		goqu.I("PatNum"),
		goqu.MAX(goqu.I("AptDateTime")).As("last_date"),
	).From("appointment").
		Where(
			goqu.I("PatNum").In(patNums),
			goqu.I("AptStatus").Eq(entities.AptStatusComplete),
			goqu.Func("DATE", goqu.I("AptDateTime")).Lt(goqu.Func("CURDATE")),
		).
		GroupBy(goqu.I("PatNum")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build last visit query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query last visits", err)
	}
	defer rows.Close()

	for rows.Next() {
		var patNum int64
		var lastDate time.Time
		if err := rows.Scan(&patNum, &lastDate); err != nil {
			return nil, apperrors.NewInternalError("failed to scan last visit", err)
		}
		visits[patNum] = lastDate
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read last visits", err)
	}

	return visits, nil
}

// MonthCounts returns ISO date → scheduled count for every day in a month.
func (a *AppointmentAdapter) MonthCounts(ctx context.Context, year int, month time.Month) (map[string]int, error) {
	query, args, err := a.db.Select(
		goqu.Func("DATE", goqu.I("AptDateTime")).As("d"),
		goqu.COUNT(goqu.Star()).As("cnt"),
	).From("appointment").
		Where(
			goqu.Func("YEAR", goqu.I("AptDateTime")).Eq(year),
			goqu.Func("MONTH", goqu.I("AptDateTime")).Eq(int(month)),
			goqu.I("AptStatus").Eq(entities.AptStatusScheduled),
		).
		GroupBy(goqu.L("d")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build month query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query month counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan month count", err)
		}
		counts[day.Format("2006-01-02")] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read month counts", err)
	}

	return counts, nil
}

// PatientPhotoFile returns the newest photo document file name for a patient.
func (a *AppointmentAdapter) PatientPhotoFile(ctx context.Context, patNum int64) (string, error) {
	query, args, err := a.db.Select(goqu.I("FileName")).
		From("document").
		Where(
			goqu.I("PatNum").Eq(patNum),
			goqu.I("DocCategory").In(photoDocCategories),
		).
		Order(goqu.I("DocNum").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build photo query", err)
	}

	var fileName string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&fileName)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to query patient photo", err)
	}

	return fileName, nil
}
