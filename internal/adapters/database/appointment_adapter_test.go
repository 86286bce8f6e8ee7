package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileops/dentaldesk/internal/adapters/database"
	"github.com/smileops/dentaldesk/internal/domain/repositories"
	"github.com/smileops/dentaldesk/internal/infrastructure/clients/mysql"
)

var appointmentColumns = []string{
	"AptNum", "AptDateTime", "PatNum", "ProvNum", "AptStatus",
	"ProcDescript", "IsNewPatient", "Note", "ClinicNum", "OperatoryNum",
	"PatFName", "PatLName", "HmPhone", "WirelessPhone", "Birthdate", "Email",
	"ProvFName", "ProvLName", "ProvAbbr", "OperatoryName",
}

func newAdapterFixture(t *testing.T) (repositories.AppointmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewAppointmentAdapter(mysql.NewClientFromDB(db)), mock
}

func TestListForDate(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	aptTime := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	dob := time.Date(1980, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM `appointment` AS `a` LEFT JOIN `patient`").
		WillReturnRows(sqlmock.NewRows(appointmentColumns).
			AddRow(1, aptTime, 101, 7, 1,
				"Pro", 0, "note", 0, 2,
				"Jane", "Smith", "(516) 555-9999", "(516) 555-1234", dob, "jane@example.com",
				"Amy", "Chen", "AC", "Op 2").
			AddRow(2, aptTime.Add(time.Hour), 102, 7, 1,
				nil, 1, nil, 0, 3,
				"John", "Doe", nil, nil, nil, nil,
				nil, nil, nil, nil))

	appointments, err := adapter.ListForDate(context.Background(), aptTime)

	require.NoError(t, err)
	require.Len(t, appointments, 2)

	first := appointments[0]
	assert.Equal(t, int64(101), first.PatNum)
	assert.Equal(t, "Jane", first.PatFName)
	assert.Equal(t, "Pro", first.ProcDescript)
	assert.False(t, first.IsNewPatient)
	require.NotNil(t, first.Birthdate)
	assert.Equal(t, dob, *first.Birthdate)
	assert.Equal(t, "Op 2", first.OperatoryName)

	// NULL columns scan to zero values rather than failing.
	second := appointments[1]
	assert.True(t, second.IsNewPatient)
	assert.Empty(t, second.ProcDescript)
	assert.Nil(t, second.Birthdate)
	assert.Empty(t, second.OperatoryName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForDate_QueryFailure(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	mock.ExpectQuery("SELECT (.+) FROM `appointment`").
		WillReturnError(assert.AnError)

	_, err := adapter.ListForDate(context.Background(), time.Now())

	assert.Error(t, err)
}

func TestBrokenHistory(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	mock.ExpectQuery("SELECT `PatNum`, COUNT\\(\\*\\) AS `missed_count` FROM `appointment`").
		WillReturnRows(sqlmock.NewRows([]string{"PatNum", "missed_count"}).
			AddRow(101, 3).
			AddRow(102, 1))

	history, err := adapter.BrokenHistory(context.Background(), []int64{101, 102})

	require.NoError(t, err)
	assert.Equal(t, map[int64]int{101: 3, 102: 1}, history)
}

func TestBrokenHistory_EmptyInputSkipsQuery(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	history, err := adapter.BrokenHistory(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastVisits(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	visit := time.Date(2026, 2, 10, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT `PatNum`, MAX\\(`AptDateTime`\\) AS `last_date` FROM `appointment`").
		WillReturnRows(sqlmock.NewRows([]string{"PatNum", "last_date"}).
			AddRow(101, visit))

	visits, err := adapter.LastVisits(context.Background(), []int64{101, 102})

	require.NoError(t, err)
	assert.Equal(t, visit, visits[101])
	_, ok := visits[102]
	assert.False(t, ok, "patients with no completed visits are simply absent")
}

func TestMonthCounts(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	mock.ExpectQuery("SELECT DATE\\(`AptDateTime`\\) AS `d`, COUNT\\(\\*\\) AS `cnt` FROM `appointment`").
		WillReturnRows(sqlmock.NewRows([]string{"d", "cnt"}).
			AddRow(time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), 12).
			AddRow(time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), 8))

	counts, err := adapter.MonthCounts(context.Background(), 2026, time.August)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-08-26": 12, "2026-08-27": 8}, counts)
}

func TestPatientPhotoFile(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	mock.ExpectQuery("SELECT `FileName` FROM `document`").
		WillReturnRows(sqlmock.NewRows([]string{"FileName"}).AddRow("SmithJane101.jpg"))

	fileName, err := adapter.PatientPhotoFile(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, "SmithJane101.jpg", fileName)
}

func TestPatientPhotoFile_NoRowsIsNotAnError(t *testing.T) {
	adapter, mock := newAdapterFixture(t)

	mock.ExpectQuery("SELECT `FileName` FROM `document`").
		WillReturnRows(sqlmock.NewRows([]string{"FileName"}))

	fileName, err := adapter.PatientPhotoFile(context.Background(), 101)

	require.NoError(t, err)
	assert.Empty(t, fileName)
}
