package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/smileops/dentaldesk/internal/domain/entities"
	"github.com/smileops/dentaldesk/internal/domain/providers"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) ListForDate(ctx context.Context, date time.Time) ([]*entities.Appointment, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) BrokenHistory(ctx context.Context, patNums []int64) (map[int64]int, error) {
	args := m.Called(ctx, patNums)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

func (m *MockAppointmentRepository) LastVisits(ctx context.Context, patNums []int64) (map[int64]time.Time, error) {
	args := m.Called(ctx, patNums)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]time.Time), args.Error(1)
}

func (m *MockAppointmentRepository) MonthCounts(ctx context.Context, year int, month time.Month) (map[string]int, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockAppointmentRepository) PatientPhotoFile(ctx context.Context, patNum int64) (string, error) {
	args := m.Called(ctx, patNum)
	return args.String(0), args.Error(1)
}

type MockBriefingProvider struct {
	mock.Mock
}

func (m *MockBriefingProvider) GenerateBriefing(ctx context.Context, scheduleBlock string) (*providers.BriefingResult, error) {
	args := m.Called(ctx, scheduleBlock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.BriefingResult), args.Error(1)
}

type MockBriefingArchive struct {
	mock.Mock
}

func (m *MockBriefingArchive) Save(briefing *entities.Briefing) (string, error) {
	args := m.Called(briefing)
	return args.String(0), args.Error(1)
}

func (m *MockBriefingArchive) Read(date time.Time) (string, error) {
	args := m.Called(date)
	return args.String(0), args.Error(1)
}

type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
