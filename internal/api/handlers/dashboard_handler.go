package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/smileops/dentaldesk/internal/application/services"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

// DashboardHandler serves the front-desk dashboard API
type DashboardHandler struct {
	schedule *services.ScheduleService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(schedule *services.ScheduleService) *DashboardHandler {
	return &DashboardHandler{
		schedule: schedule,
	}
}

// GetAppointments handles GET /api/appointments?date=YYYY-MM-DD
func (h *DashboardHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	targetDate := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		targetDate = parsed
	}

	schedule, err := h.schedule.DaySchedule(r.Context(), targetDate)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":              targetDate.Format("2006-01-02"),
		"appointment_count": len(schedule.Appointments),
		"appointments":      schedule.Appointments,
		"broken_history":    schedule.BrokenHistory,
	})
}

// GetMonth handles GET /api/month?year=&month=
func (h *DashboardHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			respondWithError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(parsed)
	}

	counts, err := h.schedule.MonthCounts(r.Context(), year, month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load month summary")
		return
	}

	respondWithJSON(w, http.StatusOK, counts)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps AppError types onto HTTP statuses.
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
