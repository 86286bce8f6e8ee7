package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/smileops/dentaldesk/internal/application/services"
)

// BriefingHandler serves briefing generation and retrieval
type BriefingHandler struct {
	briefings *services.BriefingService
}

// NewBriefingHandler creates a new briefing handler
func NewBriefingHandler(briefings *services.BriefingService) *BriefingHandler {
	return &BriefingHandler{
		briefings: briefings,
	}
}

type generateBriefingRequest struct {
	Date string `json:"date,omitempty"`
}

// Generate handles POST /api/briefings
func (h *BriefingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	targetDate := time.Now()

	if r.Body != nil && r.ContentLength != 0 {
		var req generateBriefingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
				return
			}
			targetDate = parsed
		}
	}

	briefing, err := h.briefings.Generate(r.Context(), targetDate)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, briefing)
}

// Get handles GET /api/briefings/{date}
func (h *BriefingHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.PathValue("date"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	briefing, err := h.briefings.Get(r.Context(), date)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, briefing)
}
