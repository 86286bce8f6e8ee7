package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/smileops/dentaldesk/internal/application/services"
	"github.com/smileops/dentaldesk/internal/domain/entities"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	"github.com/smileops/dentaldesk/internal/infrastructure/observability"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

// KioskHandler serves the patient-facing kiosk endpoints. Search responses
// carry patient-safe fields only.
type KioskHandler struct {
	search  *services.KioskSearchService
	photos  providers.PhotoStore
	metrics *observability.Metrics
}

// NewKioskHandler creates a new kiosk handler
func NewKioskHandler(search *services.KioskSearchService, photos providers.PhotoStore, metrics *observability.Metrics) *KioskHandler {
	return &KioskHandler{
		search:  search,
		photos:  photos,
		metrics: metrics,
	}
}

// Search handles GET /kiosk/search with exactly one of q, dob, or phone.
func (h *KioskHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := services.SearchQuery{
		LastName: strings.TrimSpace(r.URL.Query().Get("q")),
		DOB:      strings.TrimSpace(r.URL.Query().Get("dob")),
		Phone:    strings.TrimSpace(r.URL.Query().Get("phone")),
	}

	results, err := h.search.Search(r.Context(), query)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeValidation {
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		}
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("kiosk search failed")
		respondWithError(w, http.StatusInternalServerError, services.KioskErrDBUnavailable)
		return
	}

	observability.RecordKioskSearch(r.Context(), h.metrics, query.Mode(), len(results))

	// Empty result sets still return a results envelope, never an error.
	if results == nil {
		results = []*entities.AppointmentMatch{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// Photo handles GET /kiosk/photo/{patNum}; returns the image bytes directly.
func (h *KioskHandler) Photo(w http.ResponseWriter, r *http.Request) {
	patNum, err := strconv.ParseInt(r.PathValue("patNum"), 10, 64)
	if err != nil || patNum <= 0 {
		http.Error(w, "", http.StatusNotFound)
		return
	}

	fileName, err := h.search.PhotoFileName(r.Context(), patNum)
	if err != nil || fileName == "" {
		http.Error(w, "", http.StatusNotFound)
		return
	}

	photo, err := h.photos.Load(r.Context(), fileName)
	if err != nil {
		http.Error(w, "", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data)
}
