package routes

import (
	"net/http"

	"github.com/smileops/dentaldesk/internal/api/handlers"
	"github.com/smileops/dentaldesk/internal/api/middleware"
	"github.com/smileops/dentaldesk/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	dashboardHandler *handlers.DashboardHandler
	kioskHandler     *handlers.KioskHandler
	briefingHandler  *handlers.BriefingHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	dashboardHandler *handlers.DashboardHandler,
	kioskHandler *handlers.KioskHandler,
	briefingHandler *handlers.BriefingHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		dashboardHandler: dashboardHandler,
		kioskHandler:     kioskHandler,
		briefingHandler:  briefingHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Dashboard endpoints
	r.mux.HandleFunc("GET /api/appointments", r.dashboardHandler.GetAppointments)
	r.mux.HandleFunc("GET /api/month", r.dashboardHandler.GetMonth)

	// Kiosk endpoints (patient-facing, patient-safe fields only)
	r.mux.HandleFunc("GET /kiosk/search", r.kioskHandler.Search)
	r.mux.HandleFunc("GET /kiosk/photo/{patNum}", r.kioskHandler.Photo)

	// Briefing endpoints
	if r.briefingHandler != nil {
		r.mux.HandleFunc("POST /api/briefings", r.briefingHandler.Generate)
		r.mux.HandleFunc("GET /api/briefings/{date}", r.briefingHandler.Get)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS wraps everything so headers are present on every response.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
