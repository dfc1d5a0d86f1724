package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/marketing"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Router holds the HTTP multiplexer and dependencies
type Router struct {
	mux             *http.ServeMux
	sessionHandler  *SessionHandler
	campaignHandler *CampaignHandler
	profileHandler  *ProfileHandler
}

// NewRouter creates a new router with all routes configured
func NewRouter(manager *marketing.Manager, factory SessionFactory) *Router {
	r := &Router{
		mux:             http.NewServeMux(),
		sessionHandler:  NewSessionHandler(NewSessionStore(), factory),
		campaignHandler: NewCampaignHandler(manager),
		profileHandler:  NewProfileHandler(manager),
	}
	r.setupRoutes()
	return r
}

// setupRoutes configures all HTTP routes
func (r *Router) setupRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", HealthHandler)

	// Dialogue session routes
	r.mux.HandleFunc("POST /api/sessions", r.sessionHandler.Create)
	r.mux.HandleFunc("GET /api/sessions/{id}", r.sessionHandler.Get)
	r.mux.HandleFunc("POST /api/sessions/{id}/messages", r.sessionHandler.SendMessage)

	// Campaign routes
	r.mux.HandleFunc("GET /api/campaigns", r.campaignHandler.List)
	r.mux.HandleFunc("POST /api/campaigns", r.campaignHandler.Create)
	r.mux.HandleFunc("GET /api/campaigns/{id}", r.campaignHandler.Get)
	r.mux.HandleFunc("POST /api/campaigns/{id}/deliver", r.campaignHandler.Deliver)
	r.mux.HandleFunc("POST /api/campaigns/{id}/engagements", r.campaignHandler.RecordEngagement)
	r.mux.HandleFunc("GET /api/campaigns/{id}/report", r.campaignHandler.Report)
	r.mux.HandleFunc("POST /api/campaigns/{id}/end", r.campaignHandler.End)

	// Profile routes
	r.mux.HandleFunc("GET /api/users/{id}/profile", r.profileHandler.Get)
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	// Add CORS headers for development
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if req.Method == "OPTIONS" {
		log.Printf("[HTTP] CORS preflight method=OPTIONS path=%s", req.URL.Path)
		w.WriteHeader(http.StatusOK)
		return
	}

	shouldLog := strings.HasPrefix(req.URL.Path, "/api/")

	if shouldLog {
		log.Printf("[HTTP] Request started method=%s path=%s", req.Method, req.URL.Path)
	}

	// Wrap response writer to capture status code
	wrapped := newResponseWriter(w)
	r.mux.ServeHTTP(wrapped, req)

	if shouldLog {
		log.Printf("[HTTP] Request completed method=%s path=%s status=%d duration=%v",
			req.Method, req.URL.Path, wrapped.statusCode, time.Since(start))
	}
}
