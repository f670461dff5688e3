package app

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rbbydotdev/someday/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Availability and booking
	r.HandleFunc("/api/availability", deps.AvailabilityHandler.GetAvailability).Methods("GET")
	r.HandleFunc("/api/booking", deps.BookingHandler.BookTimeslot).Methods("POST")

	// Scheduling configuration
	r.HandleFunc("/api/config", deps.ScheduleHandler.GetConfig).Methods("GET")
	r.HandleFunc("/api/config", deps.ScheduleHandler.SetConfig).Methods("PUT")
	r.HandleFunc("/api/config/event-types", deps.ScheduleHandler.ListEventTypes).Methods("GET")

	// Connected calendars
	r.HandleFunc("/api/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")

	// Metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
