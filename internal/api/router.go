package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"worktracker.service/internal/api/handler"
	"worktracker.service/internal/core"
)

// Services are the application services the HTTP API exposes.
type Services struct {
	Jobs       *core.JobService
	Sessions   *core.SessionService
	Attendance *core.AttendanceService
	Dashboard  *core.DashboardService
}

// NewRouter sets up the gorilla/mux router and defines all API routes.
// metrics may be nil.
func NewRouter(svc Services, metrics http.Handler) *mux.Router {
	jobs := handler.JobHandler{Service: svc.Jobs}
	sessions := handler.SessionHandler{Service: svc.Sessions}
	attendance := handler.AttendanceHandler{Service: svc.Attendance}
	dashboard := handler.DashboardHandler{Service: svc.Dashboard}

	r := mux.NewRouter()
	r.Use(LoggerMiddleware, AccessLogMiddleware)

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	api.HandleFunc("/jobs", jobs.List).Methods(http.MethodGet)
	api.HandleFunc("/jobs", jobs.Create).Methods(http.MethodPost)
	api.HandleFunc("/jobs/reorder", jobs.Reorder).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}", jobs.Get).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", jobs.Update).Methods(http.MethodPatch)
	api.HandleFunc("/jobs/{id}", jobs.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/jobs/{id}/category", jobs.SetCategory).Methods(http.MethodPatch)

	api.HandleFunc("/sessions", sessions.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/start", sessions.Start).Methods(http.MethodPost)
	api.HandleFunc("/sessions/complete", sessions.Complete).Methods(http.MethodPost)
	api.HandleFunc("/sessions/active", sessions.Active).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessions.Get).Methods(http.MethodGet)

	api.HandleFunc("/attendance", attendance.List).Methods(http.MethodGet)
	api.HandleFunc("/attendance/check-in", attendance.CheckIn).Methods(http.MethodPost)
	api.HandleFunc("/attendance/check-out", attendance.CheckOut).Methods(http.MethodPost)
	api.HandleFunc("/attendance/{id}", attendance.EditTimes).Methods(http.MethodPatch)
	api.HandleFunc("/attendance/{id}/check-out", attendance.AddCheckOut).Methods(http.MethodPost)

	api.HandleFunc("/dashboard", dashboard.Summary).Methods(http.MethodGet)

	return r
}
