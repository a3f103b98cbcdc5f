package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"worktracker.service/internal/core"
	"worktracker.service/internal/core/model"
	"worktracker.service/pkg/logger"
)

// WorkerHeader carries the acting worker's name on worker screens.
const WorkerHeader = "X-Worker-Name"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyCheckedOut),
		errors.Is(err, core.ErrNotCheckedIn),
		errors.Is(err, core.ErrSessionInProgress),
		errors.Is(err, core.ErrNoActiveSession),
		errors.Is(err, core.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps core errors onto status codes. Internal errors are logged
// by the service and reach the client without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// limitParam reads ?limit=; zero means the service default.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

// worker reads the caller's identity and tags the request logger with it.
func worker(r *http.Request) (model.Worker, *http.Request) {
	name := r.Header.Get(WorkerHeader)
	ctx := logger.WithWorker(r.Context(), name)
	return model.Worker{Name: name}, r.WithContext(ctx)
}
