package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"worktracker.service/internal/core"
)

type SessionHandler struct {
	Service *core.SessionService
}

type StartRequest struct {
	JobID string `json:"jobId"`
}

type CompleteRequest struct {
	Description string `json:"description"`
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if !decode(w, r, &req) {
		return
	}
	if req.JobID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "jobId is required"})
		return
	}

	wk, r := worker(r)
	active, err := h.Service.StartJob(r.Context(), wk, req.JobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, active)
}

func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteRequest
	if !decode(w, r, &req) {
		return
	}

	wk, r := worker(r)
	session, err := h.Service.CompleteJob(r.Context(), wk, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Active answers 204 when the worker has nothing in progress.
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	wk, r := worker(r)
	active, err := h.Service.ActiveSession(r.Context(), wk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if active == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	list, err := h.Service.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
