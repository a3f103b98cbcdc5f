package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"worktracker.service/internal/core"
)

type AttendanceHandler struct {
	Service *core.AttendanceService
}

// EditTimesRequest replaces both times. Leaving checkOutTime out clears it.
type EditTimesRequest struct {
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	wk, r := worker(r)
	rec, err := h.Service.CheckIn(r.Context(), wk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	wk, r := worker(r)
	rec, err := h.Service.CheckOut(r.Context(), wk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	records, err := h.Service.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *AttendanceHandler) EditTimes(w http.ResponseWriter, r *http.Request) {
	var req EditTimesRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CheckInTime == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "checkInTime is required"})
		return
	}

	rec, err := h.Service.EditTimes(r.Context(), mux.Vars(r)["id"], req.CheckInTime, req.CheckOutTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AttendanceHandler) AddCheckOut(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.AddCheckOutNow(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
