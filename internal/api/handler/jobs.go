package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"worktracker.service/internal/core"
	"worktracker.service/internal/core/duration"
	"worktracker.service/internal/core/model"
)

type JobHandler struct {
	Service *core.JobService
}

// JobView is a job as the client renders it.
type JobView struct {
	model.Job
	PriorityTag       model.Tag `json:"priorityTag"`
	StatusTag         model.Tag `json:"statusTag"`
	EstimatedTimeText string    `json:"estimatedTimeText"`
}

func viewOf(j model.Job) JobView {
	return JobView{
		Job:               j,
		PriorityTag:       j.Priority.Tag(),
		StatusTag:         j.Status.Tag(),
		EstimatedTimeText: duration.FormatMinutes(j.EstimatedTime),
	}
}

func viewsOf(jobs []model.Job) []JobView {
	out := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, viewOf(j))
	}
	return out
}

// estimate accepts either whole minutes (90) or duration text ("1h 30m").
type estimate string

func (e *estimate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = estimate(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("estimatedTime must be minutes or text like \"1h 30m\"")
	}
	*e = estimate(strconv.Itoa(n))
	return nil
}

type JobRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	EstimatedTime *estimate        `json:"estimatedTime"`
	Status        *model.JobStatus `json:"status"`
	Priority      *model.Priority  `json:"priority"`
	AssignedDays  *[]string        `json:"assignedDays"`
	Category      *model.Category  `json:"category"`
	DisplayOrder  *int             `json:"displayOrder"`
}

type ReorderRequest struct {
	MovedID string `json:"movedId"`
	OverID  string `json:"overId"`
	// ToIndex moves to an explicit position instead of onto another job.
	ToIndex *int `json:"toIndex"`
}

type ReorderResponse struct {
	Applied    bool      `json:"applied"`
	Reconciled bool      `json:"reconciled,omitempty"`
	Error      string    `json:"error,omitempty"`
	Jobs       []JobView `json:"jobs"`
}

type CategoryRequest struct {
	Category model.Category `json:"category"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.Service.List(r.Context(), core.JobListFilter{
		Status:   model.JobStatus(q.Get("status")),
		Category: model.Category(q.Get("category")),
		Day:      q.Get("day"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsOf(jobs))
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*job))
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !decode(w, r, &req) {
		return
	}

	job, err := h.Service.Create(r.Context(), core.CreateJobInput{
		Title:         deref(req.Title),
		Description:   deref(req.Description),
		EstimatedTime: string(deref(req.EstimatedTime)),
		Priority:      deref(req.Priority),
		Category:      deref(req.Category),
		AssignedDays:  deref(req.AssignedDays),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(*job))
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !decode(w, r, &req) {
		return
	}

	in := core.UpdateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		AssignedDays: req.AssignedDays,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
	}
	if req.EstimatedTime != nil {
		text := string(*req.EstimatedTime)
		in.EstimatedTime = &text
	}

	job, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*job))
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder answers with the category as stored. When the write failed the
// response is a 500 that still carries the re-read list.
func (h *JobHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.MovedID == "" || (req.OverID == "" && req.ToIndex == nil) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "movedId and one of overId or toIndex are required"})
		return
	}

	var (
		res core.ReorderResult
		err error
	)
	if req.ToIndex != nil {
		res, err = h.Service.MoveTo(r.Context(), req.MovedID, *req.ToIndex)
	} else {
		res, err = h.Service.Reorder(r.Context(), req.MovedID, req.OverID)
	}

	if err != nil && res.Reconciled {
		writeJSON(w, http.StatusInternalServerError, ReorderResponse{
			Reconciled: true,
			Error:      "job order could not be saved; showing the stored order",
			Jobs:       viewsOf(res.Jobs),
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReorderResponse{Applied: res.Applied, Jobs: viewsOf(res.Jobs)})
}

func (h *JobHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decode(w, r, &req) {
		return
	}
	job, err := h.Service.ToggleCategory(r.Context(), mux.Vars(r)["id"], req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*job))
}
