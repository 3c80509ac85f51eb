package handler

import (
	"errors"
	"net/http"

	"github.com/pggpgg/stfc-optimizer/internal/auth"
	"github.com/pggpgg/stfc-optimizer/internal/model"
	"github.com/pggpgg/stfc-optimizer/internal/service"
)

// JobHandler handles optimization job submission, status, and result endpoints.
type JobHandler struct {
	jobSvc *service.JobService
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobSvc *service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// SubmitJob handles POST /api/v1/jobs
func (h *JobHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req model.OptimizationJob
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobSvc.SubmitJob(r.Context(), userID, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidMode) || errors.Is(err, service.ErrEmptyPool) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// ListJobs handles GET /api/v1/jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	jobs, err := h.jobSvc.ListJobs(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if jobs == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetJob handles GET /api/v1/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	job, err := h.jobSvc.GetJob(r.Context(), jobID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrJobNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotJobOwner) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// GetResults handles GET /api/v1/jobs/{id}/results
func (h *JobHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	results, err := h.jobSvc.GetResults(r.Context(), jobID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrJobNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotJobOwner) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	if results == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, results)
}
