package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

type jobStatusCallbackRequest struct {
	Status string `json:"status" validate:"required,oneof=processing completed failed"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// JobHandler exposes async job records and the worker status callback.
type JobHandler struct {
	jobs ports.JobService
}

func NewJobHandler(jobs ports.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Get handles GET /v1/jobs/:job_id.
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.jobs.GetJob(c.Request().Context(), c.Param("job_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}

// UpdateStatus handles POST /v1/jobs/:job_id/status — the callback an
// external worker posts as it moves a job through its lifecycle.
func (h *JobHandler) UpdateStatus(c echo.Context) error {
	var req jobStatusCallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	job, err := h.jobs.UpdateJobStatus(c.Request().Context(), c.Param("job_id"), domain.JobStatus(req.Status), req.Result, req.Error)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobResponse(job))
}
