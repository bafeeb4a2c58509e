package handlers

import (
	"net/http"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/services"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes the job approval workflow.
type JobHandlers struct {
	jobService services.JobService
}

func NewJobHandlers(jobService services.JobService) *JobHandlers {
	return &JobHandlers{jobService: jobService}
}

type jobResponse struct {
	Message string      `json:"message"`
	Job     *models.Job `json:"job"`
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Persists the job with its Created history entry
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateJobRequest  true  "Job"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  common.ErrorResponse
// @Router       /jobs/create [post]
func (h *JobHandlers) CreateJob(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.CreateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.CreateJob(c.Request().Context(), &req, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "job": job})
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Newest first, with resolved users and read-signed attachment URLs
// @Tags         jobs
// @Produce      json
// @Param        assignedTo  query     string  false  "Assignee id"
// @Success      200         {array}   models.Job
// @Router       /jobs [get]
func (h *JobHandlers) ListJobs(c echo.Context) error {
	var filter models.JobFilter
	if raw := c.QueryParam("assignedTo"); raw != "" {
		id, err := common.ParseID(raw, "assignedTo")
		if err != nil {
			return err
		}
		filter.AssignedTo = &id
	}

	jobs, err := h.jobService.ListJobs(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetJob godoc
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  models.Job
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /jobs/{id} [get]
func (h *JobHandlers) GetJob(c echo.Context) error {
	job, err := h.jobService.GetJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// ApproveJob godoc
// @Summary      Approve a job
// @Tags         jobs
// @Produce      json
// @Param        jobId  path      string  true  "Job id"
// @Success      200    {object}  jobResponse
// @Failure      404    {object}  common.ErrorResponse
// @Router       /jobs/{jobId}/approve [post]
func (h *JobHandlers) ApproveJob(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	job, err := h.jobService.ApproveJob(c.Request().Context(), c.Param("jobId"), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Message: "Job approved successfully", Job: job})
}

// UpdateJobStatus godoc
// @Summary      Append a status entry
// @Description  The status decides which history the entry lands in
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        jobId  path      string                      true  "Job id"
// @Param        body   body      models.UpdateStatusRequest  true  "Status"
// @Success      200    {object}  jobResponse
// @Failure      400    {object}  common.ErrorResponse
// @Failure      404    {object}  common.ErrorResponse
// @Router       /jobs/{jobId}/update-status [post]
func (h *JobHandlers) UpdateJobStatus(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.UpdateJobStatus(c.Request().Context(), c.Param("jobId"), &req, actor.ID)
	if err != nil {
		return err
	}
	status, _ := job.FinalStatus()
	return c.JSON(http.StatusOK, jobResponse{Message: "Job status updated to " + string(status), Job: job})
}

// AssignJob godoc
// @Summary      Assign a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        jobId  path      string                   true  "Job id"
// @Param        body   body      models.AssignJobRequest  true  "Assignee"
// @Success      200    {object}  jobResponse
// @Failure      400    {object}  common.ErrorResponse
// @Failure      404    {object}  common.ErrorResponse
// @Router       /jobs/{jobId}/assign [post]
func (h *JobHandlers) AssignJob(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req models.AssignJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.AssignJob(c.Request().Context(), c.Param("jobId"), &req, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Message: "User assigned successfully", Job: job})
}

// DeleteJob godoc
// @Summary      Delete a job
// @Description  Attachments are removed best-effort before the row
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /jobs/{id} [delete]
func (h *JobHandlers) DeleteJob(c echo.Context) error {
	if err := h.jobService.DeleteJob(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Job and its attachment deleted successfully"})
}

// StatusUploadURL issues a write URL for a history attachment.
// @Summary      Signed upload URL for a status attachment
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      models.UploadURLRequest  true  "File"
// @Success      200   {object}  models.UploadURL
// @Router       /jobs/signed-url [post]
func (h *JobHandlers) StatusUploadURL(c echo.Context) error {
	var req models.UploadURLRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	url, err := h.jobService.IssueStatusUploadURL(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, url)
}

// AttachmentUploadURL issues a write URL for a job's main attachment.
func (h *JobHandlers) AttachmentUploadURL(c echo.Context) error {
	var req models.UploadURLRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	url, err := h.jobService.IssueAttachmentUploadURL(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, url)
}

// ExternalUsers lists vendor accounts a job can be assigned to.
func (h *JobHandlers) ExternalUsers(c echo.Context) error {
	users, err := h.jobService.ListExternalUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
