// Package job provides HTTP handlers for job listing related operations.
package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/lifecycle"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/utilities"
)

// JobController handles job listing related endpoints
type JobController struct {
	Lifecycle *lifecycle.Service
	Store     *store.Store
}

// NewJobController creates a new instance of JobController
func NewJobController(lc *lifecycle.Service, st *store.Store) *JobController {
	return &JobController{
		Lifecycle: lc,
		Store:     st,
	}
}

// postJobRequest is the create-listing body. Activate set means the
// listing goes live immediately instead of starting as a draft.
type postJobRequest struct {
	model.EditableJobInfo
	Activate bool `json:"activate"`
}

// CreateJobHandler handles the creation of a new job listing by an HR user.
// @Summary Create job listing based on given json structure
// @Description Only HR users have access to this endpoint
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Input job listing information"
// @Success 201 {object} model.JobListing "Successfully create job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job listing struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req postJobRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	job, err := jc.Lifecycle.PostJob(c.Request.Context(), actor, req.EditableJobInfo, req.Activate)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetOpenJobs fetches all active, non-expired job listings that match
// query and returns them as a JSON response.
// @Summary Get open job listings based on query
// @Description Public endpoint. Every query is optional
// @Tags Job
// @Produce json
// @Param search query string false "Search in listing title with substring matching and case insensitive"
// @Param department query string false "Department field with substring matching and case insensitive"
// @Param type query string false "Employment type field, must exactly match to get result"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Success 200 {array} model.JobListing "Return open job listing(s)"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetOpenJobs(c *gin.Context) {
	query := store.JobQuery{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Type:       c.Query("type"),
		Location:   c.Query("location"),
	}

	jobs, err := jc.Store.ActiveJobs(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job listings: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetAllJobs fetches every listing regardless of status.
// @Summary Get all job listings including drafts and closed ones
// @Description Only HR users have access to this endpoint
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobListing "Return all job listing(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/all [get]
func (jc *JobController) GetAllJobs(c *gin.Context) {
	jobs, err := jc.Store.ListJobs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job listings: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJobHandler fetches a single listing by id.
// @Summary Get one job listing
// @Tags Job
// @Produce json
// @Param id path string true "Job listing id"
// @Success 200 {object} model.JobListing "Return the job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job listing id"})
		return
	}

	job, err := jc.Store.GetJob(c.Request.Context(), id)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// EditJobHandler applies a partial update to a listing.
// @Summary Edit job listing based on given json structure
// @Description Only HR users have access to this endpoint. Empty fields are left unchanged
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job listing id"
// @Param Job body model.EditableJobInfo true "Fields to change"
// @Success 200 {object} model.JobListing "Successfully edit job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Router /jobs/{id} [patch]
func (jc *JobController) EditJobHandler(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job listing id"})
		return
	}

	var patch model.EditableJobInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	job, err := jc.Lifecycle.EditJob(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ActivateJobHandler publishes a draft listing.
// @Summary Activate a draft job listing
// @Description Only HR users have access to this endpoint
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job listing id"
// @Success 200 {object} model.JobListing "Successfully activate job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or listing cannot be reactivated"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Router /jobs/{id}/activate [post]
func (jc *JobController) ActivateJobHandler(c *gin.Context) {
	jc.changeStatus(c, jc.Lifecycle.ActivateJob)
}

// CloseJobHandler stops a listing from receiving submissions.
// @Summary Close a job listing
// @Description Only HR users have access to this endpoint. Existing applications keep transitioning normally
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job listing id"
// @Success 200 {object} model.JobListing "Successfully close job listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Job listing not found"
// @Router /jobs/{id}/close [post]
func (jc *JobController) CloseJobHandler(c *gin.Context) {
	jc.changeStatus(c, jc.Lifecycle.CloseJob)
}

// GetJobApplications lists the applications submitted against a listing.
// @Summary Get applications for one job listing
// @Description Only HR users have access to this endpoint
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job listing id"
// @Success 200 {array} model.Application "Return application(s) for the listing"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications [get]
func (jc *JobController) GetJobApplications(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job listing id"})
		return
	}

	apps, err := jc.Store.ApplicationsByJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, apps)
}

type statusChange func(ctx context.Context, actor identity.Actor, id uuid.UUID) (*model.JobListing, error)

func (jc *JobController) changeStatus(c *gin.Context, change statusChange) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job listing id"})
		return
	}

	job, err := change(c.Request.Context(), actor, id)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// respondLifecycleError adds the authorization mapping on top of the
// shared taxonomy mapping.
func respondLifecycleError(c *gin.Context, err error) {
	if errors.Is(err, lifecycle.ErrNotAuthorized) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	utilities.RespondError(c, err)
}
