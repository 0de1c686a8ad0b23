// Package application provides HTTP handlers for application related
// operations.
package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/lifecycle"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/upload"
	"talenttrack-backend/internal/utilities"
)

// ApplicationController handles application related endpoints
type ApplicationController struct {
	Lifecycle *lifecycle.Service
	Store     *store.Store
	Storage   upload.Storage
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(lc *lifecycle.Service, st *store.Store, storage upload.Storage) *ApplicationController {
	return &ApplicationController{
		Lifecycle: lc,
		Store:     st,
		Storage:   storage,
	}
}

// SubmitHandler files a new application against an open listing.
// @Summary Submit an application with optional attachments
// @Description Public endpoint. A valid bearer token, when provided, links the application to the applicant account
// @Tags Application
// @Accept mpfd
// @Produce json
// @Param job_id formData string true "Target job listing id"
// @Param applicant_name formData string true "Applicant full name"
// @Param applicant_email formData string true "Applicant email"
// @Param applicant_phone formData string false "Applicant phone"
// @Param cover_letter formData string true "Cover letter text"
// @Param attachments formData file false "Attachment files, repeatable"
// @Success 201 {object} model.Application "Successfully submit application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid form or rejected attachment"
// @Failure 409 {object} utilities.ErrorResponse "Job listing not accepting applications"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /applications [post]
func (ac *ApplicationController) SubmitHandler(c *gin.Context) {
	jobID, err := uuid.Parse(c.PostForm("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job_id"})
		return
	}

	req := lifecycle.SubmitRequest{
		JobID:          jobID,
		ApplicantName:  c.PostForm("applicant_name"),
		ApplicantEmail: c.PostForm("applicant_email"),
		ApplicantPhone: c.PostForm("applicant_phone"),
		CoverLetter:    c.PostForm("cover_letter"),
	}

	// Token is optional here. When present and valid the application is
	// linked to the applicant account so it shows up under /applications/mine.
	if token, err := utilities.ExtractBearerToken(c); err == nil {
		if actor, err := identity.ValidateToken(token); err == nil {
			req.Actor = &actor
		}
	}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid multipart form: %s", err.Error()),
		})
		return
	}
	if form != nil {
		for _, header := range form.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
					Error: fmt.Sprintf("Failed to open attachment %q: %s", header.Filename, err.Error()),
				})
				return
			}
			defer file.Close()

			req.Files = append(req.Files, lifecycle.SubmittedFile{
				Name: header.Filename,
				Size: header.Size,
				Data: file,
			})
		}
	}

	app, err := ac.Lifecycle.Submit(c.Request.Context(), req)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetApplicationHandler fetches one application. HR users can fetch any;
// applicants only their own.
// @Summary Get one application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application id"
// @Success 200 {object} model.Application "Return the application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another applicant"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplicationHandler(c *gin.Context) {
	app, ok := ac.loadAuthorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, app)
}

// GetAllApplications lists every application, oldest first.
// @Summary Get all applications
// @Description Only HR users have access to this endpoint
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application "Return all application(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [get]
func (ac *ApplicationController) GetAllApplications(c *gin.Context) {
	apps, err := ac.Store.ListApplications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, apps)
}

// GetMyApplications lists the authenticated applicant's applications.
// @Summary Get the applications submitted by the authenticated applicant
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application "Return the applicant's application(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/mine [get]
func (ac *ApplicationController) GetMyApplications(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	apps, err := ac.Store.ApplicationsByApplicant(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, apps)
}

// transitionRequest is the status-change body.
type transitionRequest struct {
	Status string `json:"status"`
	Stage  string `json:"stage"`
	Notes  string `json:"notes"`
}

// TransitionHandler moves an application to a new status.
// @Summary Change an application's status
// @Description Only HR users have access to this endpoint. Re-asserting the current status is a no-op
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application id"
// @Param Transition body transitionRequest true "New status, optional stage and notes"
// @Success 200 {object} model.Application "Successfully transition application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id, status or stage"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "Application already in a terminal status"
// @Router /applications/{id}/status [patch]
func (ac *ApplicationController) TransitionHandler(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return
	}

	var req transitionRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.Lifecycle.Transition(c.Request.Context(), actor, lifecycle.TransitionRequest{
		ApplicationID: id,
		NewStatus:     req.Status,
		Stage:         req.Stage,
		Notes:         req.Notes,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// scheduleInterviewRequest is the interview-scheduling body.
type scheduleInterviewRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location"`
}

// ScheduleInterviewHandler schedules the applicant's interview.
// @Summary Schedule an interview for an application
// @Description Only HR users have access to this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application id"
// @Param Interview body scheduleInterviewRequest true "Interview slot"
// @Success 200 {object} model.Application "Successfully schedule interview"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or slot"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "Application already in a terminal status"
// @Router /applications/{id}/interview [post]
func (ac *ApplicationController) ScheduleInterviewHandler(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return
	}

	var req scheduleInterviewRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.Lifecycle.ScheduleInterview(c.Request.Context(), actor, id, req.ScheduledAt, req.Location)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// DownloadAttachmentHandler streams one stored attachment back.
// @Summary Download an application attachment
// @Description HR users can download any attachment; applicants only their own
// @Tags Application
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application id"
// @Param index path int true "Attachment index, zero based"
// @Success 200 {file} binary "Attachment bytes"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id or index"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another applicant"
// @Failure 404 {object} utilities.ErrorResponse "Application or attachment not found"
// @Router /applications/{id}/attachments/{index} [get]
func (ac *ApplicationController) DownloadAttachmentHandler(c *gin.Context) {
	app, ok := ac.loadAuthorized(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(app.Attachments) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Attachment not found"})
		return
	}

	reader, err := ac.Storage.Open(c.Request.Context(), app.Attachments[index])
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to open attachment: %s", err.Error()),
		})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", reader, nil)
}

// loadAuthorized fetches the application named in the path and enforces
// that the caller may see it: HR always, applicants only when the
// application is linked to them.
func (ac *ApplicationController) loadAuthorized(c *gin.Context) (*model.Application, bool) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return nil, false
	}

	app, err := ac.Store.GetApplication(c.Request.Context(), id)
	if err != nil {
		utilities.RespondError(c, err)
		return nil, false
	}

	if !actor.CanManageJobs() {
		if app.ApplicantID == nil || *app.ApplicantID != actor.ID {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "Application belongs to another applicant",
			})
			return nil, false
		}
	}
	return app, true
}

func respondLifecycleError(c *gin.Context, err error) {
	if errors.Is(err, lifecycle.ErrNotAuthorized) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	utilities.RespondError(c, err)
}
