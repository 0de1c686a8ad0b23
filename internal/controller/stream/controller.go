// Package stream serves live entity views over server-sent events. Each
// connection gets a full snapshot event first, then incremental deltas
// in commit order until the client disconnects or falls too far behind.
package stream

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/utilities"
	"talenttrack-backend/internal/watch"
)

// StreamController handles live view subscriptions
type StreamController struct {
	Sync *watch.Synchronizer
}

// NewStreamController creates a new instance of StreamController
func NewStreamController(sync *watch.Synchronizer) *StreamController {
	return &StreamController{Sync: sync}
}

// OpenJobsStream streams the live set of open job listings.
// @Summary Stream open job listings over server-sent events
// @Description Public endpoint. The first event is a snapshot, then added/modified/removed deltas follow
// @Tags Stream
// @Produce text/event-stream
// @Success 200 {object} watch.Delta "Event stream"
// @Failure 500 {object} utilities.ErrorResponse "Snapshot error"
// @Router /streams/jobs [get]
func (sc *StreamController) OpenJobsStream(c *gin.Context) {
	sc.serve(c, store.CollectionJobs, watch.JobsWithStatus(model.JobStatusActive))
}

// AllApplicationsStream streams every application.
// @Summary Stream all applications over server-sent events
// @Description Only HR users have access to this endpoint
// @Tags Stream
// @Produce text/event-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} watch.Delta "Event stream"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Snapshot error"
// @Router /streams/applications [get]
func (sc *StreamController) AllApplicationsStream(c *gin.Context) {
	sc.serve(c, store.CollectionApplications, nil)
}

// JobApplicationsStream streams the applications against one listing.
// @Summary Stream applications for one job listing over server-sent events
// @Description Only HR users have access to this endpoint
// @Tags Stream
// @Produce text/event-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Job listing id"
// @Success 200 {object} watch.Delta "Event stream"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Snapshot error"
// @Router /streams/jobs/{id}/applications [get]
func (sc *StreamController) JobApplicationsStream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job listing id"})
		return
	}
	sc.serve(c, store.CollectionApplications, watch.ApplicationsForJob(id))
}

// MyApplicationsStream streams the authenticated applicant's own
// applications, so their dashboard updates without polling.
// @Summary Stream the caller's applications over server-sent events
// @Tags Stream
// @Produce text/event-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} watch.Delta "Event stream"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Snapshot error"
// @Router /streams/my-applications [get]
func (sc *StreamController) MyApplicationsStream(c *gin.Context) {
	actor, err := utilities.ExtractActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	sc.serve(c, store.CollectionApplications, watch.ApplicationsOfApplicant(actor.ID))
}

// serve runs the SSE loop for one subscription. The subscription is
// closed when the client goes away; a slow-consumer disconnect ends the
// stream with an error event so the client knows to resubscribe.
func (sc *StreamController) serve(c *gin.Context, collection store.Collection, pred watch.Predicate) {
	sub, err := sc.Sync.Subscribe(c.Request.Context(), collection, pred)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to open subscription: " + err.Error(),
		})
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case delta, ok := <-sub.C():
			if !ok {
				if err := sub.Err(); err != nil {
					c.SSEvent("error", utilities.ErrorResponse{Error: err.Error()})
				}
				return false
			}
			c.SSEvent(string(delta.Type), delta)
			return true
		}
	})
}
