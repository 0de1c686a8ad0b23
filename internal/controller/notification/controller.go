// Package notification exposes the outbox audit trail over HTTP.
package notification

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/utilities"
)

// NotificationController handles notification audit endpoints
type NotificationController struct {
	Store *store.Store
}

// NewNotificationController creates a new instance of NotificationController
func NewNotificationController(st *store.Store) *NotificationController {
	return &NotificationController{Store: st}
}

// GetNotifications lists every recorded intent, newest first.
// @Summary Get the notification audit trail
// @Description Only HR users have access to this endpoint. Intents are never deleted
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by delivery status: pending, sent or failed"
// @Success 200 {array} model.NotificationIntent "Return notification intent(s)"
// @Failure 400 {object} utilities.ErrorResponse "Unknown delivery status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notifications [get]
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != model.DeliveryPending && status != model.DeliverySent && status != model.DeliveryFailed {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown delivery status %q", status),
		})
		return
	}

	intents, err := nc.Store.ListNotifications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve notifications: %s", err.Error()),
		})
		return
	}

	if status != "" {
		filtered := intents[:0]
		for _, intent := range intents {
			if intent.DeliveryStatus == status {
				filtered = append(filtered, intent)
			}
		}
		intents = filtered
	}

	c.JSON(http.StatusOK, intents)
}

// GetDeliveryCounts reports how many intents sit in each delivery status.
// @Summary Get notification delivery counts
// @Description Only HR users have access to this endpoint
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} map[string]int64 "Counts keyed by delivery status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notifications/counts [get]
func (nc *NotificationController) GetDeliveryCounts(c *gin.Context) {
	counts := map[string]int64{}
	for _, status := range []string{model.DeliveryPending, model.DeliverySent, model.DeliveryFailed} {
		count, err := nc.Store.CountNotifications(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to count notifications: %s", err.Error()),
			})
			return
		}
		counts[status] = count
	}

	c.JSON(http.StatusOK, counts)
}
