package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"talenttrack-backend/internal/apperror"
	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
)

// TransitionRequest describes a requested status change on an
// application. Stage and Notes are optional; an empty Stage falls back
// to the default stage for the new status.
type TransitionRequest struct {
	ApplicationID uuid.UUID
	NewStatus     string
	Stage         string
	Notes         string
}

// Transition moves an application to a new status. Re-asserting the
// current status is a permitted no-op: the application's lastUpdated
// timestamp moves but no notification intent is created, so repeated
// identical requests never spam the applicant. Terminal applications
// reject any change of status.
func (s *Service) Transition(ctx context.Context, actor identity.Actor, req TransitionRequest) (*model.Application, error) {
	if !actor.CanManageJobs() {
		return nil, ErrNotAuthorized
	}
	if !model.ValidStatus(req.NewStatus) {
		return nil, apperror.NewValidation("status", fmt.Sprintf("unknown status %q", req.NewStatus))
	}
	if req.Stage != "" && !model.ValidStage(req.Stage) {
		return nil, apperror.NewValidation("stage", fmt.Sprintf("unknown stage %q", req.Stage))
	}

	app, err := s.store.MutateApplication(ctx, req.ApplicationID, func(tx *store.Store, app *model.Application) error {
		if model.TerminalStatus(app.Status) && req.NewStatus != app.Status {
			return &apperror.TerminalStateError{ApplicationID: app.ID.String(), Status: app.Status}
		}

		statusChanged := app.Status != req.NewStatus
		app.Status = req.NewStatus
		if req.Stage != "" {
			app.Stage = req.Stage
		} else if statusChanged {
			app.Stage = model.DefaultStage(req.NewStatus)
		}
		if req.Notes != "" {
			app.Notes = req.Notes
		}

		if !statusChanged {
			return nil
		}
		return tx.CreateNotification(ctx, &model.NotificationIntent{
			Recipient: app.ApplicantEmail,
			Subject:   fmt.Sprintf("Update on your application: %s", app.JobTitle),
			Body: fmt.Sprintf("Hi %s, your application for %s is now %q.",
				app.ApplicantName, app.JobTitle, app.Status),
			Category: model.CategoryStatusUpdate,
			Metadata: model.Metadata{
				"application_id": app.ID.String(),
				"job_id":         app.JobID.String(),
				"status":         app.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application transitioned",
		"application_id", app.ID,
		"status", app.Status,
		"stage", app.Stage,
		"actor", actor.Email)
	return app, nil
}

// ScheduleInterview moves an application to interview-scheduled and
// records the slot. It emits an interview-scheduled intent carrying the
// slot details, plus the usual status-update intent when the status
// actually changed (rescheduling an already scheduled interview emits
// only the former).
func (s *Service) ScheduleInterview(ctx context.Context, actor identity.Actor, applicationID uuid.UUID, at time.Time, location string) (*model.Application, error) {
	if !actor.CanManageJobs() {
		return nil, ErrNotAuthorized
	}
	if at.IsZero() {
		return nil, apperror.NewValidation("scheduled_at", "must be set")
	}

	app, err := s.store.MutateApplication(ctx, applicationID, func(tx *store.Store, app *model.Application) error {
		if model.TerminalStatus(app.Status) {
			return &apperror.TerminalStateError{ApplicationID: app.ID.String(), Status: app.Status}
		}

		statusChanged := app.Status != model.StatusInterviewScheduled
		app.Status = model.StatusInterviewScheduled
		app.Stage = model.StageInterview

		if statusChanged {
			if err := tx.CreateNotification(ctx, &model.NotificationIntent{
				Recipient: app.ApplicantEmail,
				Subject:   fmt.Sprintf("Update on your application: %s", app.JobTitle),
				Body: fmt.Sprintf("Hi %s, your application for %s is now %q.",
					app.ApplicantName, app.JobTitle, model.StatusInterviewScheduled),
				Category: model.CategoryStatusUpdate,
				Metadata: model.Metadata{
					"application_id": app.ID.String(),
					"job_id":         app.JobID.String(),
					"status":         model.StatusInterviewScheduled,
				},
			}); err != nil {
				return err
			}
		}

		return tx.CreateNotification(ctx, &model.NotificationIntent{
			Recipient: app.ApplicantEmail,
			Subject:   fmt.Sprintf("Interview scheduled: %s", app.JobTitle),
			Body: fmt.Sprintf("Hi %s, your interview for %s is scheduled for %s at %s.",
				app.ApplicantName, app.JobTitle, at.Format(time.RFC1123), location),
			Category: model.CategoryInterviewScheduled,
			Metadata: model.Metadata{
				"application_id": app.ID.String(),
				"job_id":         app.JobID.String(),
				"scheduled_at":   at.Format(time.RFC3339),
				"location":       location,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("interview scheduled",
		"application_id", app.ID,
		"scheduled_at", at,
		"actor", actor.Email)
	return app, nil
}
