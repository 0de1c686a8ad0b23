package lifecycle

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"talenttrack-backend/internal/apperror"
	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/upload"
)

// SubmitRequest carries everything needed to file a new application.
// Actor is nil for public (unauthenticated) submissions.
type SubmitRequest struct {
	JobID          uuid.UUID
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	CoverLetter    string
	Files          []SubmittedFile
	Actor          *identity.Actor
}

// Submit files a new application against an open listing. The whole
// submission is atomic: validation and attachment rejection happen
// before anything is written, and the application row plus its
// application-received intent commit together or not at all. Uploaded
// file bytes are persisted before the transaction; a failed commit
// leaves orphaned objects in storage, never a half-written application.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*model.Application, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, &apperror.JobUnavailableError{JobID: req.JobID.String(), Reason: "job listing does not exist"}
		}
		return nil, err
	}
	now := s.store.Now()
	if !job.AcceptsApplications(now) {
		return nil, &apperror.JobUnavailableError{JobID: req.JobID.String(), Reason: unavailableReason(job, now)}
	}

	descriptors := make([]upload.FileDescriptor, len(req.Files))
	for i, f := range req.Files {
		descriptors[i] = upload.FileDescriptor{Name: f.Name, Size: f.Size}
	}
	results := upload.ValidateBatch(descriptors, s.rules)
	if rejected, ok := upload.FirstRejection(results); ok {
		return nil, apperror.NewValidation("attachments",
			fmt.Sprintf("file %q rejected: %s", rejected.Name, rejected.Reason))
	}

	refs := make(pq.StringArray, 0, len(req.Files))
	for _, f := range req.Files {
		ref, err := s.storage.Store(ctx, f.Name, f.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment %q: %w", f.Name, err)
		}
		refs = append(refs, ref)
	}

	app := &model.Application{
		ApplicantName:  strings.TrimSpace(req.ApplicantName),
		ApplicantEmail: strings.TrimSpace(req.ApplicantEmail),
		ApplicantPhone: strings.TrimSpace(req.ApplicantPhone),
		JobID:          job.ID,
		JobTitle:       job.Title,
		Department:     job.Department,
		Status:         model.StatusSubmitted,
		Stage:          model.StageInitialReview,
		CoverLetter:    req.CoverLetter,
		Attachments:    refs,
		CreatedBy:      model.PublicActor,
	}
	if req.Actor != nil {
		app.CreatedBy = req.Actor.Email
		applicantID := req.Actor.ID
		app.ApplicantID = &applicantID
	}

	err = s.store.Transact(ctx, func(tx *store.Store) error {
		if err := tx.CreateApplication(ctx, app); err != nil {
			return err
		}
		return tx.CreateNotification(ctx, &model.NotificationIntent{
			Recipient: app.ApplicantEmail,
			Subject:   fmt.Sprintf("Application received: %s", job.Title),
			Body: fmt.Sprintf("Hi %s, we received your application for %s (%s). We will be in touch.",
				app.ApplicantName, job.Title, job.Department),
			Category: model.CategoryApplicationReceived,
			Metadata: model.Metadata{
				"application_id": app.ID.String(),
				"job_id":         job.ID.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		"application_id", app.ID,
		"job_id", job.ID,
		"applicant", app.ApplicantEmail)
	return app, nil
}

func validateSubmission(req SubmitRequest) error {
	if strings.TrimSpace(req.ApplicantName) == "" {
		return apperror.NewValidation("applicant_name", "must not be empty")
	}
	email := strings.TrimSpace(req.ApplicantEmail)
	if email == "" {
		return apperror.NewValidation("applicant_email", "must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.NewValidation("applicant_email", "must be a valid email address")
	}
	if strings.TrimSpace(req.CoverLetter) == "" {
		return apperror.NewValidation("cover_letter", "must not be empty")
	}
	return nil
}

func unavailableReason(job *model.JobListing, now time.Time) string {
	switch {
	case job.Status == model.JobStatusDraft:
		return "job listing has not been published"
	case job.Status == model.JobStatusClosed:
		return "job listing is closed"
	case job.Deadline != nil && !now.Before(*job.Deadline):
		return "application deadline has passed"
	}
	return "job listing is not accepting applications"
}
