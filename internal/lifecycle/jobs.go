package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"talenttrack-backend/internal/apperror"
	"talenttrack-backend/internal/identity"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
)

// PostJob creates a job listing for the acting HR user. When activate is
// set the listing goes live immediately and a job-posted intent is
// recorded for the poster in the same transaction; otherwise it stays a
// draft until ActivateJob.
func (s *Service) PostJob(ctx context.Context, actor identity.Actor, info model.EditableJobInfo, activate bool) (*model.JobListing, error) {
	if !actor.CanManageJobs() {
		return nil, ErrNotAuthorized
	}
	if err := validateJobInfo(info, true); err != nil {
		return nil, err
	}

	job := &model.JobListing{
		EditableJobInfo: info,
		Status:          model.JobStatusDraft,
		CreatedBy:       actor.ID.String(),
	}
	if activate {
		job.Status = model.JobStatusActive
	}

	err := s.store.Transact(ctx, func(tx *store.Store) error {
		if err := tx.CreateJob(ctx, job); err != nil {
			return err
		}
		if !activate {
			return nil
		}
		return tx.CreateNotification(ctx, jobPostedIntent(job, actor))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job posted",
		"job_id", job.ID,
		"title", job.Title,
		"status", job.Status,
		"actor", actor.Email)
	return job, nil
}

// EditJob applies a partial update to a listing. Only non-zero fields of
// the patch are written. Edits never touch denormalized copies on
// existing applications.
func (s *Service) EditJob(ctx context.Context, actor identity.Actor, id uuid.UUID, patch model.EditableJobInfo) (*model.JobListing, error) {
	if !actor.CanManageJobs() {
		return nil, ErrNotAuthorized
	}
	if err := validateJobInfo(patch, false); err != nil {
		return nil, err
	}

	job, err := s.store.UpdateJob(ctx, id, &patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job edited", "job_id", job.ID, "actor", actor.Email)
	return job, nil
}

// ActivateJob publishes a draft listing. Activating an already active
// listing is a no-op without a second job-posted intent; a closed
// listing cannot be reopened.
func (s *Service) ActivateJob(ctx context.Context, actor identity.Actor, id uuid.UUID) (*model.JobListing, error) {
	if !actor.CanManageJobs() {
		return nil, ErrNotAuthorized
	}

	job, err := s.store.MutateJob(ctx, id, func(tx *store.Store, job *model.JobListing) error {
		switch job.Status {
		case model.JobStatusActive:
			return nil
		case model.JobStatusClosed:
			return apperror.NewValidation("status", "closed listings cannot be reactivated")
		}
		job.Status = model.JobStatusActive
		return tx.CreateNotification(ctx, jobPostedIntent(job, actor))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job activated", "job_id", job.ID, "actor", actor.Email)
	return job, nil
}

// CloseJob stops a listing from receiving submissions. Existing
// applications are unaffected and keep transitioning normally.
func (s *Service) CloseJob(ctx context.Context, actor identity.Actor, id uuid.UUID) (*model.JobListing, error) {
	if !actor.CanManageJobs() {
		return nil, ErrNotAuthorized
	}

	job, err := s.store.MutateJob(ctx, id, func(tx *store.Store, job *model.JobListing) error {
		job.Status = model.JobStatusClosed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job closed", "job_id", job.ID, "actor", actor.Email)
	return job, nil
}

// validateJobInfo checks listing fields. On create every required field
// must be present; on edit empty fields mean "leave unchanged" and only
// provided values are checked.
func validateJobInfo(info model.EditableJobInfo, create bool) error {
	if create {
		if strings.TrimSpace(info.Title) == "" {
			return apperror.NewValidation("title", "must not be empty")
		}
		if strings.TrimSpace(info.Department) == "" {
			return apperror.NewValidation("department", "must not be empty")
		}
		if info.EmploymentType == "" {
			return apperror.NewValidation("employment_type", "must be set")
		}
	}
	if info.EmploymentType != "" && !model.ValidEmploymentType(info.EmploymentType) {
		return apperror.NewValidation("employment_type", fmt.Sprintf("unknown employment type %q", info.EmploymentType))
	}
	return nil
}

func jobPostedIntent(job *model.JobListing, actor identity.Actor) *model.NotificationIntent {
	return &model.NotificationIntent{
		Recipient: actor.Email,
		Subject:   fmt.Sprintf("Job listing published: %s", job.Title),
		Body: fmt.Sprintf("The listing %q (%s) is now live and accepting applications.",
			job.Title, job.Department),
		Category: model.CategoryJobPosted,
		Metadata: model.Metadata{
			"job_id": job.ID.String(),
		},
	}
}
