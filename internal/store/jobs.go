package store

import (
	"context"

	"github.com/google/uuid"

	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/utilities"
)

// CreateJob inserts a new job listing. The store assigns the id and
// postedAt when the caller does not.
func (s *Store) CreateJob(ctx context.Context, job *model.JobListing) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.PostedAt.IsZero() {
		job.PostedAt = s.now()
	}

	if err := s.handle(ctx).Create(job).Error; err != nil {
		return translate(err, CollectionJobs, job.ID.String())
	}

	snapshot := *job
	s.stage(&Mutation{
		Collection: CollectionJobs,
		Op:         OpAdded,
		EntityID:   job.ID.String(),
		Entity:     &snapshot,
	})
	return nil
}

// GetJob fetches a job listing by id.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*model.JobListing, error) {
	var job model.JobListing
	if err := s.handle(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, translate(err, CollectionJobs, id.String())
	}
	return &job, nil
}

// UpdateJob merges the non-zero fields of patch into the stored listing.
func (s *Store) UpdateJob(ctx context.Context, id uuid.UUID, patch *model.EditableJobInfo) (*model.JobListing, error) {
	unlock := s.lock(CollectionJobs, id.String())
	defer unlock()

	var job *model.JobListing
	err := s.Transact(ctx, func(tx *Store) error {
		var err error
		job, err = tx.GetJob(ctx, id)
		if err != nil {
			return err
		}

		utilities.MergeNonEmpty(&job.EditableJobInfo, patch)
		if err := tx.handle(ctx).Save(job).Error; err != nil {
			return translate(err, CollectionJobs, id.String())
		}

		snapshot := *job
		tx.stage(&Mutation{
			Collection: CollectionJobs,
			Op:         OpModified,
			EntityID:   id.String(),
			Entity:     &snapshot,
		})
		return nil
	})
	return job, err
}

// MutateJob applies fn to the stored listing under its write lock,
// inside one transaction. fn may stage further writes on tx (an outbox
// intent for a status change, typically); everything commits together
// and surfaces on the feed only after commit.
func (s *Store) MutateJob(ctx context.Context, id uuid.UUID, fn func(tx *Store, job *model.JobListing) error) (*model.JobListing, error) {
	unlock := s.lock(CollectionJobs, id.String())
	defer unlock()

	var job *model.JobListing
	err := s.Transact(ctx, func(tx *Store) error {
		var err error
		job, err = tx.GetJob(ctx, id)
		if err != nil {
			return err
		}

		if err := fn(tx, job); err != nil {
			return err
		}

		if err := tx.handle(ctx).Save(job).Error; err != nil {
			return translate(err, CollectionJobs, id.String())
		}

		snapshot := *job
		tx.stage(&Mutation{
			Collection: CollectionJobs,
			Op:         OpModified,
			EntityID:   id.String(),
			Entity:     &snapshot,
		})
		return nil
	})
	return job, err
}

// DeleteJob removes a listing. Applications reference listings by id and
// are never deleted, so deletion is reserved for drafts.
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	unlock := s.lock(CollectionJobs, id.String())
	defer unlock()

	return s.Transact(ctx, func(tx *Store) error {
		job, err := tx.GetJob(ctx, id)
		if err != nil {
			return err
		}

		if err := tx.handle(ctx).Delete(&model.JobListing{}, "id = ?", id).Error; err != nil {
			return translate(err, CollectionJobs, id.String())
		}

		tx.stage(&Mutation{
			Collection: CollectionJobs,
			Op:         OpRemoved,
			EntityID:   id.String(),
			Entity:     job,
		})
		return nil
	})
}

// ListJobs returns every job listing ordered by postedAt.
func (s *Store) ListJobs(ctx context.Context) ([]model.JobListing, error) {
	var jobs []model.JobListing
	if err := s.handle(ctx).Order("posted_at ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// JobQuery holds the optional filters for listing active jobs.
type JobQuery struct {
	Search     string
	Department string
	Type       string
	Location   string
}

// ActiveJobs returns active listings whose deadline has not passed,
// narrowed by the query filters.
func (s *Store) ActiveJobs(ctx context.Context, q JobQuery) ([]model.JobListing, error) {
	result := s.handle(ctx).
		Where("status = ?", model.JobStatusActive).
		Where("deadline > ? OR deadline IS NULL", s.now())

	if q.Search != "" {
		result = result.Where("title ILIKE ?", "%"+q.Search+"%")
	}
	if q.Department != "" {
		result = result.Where("department ILIKE ?", "%"+q.Department+"%")
	}
	if q.Type != "" {
		result = result.Where("employment_type = ?", q.Type)
	}
	if q.Location != "" {
		result = result.Where("location ILIKE ?", "%"+q.Location+"%")
	}

	var jobs []model.JobListing
	if err := result.Order("posted_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
