package store

import (
	"context"

	"github.com/google/uuid"

	"talenttrack-backend/internal/model"
)

// CreateApplication inserts a new application. The store assigns the id
// and timestamps when the caller does not.
func (s *Store) CreateApplication(ctx context.Context, app *model.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = s.now()
	}
	if app.LastUpdated.IsZero() {
		app.LastUpdated = app.SubmittedAt
	}

	if err := s.handle(ctx).Create(app).Error; err != nil {
		return translate(err, CollectionApplications, app.ID.String())
	}

	snapshot := *app
	s.stage(&Mutation{
		Collection: CollectionApplications,
		Op:         OpAdded,
		EntityID:   app.ID.String(),
		Entity:     &snapshot,
	})
	return nil
}

// GetApplication fetches an application by id.
func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := s.handle(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err, CollectionApplications, id.String())
	}
	return &app, nil
}

// MutateApplication applies fn to the stored application under its write
// lock, inside one transaction. fn may stage further writes on tx (an
// outbox intent, typically); the application save and everything fn
// writes commit together and surface on the feed only after commit.
func (s *Store) MutateApplication(ctx context.Context, id uuid.UUID, fn func(tx *Store, app *model.Application) error) (*model.Application, error) {
	unlock := s.lock(CollectionApplications, id.String())
	defer unlock()

	var app *model.Application
	err := s.Transact(ctx, func(tx *Store) error {
		var err error
		app, err = tx.GetApplication(ctx, id)
		if err != nil {
			return err
		}

		if err := fn(tx, app); err != nil {
			return err
		}

		app.LastUpdated = tx.now()
		if err := tx.handle(ctx).Save(app).Error; err != nil {
			return translate(err, CollectionApplications, id.String())
		}

		snapshot := *app
		tx.stage(&Mutation{
			Collection: CollectionApplications,
			Op:         OpModified,
			EntityID:   id.String(),
			Entity:     &snapshot,
		})
		return nil
	})
	return app, err
}

// ListApplications returns every application ordered by submission time.
func (s *Store) ListApplications(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	if err := s.handle(ctx).Order("submitted_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ApplicationsByJob returns the applications submitted against one
// listing.
func (s *Store) ApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	if err := s.handle(ctx).
		Where("job_id = ?", jobID).
		Order("submitted_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ApplicationsByApplicant returns the applications an authenticated
// applicant submitted.
func (s *Store) ApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	if err := s.handle(ctx).
		Where("applicant_id = ?", applicantID).
		Order("submitted_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
