package store

import (
	"context"

	"github.com/google/uuid"

	"talenttrack-backend/internal/model"
)

// CreateNotification inserts a new outbox intent in pending state. Called
// by the component performing the triggering mutation, on its transaction
// handle, never by the dispatcher.
func (s *Store) CreateNotification(ctx context.Context, intent *model.NotificationIntent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = s.now()
	}
	intent.DeliveryStatus = model.DeliveryPending
	intent.SentAt = nil

	if err := s.handle(ctx).Create(intent).Error; err != nil {
		return translate(err, CollectionNotifications, intent.ID.String())
	}

	snapshot := *intent
	s.stage(&Mutation{
		Collection: CollectionNotifications,
		Op:         OpAdded,
		EntityID:   intent.ID.String(),
		Entity:     &snapshot,
	})
	return nil
}

// GetNotification fetches an intent by id.
func (s *Store) GetNotification(ctx context.Context, id uuid.UUID) (*model.NotificationIntent, error) {
	var intent model.NotificationIntent
	if err := s.handle(ctx).First(&intent, "id = ?", id).Error; err != nil {
		return nil, translate(err, CollectionNotifications, id.String())
	}
	return &intent, nil
}

// PendingNotifications returns up to limit pending intents, oldest first.
func (s *Store) PendingNotifications(ctx context.Context, limit int) ([]model.NotificationIntent, error) {
	var intents []model.NotificationIntent
	if err := s.handle(ctx).
		Where("delivery_status = ?", model.DeliveryPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&intents).Error; err != nil {
		return nil, err
	}
	return intents, nil
}

// MarkNotificationSent records a successful delivery.
func (s *Store) MarkNotificationSent(ctx context.Context, id uuid.UUID) error {
	return s.setDeliveryStatus(ctx, id, model.DeliverySent)
}

// MarkNotificationFailed records a delivery failure. The intent is kept
// as an audit record; retrying means submitting a new intent.
func (s *Store) MarkNotificationFailed(ctx context.Context, id uuid.UUID) error {
	return s.setDeliveryStatus(ctx, id, model.DeliveryFailed)
}

func (s *Store) setDeliveryStatus(ctx context.Context, id uuid.UUID, status string) error {
	unlock := s.lock(CollectionNotifications, id.String())
	defer unlock()

	return s.Transact(ctx, func(tx *Store) error {
		intent, err := tx.GetNotification(ctx, id)
		if err != nil {
			return err
		}

		intent.DeliveryStatus = status
		if status == model.DeliverySent {
			now := tx.now()
			intent.SentAt = &now
		}
		if err := tx.handle(ctx).Save(intent).Error; err != nil {
			return translate(err, CollectionNotifications, id.String())
		}

		snapshot := *intent
		tx.stage(&Mutation{
			Collection: CollectionNotifications,
			Op:         OpModified,
			EntityID:   id.String(),
			Entity:     &snapshot,
		})
		return nil
	})
}

// ListNotifications returns every intent, newest first. The outbox is the
// notification audit trail; intents are never deleted.
func (s *Store) ListNotifications(ctx context.Context) ([]model.NotificationIntent, error) {
	var intents []model.NotificationIntent
	if err := s.handle(ctx).Order("created_at DESC").Find(&intents).Error; err != nil {
		return nil, err
	}
	return intents, nil
}

// CountNotifications returns the number of intents per delivery status.
func (s *Store) CountNotifications(ctx context.Context, status string) (int64, error) {
	var count int64
	err := s.handle(ctx).
		Model(&model.NotificationIntent{}).
		Where("delivery_status = ?", status).
		Count(&count).Error
	return count, err
}
