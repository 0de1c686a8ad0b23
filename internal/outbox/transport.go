package outbox

import (
	"context"
	"log/slog"

	"talenttrack-backend/internal/model"
)

// Transport delivers one notification intent. Implementations must be
// idempotent or de-duplicate by intent id: the dispatcher guarantees
// at-least-once delivery if it crashes between transport success and the
// status update.
type Transport interface {
	Send(ctx context.Context, intent *model.NotificationIntent) error
}

// LogTransport writes intents to the log instead of delivering them.
// Used in development when no broker is configured.
type LogTransport struct {
	Logger *slog.Logger
}

// Send logs the intent and reports success.
func (t *LogTransport) Send(_ context.Context, intent *model.NotificationIntent) error {
	t.Logger.Info("notification delivered (log transport)",
		slog.String("intent_id", intent.ID.String()),
		slog.String("category", intent.Category),
		slog.String("recipient", intent.Recipient),
		slog.String("subject", intent.Subject),
	)
	return nil
}
