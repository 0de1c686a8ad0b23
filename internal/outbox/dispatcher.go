// Package outbox drains the notification outbox. Intents are recorded by
// the component that performs the triggering mutation; the dispatcher
// only moves them pending->sent or pending->failed. A transport failure
// is recorded on the intent, never propagated: the mutation that created
// the intent already succeeded.
package outbox

import (
	"context"
	"log/slog"
	"time"

	"talenttrack-backend/internal/apperror"
	"talenttrack-backend/internal/store"
)

// Dispatcher drains pending intents on a fixed cadence. It holds no
// entity locks; each drain cycle attempts every fetched intent exactly
// once.
type Dispatcher struct {
	store     *store.Store
	transport Transport
	logger    *slog.Logger

	interval  time.Duration
	batchSize int
}

// NewDispatcher creates a Dispatcher over the given store and transport.
func NewDispatcher(st *store.Store, transport Transport, interval time.Duration, batchSize int, logger *slog.Logger) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Dispatcher{
		store:     st,
		transport: transport,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run drains the outbox until ctx is cancelled. Stopping mid-cycle is
// safe: already committed intent statuses are untouched and an intent
// interrupted between transport success and the status update will be
// re-attempted next start (the transport de-duplicates by intent id).
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("outbox dispatcher started",
		slog.Duration("interval", d.interval),
		slog.Int("batch_size", d.batchSize),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.DrainOnce(ctx); err != nil {
				d.logger.Error("outbox drain failed",
					slog.Any("error", err),
				)
			}
		}
	}
}

// DrainOnce fetches pending intents and attempts each exactly once,
// marking it sent or failed. Returns the number of intents attempted.
func (d *Dispatcher) DrainOnce(ctx context.Context) (int, error) {
	intents, err := d.store.PendingNotifications(ctx, d.batchSize)
	if err != nil {
		return 0, err
	}

	for i := range intents {
		intent := intents[i]

		if err := d.transport.Send(ctx, &intent); err != nil {
			tErr := &apperror.TransportError{IntentID: intent.ID.String(), Err: err}
			d.logger.Warn("notification delivery failed",
				slog.String("intent_id", intent.ID.String()),
				slog.String("category", intent.Category),
				slog.Any("error", tErr),
			)
			if markErr := d.store.MarkNotificationFailed(ctx, intent.ID); markErr != nil {
				d.logger.Error("failed to mark intent failed",
					slog.String("intent_id", intent.ID.String()),
					slog.Any("error", markErr),
				)
			}
			continue
		}

		if err := d.store.MarkNotificationSent(ctx, intent.ID); err != nil {
			d.logger.Error("failed to mark intent sent",
				slog.String("intent_id", intent.ID.String()),
				slog.Any("error", err),
			)
			continue
		}

		d.logger.Debug("notification dispatched",
			slog.String("intent_id", intent.ID.String()),
			slog.String("category", intent.Category),
		)
	}

	return len(intents), nil
}
