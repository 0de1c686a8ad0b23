// Package watch is the live view synchronizer. It consumes the entity
// store's committed-mutation feed and fans deltas out to independent
// subscriptions, each filtered by a predicate. Every subscription first
// receives a snapshot of the current matching set, then incremental
// deltas in commit order. Fan-out never blocks the writer: each
// subscription has a bounded buffer and is disconnected when it cannot
// keep up.
package watch

import (
	"context"
	"log/slog"
	"sync"

	"talenttrack-backend/internal/store"
)

// Synchronizer multiplexes the store feed to N subscriptions.
type Synchronizer struct {
	store  *store.Store
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[int]*Subscription
	nextID int

	watcher *store.Watcher
	done    chan struct{}
}

// New creates a Synchronizer over the given store.
func New(st *store.Store, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		store:  st,
		logger: logger,
		subs:   make(map[int]*Subscription),
		done:   make(chan struct{}),
	}
}

// Run consumes the store feed until ctx is cancelled. Mutations committed
// while no subscription matches are discarded. Run returns after the feed
// detaches; all subscriptions are closed on the way out.
func (s *Synchronizer) Run(ctx context.Context) {
	s.watcher = s.store.Watch()
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.watcher.Close()
			s.closeAll(ctx.Err())
			return
		case m, ok := <-s.watcher.C():
			if !ok {
				s.closeAll(nil)
				return
			}
			s.dispatch(m)
		}
	}
}

// Subscribe registers a consumer on a collection. The current matching
// set is delivered immediately as a snapshot delta, then every committed
// mutation the predicate admits follows in commit order. A nil predicate
// matches the whole collection.
func (s *Synchronizer) Subscribe(ctx context.Context, collection store.Collection, pred Predicate) (*Subscription, error) {
	sub := &Subscription{
		collection: collection,
		pred:       pred,
		ch:         make(chan *Delta, DefaultBufferSize),
		matched:    make(map[string]struct{}),
		sync:       s,
	}

	// Registration and snapshot happen under the fan-out lock so the
	// subscription cannot miss a mutation committed while the snapshot
	// is being read. A mutation already committed but not yet fanned out
	// is deduplicated against the snapshot via the membership map.
	s.mu.Lock()
	defer s.mu.Unlock()

	entities, ids, err := s.snapshot(ctx, collection, pred)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		sub.matched[id] = struct{}{}
	}

	snap := &Delta{Type: DeltaSnapshot, Collection: collection, Entities: entities}
	sub.ch <- snap

	s.nextID++
	sub.id = s.nextID
	s.subs[sub.id] = sub
	return sub, nil
}

// snapshot reads the current matching set for a new subscription,
// returning the entities and their ids for the membership map.
func (s *Synchronizer) snapshot(ctx context.Context, collection store.Collection, pred Predicate) ([]interface{}, []string, error) {
	var entities []interface{}
	var ids []string

	switch collection {
	case store.CollectionJobs:
		jobs, err := s.store.ListJobs(ctx)
		if err != nil {
			return nil, nil, err
		}
		for i := range jobs {
			job := jobs[i]
			if pred == nil || pred(&job) {
				entities = append(entities, &job)
				ids = append(ids, job.ID.String())
			}
		}
	case store.CollectionApplications:
		apps, err := s.store.ListApplications(ctx)
		if err != nil {
			return nil, nil, err
		}
		for i := range apps {
			app := apps[i]
			if pred == nil || pred(&app) {
				entities = append(entities, &app)
				ids = append(ids, app.ID.String())
			}
		}
	case store.CollectionNotifications:
		intents, err := s.store.ListNotifications(ctx)
		if err != nil {
			return nil, nil, err
		}
		for i := range intents {
			intent := intents[i]
			if pred == nil || pred(&intent) {
				entities = append(entities, &intent)
				ids = append(ids, intent.ID.String())
			}
		}
	}

	return entities, ids, nil
}

// dispatch fans one committed mutation out to every matching
// subscription. Delivery to one subscription never blocks another; a full
// buffer disconnects its consumer.
func (s *Synchronizer) dispatch(m *store.Mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sub := range s.subs {
		if sub.collection != m.Collection {
			continue
		}

		delta := sub.deltaFor(m)
		if delta == nil {
			continue
		}

		select {
		case sub.ch <- delta:
		default:
			s.logger.Warn("disconnecting slow subscriber",
				slog.String("collection", string(sub.collection)),
				slog.Int("subscription", id),
			)
			s.removeLocked(id, sub, ErrSlowConsumer)
		}
	}
}

func (s *Synchronizer) remove(id int, reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[id]; ok {
		s.removeLocked(id, sub, reason)
	}
}

func (s *Synchronizer) removeLocked(id int, sub *Subscription, reason error) {
	delete(s.subs, id)
	if reason != nil {
		sub.err.Store(reason)
	}
	if sub.closed.CompareAndSwap(false, true) {
		close(sub.ch)
	}
}

func (s *Synchronizer) closeAll(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.subs {
		s.removeLocked(id, sub, reason)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (s *Synchronizer) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
