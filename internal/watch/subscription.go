package watch

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
)

// DefaultBufferSize is the per-subscription delta buffer. A consumer that
// falls this far behind is disconnected rather than allowed to
// backpressure the writer.
const DefaultBufferSize = 256

// ErrSlowConsumer marks a subscription that was disconnected because its
// buffer overflowed. The consumer may resubscribe for a fresh snapshot.
var ErrSlowConsumer = errors.New("subscription dropped: consumer too slow")

// DeltaType classifies a delivery to a subscriber.
type DeltaType string

const (
	// DeltaSnapshot is the first delivery on every subscription: the
	// full current matching set.
	DeltaSnapshot DeltaType = "snapshot"
	DeltaAdded    DeltaType = "added"
	DeltaModified DeltaType = "modified"
	DeltaRemoved  DeltaType = "removed"
)

// Delta is one delivery to a subscriber. Snapshot deltas carry Entities;
// incremental deltas carry EntityID and Entity (for removed, the last
// snapshot before the entity left the matching set).
type Delta struct {
	Type       DeltaType          `json:"type"`
	Collection store.Collection   `json:"collection"`
	EntityID   string             `json:"entity_id,omitempty"`
	Entity     interface{}        `json:"entity,omitempty"`
	Entities   []interface{}      `json:"entities,omitempty"`
	Seq        uint64             `json:"seq,omitempty"`
}

// Predicate narrows a subscription to matching entities. A nil predicate
// matches everything in the collection.
type Predicate func(entity interface{}) bool

// Subscription is one registered consumer. Deltas arrive on C in the
// order the underlying mutations were committed, snapshot first.
type Subscription struct {
	id         int
	collection store.Collection
	pred       Predicate
	ch         chan *Delta

	// matched tracks which entity ids are currently in the consumer's
	// view, so a predicate miss after modification turns into a removed
	// delta and a post-snapshot replay of an add turns into modified.
	matched map[string]struct{}

	sync   *Synchronizer
	closed atomic.Bool
	err    atomic.Value // error
}

// C returns the delta channel. It is closed on Close and on slow-consumer
// disconnect.
func (s *Subscription) C() <-chan *Delta { return s.ch }

// Err returns the disconnect reason, or nil after a clean Close.
func (s *Subscription) Err() error {
	if v := s.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Close unsubscribes. Safe to call at any time and more than once;
// delivery to other subscriptions is unaffected.
func (s *Subscription) Close() {
	s.sync.remove(s.id, nil)
}

// matches evaluates the predicate against an entity.
func (s *Subscription) matches(entity interface{}) bool {
	if s.pred == nil {
		return true
	}
	return s.pred(entity)
}

// deltaFor translates a committed mutation into the delta this consumer
// should see, or nil when the mutation is invisible to it.
func (s *Subscription) deltaFor(m *store.Mutation) *Delta {
	_, was := s.matched[m.EntityID]
	now := m.Op != store.OpRemoved && s.matches(m.Entity)

	switch {
	case now && !was:
		s.matched[m.EntityID] = struct{}{}
		return &Delta{Type: DeltaAdded, Collection: m.Collection, EntityID: m.EntityID, Entity: m.Entity, Seq: m.Seq}
	case now && was:
		return &Delta{Type: DeltaModified, Collection: m.Collection, EntityID: m.EntityID, Entity: m.Entity, Seq: m.Seq}
	case !now && was:
		delete(s.matched, m.EntityID)
		return &Delta{Type: DeltaRemoved, Collection: m.Collection, EntityID: m.EntityID, Entity: m.Entity, Seq: m.Seq}
	}
	return nil
}

// ── Common predicates ─────────────────────────────

// JobsWithStatus matches job listings in the given status.
func JobsWithStatus(status string) Predicate {
	return func(entity interface{}) bool {
		job, ok := entity.(*model.JobListing)
		return ok && job.Status == status
	}
}

// ApplicationsOfApplicant matches applications submitted by the given
// authenticated applicant.
func ApplicationsOfApplicant(applicantID uuid.UUID) Predicate {
	return func(entity interface{}) bool {
		app, ok := entity.(*model.Application)
		return ok && app.ApplicantID != nil && *app.ApplicantID == applicantID
	}
}

// ApplicationsForJob matches applications against one listing.
func ApplicationsForJob(jobID uuid.UUID) Predicate {
	return func(entity interface{}) bool {
		app, ok := entity.(*model.Application)
		return ok && app.JobID == jobID
	}
}
