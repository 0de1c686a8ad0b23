// Package store is the entity store: gorm-backed CRUD over the jobs,
// applications and notifications collections, plus the committed-mutation
// feed consumed by the live view synchronizer. Writes to the same entity
// id are serialized; composite writes (entity + outbox intent) share one
// transaction and surface on the feed only after commit.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"talenttrack-backend/internal/apperror"
	"talenttrack-backend/internal/database"
)

// Store wraps the database instance. A Store derived inside Transact
// carries the transaction handle and stages its mutations until commit.
type Store struct {
	db    *database.Instance
	feed  *Feed
	locks *sync.Map // "<collection>/<id>" -> *sync.Mutex
	clock func() time.Time

	tx      *gorm.DB
	pending *[]*Mutation
}

// New creates a Store over the given database instance.
func New(db *database.Instance) *Store {
	return &Store{
		db:    db,
		feed:  NewFeed(),
		locks: &sync.Map{},
		clock: time.Now,
	}
}

// Watch registers a feed watcher for the given collections (all when
// empty). The returned stream carries committed mutations in publish
// order; see Mutation.Seq for what that guarantees.
func (s *Store) Watch(collections ...Collection) *Watcher {
	return s.feed.Watch(collections...)
}

// now returns the store-assigned commit timestamp.
func (s *Store) now() time.Time { return s.clock() }

// Now exposes the store clock so callers evaluating time-sensitive rules
// (listing deadlines) agree with the timestamps the store assigns.
func (s *Store) Now() time.Time { return s.clock() }

// SetClock overrides the store clock. Test hook.
func (s *Store) SetClock(clock func() time.Time) { s.clock = clock }

// handle returns the gorm handle for this store: the transaction when
// inside Transact, the root connection otherwise.
func (s *Store) handle(ctx context.Context) *gorm.DB {
	if s.tx != nil {
		return s.tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// Transact runs fn against a transaction-bound Store. Mutations staged by
// fn publish to the feed only after the transaction commits, in the order
// fn staged them. Nested calls join the enclosing transaction.
func (s *Store) Transact(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	var staged []*Mutation
	err := s.db.WithContext(ctx).Transaction(func(g *gorm.DB) error {
		child := &Store{
			db:      s.db,
			feed:    s.feed,
			locks:   s.locks,
			clock:   s.clock,
			tx:      g,
			pending: &staged,
		}
		return fn(child)
	})
	if err != nil {
		return err
	}

	s.feed.publish(staged, s.now())
	return nil
}

// stage records a committed mutation. Inside a transaction it is buffered
// until commit; otherwise it publishes immediately.
func (s *Store) stage(m *Mutation) {
	if s.pending != nil {
		*s.pending = append(*s.pending, m)
		return
	}
	s.feed.publish([]*Mutation{m}, s.now())
}

// lock acquires the per-entity write lock. The returned func releases it.
func (s *Store) lock(c Collection, id string) func() {
	key := string(c) + "/" + id
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// translate maps gorm and postgres driver errors onto the shared error
// taxonomy.
func translate(err error, collection Collection, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &apperror.NotFoundError{Collection: string(collection), ID: id}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign key violation
			return apperror.NewValidation("", "referenced entity does not exist")
		case "23505": // unique violation
			return apperror.NewValidation("", "entity already exists")
		}
	}
	return err
}
