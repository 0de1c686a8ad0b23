package store

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collection names the persisted entity sets.
type Collection string

const (
	CollectionJobs          Collection = "jobs"
	CollectionApplications  Collection = "applications"
	CollectionNotifications Collection = "notifications"
)

// Op is the kind of committed mutation.
type Op string

const (
	OpAdded    Op = "added"
	OpModified Op = "modified"
	OpRemoved  Op = "removed"
)

// Mutation describes one committed write. Entity carries the post-commit
// snapshot (for removed ops, the last snapshot before deletion). Seq is a
// store-wide monotonic sequence assigned under the feed lock at publish
// time: it is the canonical stream order every watcher sees. The per-id
// write locks keep it aligned with commit order for any single entity;
// transactions on different entities may publish in either order.
type Mutation struct {
	Seq         uint64
	Collection  Collection
	Op          Op
	EntityID    string
	Entity      interface{}
	CommittedAt time.Time
}

// feedBufferSize is the per-watcher mutation buffer. A watcher that falls
// this far behind is closed rather than allowed to block writers.
const feedBufferSize = 4096

// Feed multiplexes committed mutations to watchers in publish order.
type Feed struct {
	mu     sync.Mutex
	seq    uint64
	nextID int
	subs   map[int]*Watcher
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*Watcher)}
}

// Watcher is one consumer of the mutation stream.
type Watcher struct {
	id          int
	feed        *Feed
	ch          chan *Mutation
	collections map[Collection]struct{}
	closed      atomic.Bool
	overflowed  atomic.Bool
}

// C returns the ordered mutation channel. It is closed when the watcher
// is closed or falls too far behind.
func (w *Watcher) C() <-chan *Mutation { return w.ch }

// Overflowed reports whether the watcher was closed for lagging.
func (w *Watcher) Overflowed() bool { return w.overflowed.Load() }

// Close detaches the watcher from the feed. Safe to call at any time and
// more than once.
func (w *Watcher) Close() {
	w.feed.remove(w.id)
}

// Watch registers a watcher for the given collections. No collections
// means every collection.
func (f *Feed) Watch(collections ...Collection) *Watcher {
	w := &Watcher{
		feed: f,
		ch:   make(chan *Mutation, feedBufferSize),
	}
	if len(collections) > 0 {
		w.collections = make(map[Collection]struct{}, len(collections))
		for _, c := range collections {
			w.collections[c] = struct{}{}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w.id = f.nextID
	f.subs[w.id] = w
	return w
}

// publish assigns sequence numbers under the feed lock and fans the batch
// out to all watchers. A watcher whose buffer is full is dropped.
func (f *Feed) publish(batch []*Mutation, committedAt time.Time) {
	if len(batch) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range batch {
		f.seq++
		m.Seq = f.seq
		if m.CommittedAt.IsZero() {
			m.CommittedAt = committedAt
		}

		for id, w := range f.subs {
			if w.collections != nil {
				if _, ok := w.collections[m.Collection]; !ok {
					continue
				}
			}
			select {
			case w.ch <- m:
			default:
				w.overflowed.Store(true)
				f.dropLocked(id, w)
			}
		}
	}
}

func (f *Feed) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.subs[id]; ok {
		f.dropLocked(id, w)
	}
}

func (f *Feed) dropLocked(id int, w *Watcher) {
	delete(f.subs, id)
	if w.closed.CompareAndSwap(false, true) {
		close(w.ch)
	}
}
