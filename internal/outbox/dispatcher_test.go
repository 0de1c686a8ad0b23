package outbox

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenttrack-backend/internal/database"
	"talenttrack-backend/internal/logger"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
)

var testStore *store.Store

func TestMain(m *testing.M) {
	teardown, db, err := database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	testStore = store.New(db)
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
	os.Exit(code)
}

// fakeTransport records every delivery attempt and fails the intents it
// is told to fail.
type fakeTransport struct {
	mu       sync.Mutex
	attempts []uuid.UUID
	failing  map[uuid.UUID]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{failing: make(map[uuid.UUID]bool)}
}

func (t *fakeTransport) Send(_ context.Context, intent *model.NotificationIntent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts = append(t.attempts, intent.ID)
	if t.failing[intent.ID] {
		return errors.New("simulated broker outage")
	}
	return nil
}

func (t *fakeTransport) attemptCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.attempts)
}

func createIntent(t *testing.T, recipient string) *model.NotificationIntent {
	t.Helper()
	intent := &model.NotificationIntent{
		Recipient: recipient,
		Subject:   "dispatcher test",
		Category:  model.CategoryStatusUpdate,
		Metadata:  model.Metadata{"application_id": uuid.NewString()},
	}
	require.NoError(t, testStore.CreateNotification(context.Background(), intent))
	return intent
}

// drainAll clears any pending intents left behind by an earlier test so
// counting assertions start from a clean outbox.
func drainAll(t *testing.T) {
	t.Helper()
	d := NewDispatcher(testStore, newFakeTransport(), time.Second, 1000, logger.NewDefault())
	_, err := d.DrainOnce(context.Background())
	require.NoError(t, err)
}

func TestDrainOnce_marksSentAndFailed(t *testing.T) {
	drainAll(t)
	ctx := context.Background()

	good := createIntent(t, "good@example.com")
	bad := createIntent(t, "bad@example.com")

	transport := newFakeTransport()
	transport.failing[bad.ID] = true
	d := NewDispatcher(testStore, transport, time.Second, 50, logger.NewDefault())

	attempted, err := d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, attempted)

	sent, err := testStore.GetNotification(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliverySent, sent.DeliveryStatus)
	require.NotNil(t, sent.SentAt)

	failed, err := testStore.GetNotification(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryFailed, failed.DeliveryStatus)
	assert.Nil(t, failed.SentAt)
}

func TestDrainOnce_failedIntentsNotRetried(t *testing.T) {
	drainAll(t)
	ctx := context.Background()

	intent := createIntent(t, "flaky@example.com")

	transport := newFakeTransport()
	transport.failing[intent.ID] = true
	d := NewDispatcher(testStore, transport, time.Second, 50, logger.NewDefault())

	attempted, err := d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, attempted)

	// Failed is terminal for the intent; the next cycle sees nothing.
	attempted, err = d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, attempted)
	assert.Equal(t, 1, transport.attemptCount())
}

func TestDrainOnce_respectsBatchSize(t *testing.T) {
	drainAll(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createIntent(t, "batch@example.com")
	}

	transport := newFakeTransport()
	d := NewDispatcher(testStore, transport, time.Second, 2, logger.NewDefault())

	attempted, err := d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, attempted)

	attempted, err = d.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, attempted)
	assert.Equal(t, 3, transport.attemptCount())
}

func TestRun_drainsOnTickerAndStopsOnCancel(t *testing.T) {
	drainAll(t)

	intent := createIntent(t, "ticker@example.com")

	transport := newFakeTransport()
	d := NewDispatcher(testStore, transport, 20*time.Millisecond, 50, logger.NewDefault())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, err := testStore.GetNotification(context.Background(), intent.ID)
		return err == nil && got.DeliveryStatus == model.DeliverySent
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop on cancel")
	}
}

func TestNewDispatcher_appliesDefaults(t *testing.T) {
	d := NewDispatcher(testStore, newFakeTransport(), 0, 0, logger.NewDefault())

	assert.Equal(t, 5*time.Second, d.interval)
	assert.Equal(t, 50, d.batchSize)
}
