package watch

import (
	"context"
	"os"
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

var (
	testStore *store.Store
	testSync  *Synchronizer
)

func TestMain(m *testing.M) {
	teardown, db, err := database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	testStore = store.New(db)
	testSync = New(testStore, logger.NewDefault())

	runCtx, stopRun := context.WithCancel(context.Background())
	go testSync.Run(runCtx)

	code := m.Run()

	stopRun()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
	os.Exit(code)
}

func newActiveJob(title string) *model.JobListing {
	return &model.JobListing{
		EditableJobInfo: model.EditableJobInfo{
			Title:          title,
			Department:     "Engineering",
			Location:       "Remote",
			EmploymentType: model.EmploymentFullTime,
			Description:    "watch test listing",
		},
		Status:    model.JobStatusActive,
		CreatedBy: database.TestHRActor.ID.String(),
	}
}

func receiveDelta(t *testing.T, sub *Subscription) *Delta {
	t.Helper()
	select {
	case d, ok := <-sub.C():
		require.True(t, ok, "subscription closed unexpectedly")
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delta")
		return nil
	}
}

func TestSubscribe_snapshotFirst(t *testing.T) {
	ctx := context.Background()
	sub, err := testSync.Subscribe(ctx, store.CollectionApplications, ApplicationsForJob(database.TestJobOpen.ID))
	require.NoError(t, err)
	defer sub.Close()

	snap := receiveDelta(t, sub)
	require.Equal(t, DeltaSnapshot, snap.Type)

	found := false
	for _, e := range snap.Entities {
		app, ok := e.(*model.Application)
		require.True(t, ok)
		assert.Equal(t, database.TestJobOpen.ID, app.JobID)
		if app.ID == database.TestApplication.ID {
			found = true
		}
	}
	assert.True(t, found, "seeded application missing from snapshot")
}

func TestSubscribe_addedDeltaAfterCommit(t *testing.T) {
	ctx := context.Background()
	sub, err := testSync.Subscribe(ctx, store.CollectionJobs, JobsWithStatus(model.JobStatusActive))
	require.NoError(t, err)
	defer sub.Close()

	snap := receiveDelta(t, sub)
	require.Equal(t, DeltaSnapshot, snap.Type)

	job := newActiveJob("Live Board Engineer")
	require.NoError(t, testStore.CreateJob(ctx, job))

	added := receiveDelta(t, sub)
	assert.Equal(t, DeltaAdded, added.Type)
	assert.Equal(t, job.ID.String(), added.EntityID)
	assert.NotZero(t, added.Seq)
}

func TestSubscribe_predicateMissBecomesRemoved(t *testing.T) {
	ctx := context.Background()
	job := newActiveJob("Soon Closed Engineer")
	require.NoError(t, testStore.CreateJob(ctx, job))

	sub, err := testSync.Subscribe(ctx, store.CollectionJobs, JobsWithStatus(model.JobStatusActive))
	require.NoError(t, err)
	defer sub.Close()
	require.Equal(t, DeltaSnapshot, receiveDelta(t, sub).Type)

	// Closing the listing makes it fail the predicate: the consumer sees
	// it leave the view, not a modification.
	_, err = testStore.MutateJob(ctx, job.ID, func(tx *store.Store, j *model.JobListing) error {
		j.Status = model.JobStatusClosed
		return nil
	})
	require.NoError(t, err)

	removed := receiveDelta(t, sub)
	assert.Equal(t, DeltaRemoved, removed.Type)
	assert.Equal(t, job.ID.String(), removed.EntityID)
}

func TestSubscribe_modifiedDeltaForMatchingEntity(t *testing.T) {
	ctx := context.Background()
	job := newActiveJob("Renamed Engineer")
	require.NoError(t, testStore.CreateJob(ctx, job))

	sub, err := testSync.Subscribe(ctx, store.CollectionJobs, JobsWithStatus(model.JobStatusActive))
	require.NoError(t, err)
	defer sub.Close()
	require.Equal(t, DeltaSnapshot, receiveDelta(t, sub).Type)

	_, err = testStore.UpdateJob(ctx, job.ID, &model.EditableJobInfo{Title: "Renamed Engineer II"})
	require.NoError(t, err)

	modified := receiveDelta(t, sub)
	assert.Equal(t, DeltaModified, modified.Type)
	assert.Equal(t, job.ID.String(), modified.EntityID)
	entity, ok := modified.Entity.(*model.JobListing)
	require.True(t, ok)
	assert.Equal(t, "Renamed Engineer II", entity.Title)
}

func newSubmission(applicantID *uuid.UUID, email string) *model.Application {
	return &model.Application{
		ApplicantName:  "Watch Applicant",
		ApplicantEmail: email,
		JobID:          database.TestJobOpen.ID,
		JobTitle:       database.TestJobOpen.Title,
		Department:     database.TestJobOpen.Department,
		Status:         model.StatusSubmitted,
		Stage:          model.StageInitialReview,
		CoverLetter:    "watch test application",
		CreatedBy:      model.PublicActor,
		ApplicantID:    applicantID,
	}
}

func TestSubscribe_applicantFilterNeverLeaks(t *testing.T) {
	ctx := context.Background()
	applicantID := uuid.New()
	otherID := uuid.New()

	sub, err := testSync.Subscribe(ctx, store.CollectionApplications, ApplicationsOfApplicant(applicantID))
	require.NoError(t, err)
	defer sub.Close()

	snap := receiveDelta(t, sub)
	require.Equal(t, DeltaSnapshot, snap.Type)
	assert.Empty(t, snap.Entities)

	// Interleave the applicant's own submissions with another applicant's
	// and an anonymous one; only the two matching applications may arrive.
	mine := newSubmission(&applicantID, "mine@example.com")
	require.NoError(t, testStore.CreateApplication(ctx, mine))

	theirs := newSubmission(&otherID, "theirs@example.com")
	require.NoError(t, testStore.CreateApplication(ctx, theirs))

	anonymous := newSubmission(nil, "anonymous@example.com")
	require.NoError(t, testStore.CreateApplication(ctx, anonymous))

	mineAgain := newSubmission(&applicantID, "mine@example.com")
	require.NoError(t, testStore.CreateApplication(ctx, mineAgain))

	first := receiveDelta(t, sub)
	second := receiveDelta(t, sub)
	assert.Equal(t, DeltaAdded, first.Type)
	assert.Equal(t, mine.ID.String(), first.EntityID)
	assert.Equal(t, DeltaAdded, second.Type)
	assert.Equal(t, mineAgain.ID.String(), second.EntityID)

	for _, d := range []*Delta{first, second} {
		app, ok := d.Entity.(*model.Application)
		require.True(t, ok)
		require.NotNil(t, app.ApplicantID)
		assert.Equal(t, applicantID, *app.ApplicantID)
	}
}

func TestSubscribe_twoConsumersSeeSameOrder(t *testing.T) {
	ctx := context.Background()

	subA, err := testSync.Subscribe(ctx, store.CollectionJobs, nil)
	require.NoError(t, err)
	defer subA.Close()
	subB, err := testSync.Subscribe(ctx, store.CollectionJobs, nil)
	require.NoError(t, err)
	defer subB.Close()

	require.Equal(t, DeltaSnapshot, receiveDelta(t, subA).Type)
	require.Equal(t, DeltaSnapshot, receiveDelta(t, subB).Type)

	first := newActiveJob("Order Engineer A")
	second := newActiveJob("Order Engineer B")
	require.NoError(t, testStore.CreateJob(ctx, first))
	require.NoError(t, testStore.CreateJob(ctx, second))

	a1, a2 := receiveDelta(t, subA), receiveDelta(t, subA)
	b1, b2 := receiveDelta(t, subB), receiveDelta(t, subB)

	assert.Equal(t, first.ID.String(), a1.EntityID)
	assert.Equal(t, second.ID.String(), a2.EntityID)
	assert.Equal(t, a1.EntityID, b1.EntityID)
	assert.Equal(t, a2.EntityID, b2.EntityID)
	assert.Equal(t, a1.Seq, b1.Seq)
	assert.Equal(t, a2.Seq, b2.Seq)
	assert.Less(t, a1.Seq, a2.Seq)
}

func TestSubscribe_slowConsumerDisconnected(t *testing.T) {
	// Drive dispatch directly against a synchronizer that is not
	// consuming the store feed, so the buffer can be filled without
	// hundreds of database commits.
	idle := New(testStore, logger.NewDefault())

	sub, err := idle.Subscribe(context.Background(), store.CollectionJobs, nil)
	require.NoError(t, err)

	require.Equal(t, 1, idle.SubscriberCount())

	for i := 0; i < DefaultBufferSize+1; i++ {
		job := newActiveJob("Flood Engineer")
		job.ID = uuid.New()
		idle.dispatch(&store.Mutation{
			Seq:        uint64(i + 1),
			Collection: store.CollectionJobs,
			Op:         store.OpAdded,
			EntityID:   job.ID.String(),
			Entity:     job,
		})
	}

	assert.Equal(t, 0, idle.SubscriberCount())

	// The channel drains whatever was buffered, then closes with the
	// slow-consumer error.
	for range sub.C() {
	}
	assert.ErrorIs(t, sub.Err(), ErrSlowConsumer)
}

func TestSubscription_closeIsClean(t *testing.T) {
	sub, err := testSync.Subscribe(context.Background(), store.CollectionNotifications, nil)
	require.NoError(t, err)

	sub.Close()
	sub.Close() // safe to repeat

	for range sub.C() {
	}
	assert.NoError(t, sub.Err())
}
