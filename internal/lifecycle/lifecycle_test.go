package lifecycle

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenttrack-backend/internal/apperror"
	"talenttrack-backend/internal/database"
	"talenttrack-backend/internal/logger"
	"talenttrack-backend/internal/model"
	"talenttrack-backend/internal/store"
	"talenttrack-backend/internal/upload"
)

var (
	testStore   *store.Store
	testStorage *upload.MemoryStorage
	testService *Service
)

func TestMain(m *testing.M) {
	teardown, db, err := database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	testStore = store.New(db)
	testStorage = upload.NewMemoryStorage()
	testService = NewService(testStore, testStorage, upload.Rules{
		AllowedExtensions: []string{".pdf", ".docx"},
		MaxFileSize:       1 << 20,
		MaxFiles:          2,
	}, logger.NewDefault())

	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
	os.Exit(code)
}

func validSubmission(jobID uuid.UUID) SubmitRequest {
	return SubmitRequest{
		JobID:          jobID,
		ApplicantName:  "Brian Otieno",
		ApplicantEmail: "brian@example.com",
		ApplicantPhone: "+254700000000",
		CoverLetter:    "I would like to apply.",
	}
}

// intentsFor returns the recorded intents whose metadata references the
// given application.
func intentsFor(t *testing.T, applicationID uuid.UUID) []model.NotificationIntent {
	t.Helper()
	all, err := testStore.ListNotifications(context.Background())
	require.NoError(t, err)

	var matching []model.NotificationIntent
	for _, intent := range all {
		if intent.Metadata["application_id"] == applicationID.String() {
			matching = append(matching, intent)
		}
	}
	return matching
}

func countByCategory(intents []model.NotificationIntent, category string) int {
	n := 0
	for _, intent := range intents {
		if intent.Category == category {
			n++
		}
	}
	return n
}

func TestSubmit_success(t *testing.T) {
	ctx := context.Background()
	req := validSubmission(database.TestJobOpen.ID)
	req.Files = []SubmittedFile{
		{Name: "resume.pdf", Size: 512, Data: bytes.NewReader(bytes.Repeat([]byte("a"), 512))},
	}

	app, err := testService.Submit(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSubmitted, app.Status)
	assert.Equal(t, model.StageInitialReview, app.Stage)
	assert.Equal(t, database.TestJobOpen.Title, app.JobTitle)
	assert.Equal(t, database.TestJobOpen.Department, app.Department)
	assert.Equal(t, model.PublicActor, app.CreatedBy)
	assert.Nil(t, app.ApplicantID)
	assert.False(t, app.SubmittedAt.IsZero())
	assert.Equal(t, app.SubmittedAt, app.LastUpdated)

	require.Len(t, app.Attachments, 1)
	reader, err := testStorage.Open(ctx, app.Attachments[0])
	require.NoError(t, err)
	reader.Close()

	intents := intentsFor(t, app.ID)
	require.Len(t, intents, 1)
	assert.Equal(t, model.CategoryApplicationReceived, intents[0].Category)
	assert.Equal(t, req.ApplicantEmail, intents[0].Recipient)
	assert.Equal(t, model.DeliveryPending, intents[0].DeliveryStatus)
	assert.Equal(t, database.TestJobOpen.ID.String(), intents[0].Metadata["job_id"])
}

func TestSubmit_linkedToAuthenticatedApplicant(t *testing.T) {
	req := validSubmission(database.TestJobOpen.ID)
	actor := database.TestApplicantActor
	req.Actor = &actor

	app, err := testService.Submit(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, app.ApplicantID)
	assert.Equal(t, actor.ID, *app.ApplicantID)
	assert.Equal(t, actor.Email, app.CreatedBy)
}

func TestSubmit_missingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitRequest)
	}{
		{"empty name", func(r *SubmitRequest) { r.ApplicantName = "  " }},
		{"empty email", func(r *SubmitRequest) { r.ApplicantEmail = "" }},
		{"malformed email", func(r *SubmitRequest) { r.ApplicantEmail = "not-an-email" }},
		{"empty cover letter", func(r *SubmitRequest) { r.CoverLetter = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmission(database.TestJobOpen.ID)
			tc.mutate(&req)

			_, err := testService.Submit(context.Background(), req)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestSubmit_jobUnavailable(t *testing.T) {
	cases := []struct {
		name  string
		jobID uuid.UUID
	}{
		{"missing listing", uuid.New()},
		{"deadline passed", database.TestJobExpired.ID},
		{"draft listing", database.TestJobDraft.ID},
		{"closed listing", database.TestJobClosed.ID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testService.Submit(context.Background(), validSubmission(tc.jobID))

			var unavailable *apperror.JobUnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, tc.jobID.String(), unavailable.JobID)
		})
	}
}

func TestSubmit_rejectedAttachmentBlocksWholeSubmission(t *testing.T) {
	ctx := context.Background()
	storedBefore := testStorage.Len()

	req := validSubmission(database.TestJobOpen.ID)
	req.ApplicantEmail = "rejected-batch@example.com"
	req.Files = []SubmittedFile{
		{Name: "resume.pdf", Size: 512, Data: bytes.NewReader([]byte("ok"))},
		{Name: "virus.exe", Size: 512, Data: bytes.NewReader([]byte("no"))},
	}

	_, err := testService.Submit(ctx, req)
	assert.True(t, apperror.IsValidation(err))

	// Partial acceptance is not permitted: nothing was stored and no
	// application was written.
	assert.Equal(t, storedBefore, testStorage.Len())
	apps, listErr := testStore.ListApplications(ctx)
	require.NoError(t, listErr)
	for _, app := range apps {
		assert.NotEqual(t, "rejected-batch@example.com", app.ApplicantEmail)
	}
}

func TestSubmit_tooManyFiles(t *testing.T) {
	req := validSubmission(database.TestJobOpen.ID)
	for i := 0; i < 3; i++ {
		req.Files = append(req.Files, SubmittedFile{
			Name: "resume.pdf", Size: 10, Data: bytes.NewReader([]byte("x")),
		})
	}

	_, err := testService.Submit(context.Background(), req)
	assert.True(t, apperror.IsValidation(err))
}

func TestTransition_appliesDefaultStageAndEmitsOneIntent(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	updated, err := testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusShortlisted,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusShortlisted, updated.Status)
	assert.Equal(t, model.StageTechnicalReview, updated.Stage)
	assert.True(t, updated.LastUpdated.After(app.LastUpdated))

	intents := intentsFor(t, app.ID)
	assert.Equal(t, 1, countByCategory(intents, model.CategoryStatusUpdate))
}

func TestTransition_sameStatusIsQuietNoOp(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	before := intentsFor(t, app.ID)

	updated, err := testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusSubmitted,
	})
	require.NoError(t, err)

	// The write still happened, but no notification was recorded.
	assert.True(t, updated.LastUpdated.After(app.LastUpdated))
	assert.Len(t, intentsFor(t, app.ID), len(before))
}

func TestTransition_explicitStageWins(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	updated, err := testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusUnderReview,
		Stage:         model.StageTechnicalReview,
		Notes:         "fast-tracked",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StageTechnicalReview, updated.Stage)
	assert.Equal(t, "fast-tracked", updated.Notes)
}

func TestTransition_terminalStatusIsImmutable(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusRejected,
	})
	require.NoError(t, err)

	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusHired,
	})
	var terminal *apperror.TerminalStateError
	require.ErrorAs(t, err, &terminal)
	assert.Equal(t, model.StatusRejected, terminal.Status)

	// Status is untouched by the refused transition.
	got, err := testStore.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Equal(t, model.StageFinalDecision, got.Stage)

	// Re-asserting the terminal status itself is still a permitted no-op.
	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusRejected,
	})
	assert.NoError(t, err)
}

func TestTransition_validation(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     "promoted",
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusUnderReview,
		Stage:         "vibes-check",
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: uuid.New(),
		NewStatus:     model.StatusUnderReview,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestTransition_requiresHRRole(t *testing.T) {
	_, err := testService.Transition(context.Background(), database.TestApplicantActor, TransitionRequest{
		ApplicationID: database.TestApplication.ID,
		NewStatus:     model.StatusUnderReview,
	})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestScheduleInterview_emitsBothIntentsOnFirstSchedule(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	slot := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	updated, err := testService.ScheduleInterview(ctx, database.TestHRActor, app.ID, slot, "HQ, Room 4")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInterviewScheduled, updated.Status)
	assert.Equal(t, model.StageInterview, updated.Stage)

	intents := intentsFor(t, app.ID)
	assert.Equal(t, 1, countByCategory(intents, model.CategoryStatusUpdate))
	assert.Equal(t, 1, countByCategory(intents, model.CategoryInterviewScheduled))

	for _, intent := range intents {
		if intent.Category == model.CategoryInterviewScheduled {
			assert.Equal(t, slot.Format(time.RFC3339), intent.Metadata["scheduled_at"])
			assert.Equal(t, "HQ, Room 4", intent.Metadata["location"])
		}
	}
}

func TestScheduleInterview_rescheduleEmitsOnlyInterviewIntent(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	first := time.Now().Add(24 * time.Hour)
	_, err = testService.ScheduleInterview(ctx, database.TestHRActor, app.ID, first, "HQ")
	require.NoError(t, err)

	second := time.Now().Add(48 * time.Hour)
	_, err = testService.ScheduleInterview(ctx, database.TestHRActor, app.ID, second, "Video call")
	require.NoError(t, err)

	intents := intentsFor(t, app.ID)
	assert.Equal(t, 1, countByCategory(intents, model.CategoryStatusUpdate))
	assert.Equal(t, 2, countByCategory(intents, model.CategoryInterviewScheduled))
}

func TestScheduleInterview_terminalRejected(t *testing.T) {
	ctx := context.Background()
	app, err := testService.Submit(ctx, validSubmission(database.TestJobOpen.ID))
	require.NoError(t, err)

	_, err = testService.Transition(ctx, database.TestHRActor, TransitionRequest{
		ApplicationID: app.ID,
		NewStatus:     model.StatusHired,
	})
	require.NoError(t, err)

	_, err = testService.ScheduleInterview(ctx, database.TestHRActor, app.ID, time.Now().Add(time.Hour), "HQ")
	var terminal *apperror.TerminalStateError
	assert.ErrorAs(t, err, &terminal)
}

func TestPostJob_activateRecordsIntent(t *testing.T) {
	ctx := context.Background()
	job, err := testService.PostJob(ctx, database.TestHRActor, model.EditableJobInfo{
		Title:          "Platform Engineer",
		Department:     "Engineering",
		Location:       "Remote",
		EmploymentType: model.EmploymentFullTime,
	}, true)
	require.NoError(t, err)

	assert.Equal(t, model.JobStatusActive, job.Status)
	assert.Equal(t, database.TestHRActor.ID.String(), job.CreatedBy)

	all, err := testStore.ListNotifications(ctx)
	require.NoError(t, err)
	posted := 0
	for _, intent := range all {
		if intent.Metadata["job_id"] == job.ID.String() && intent.Category == model.CategoryJobPosted {
			posted++
			assert.Equal(t, database.TestHRActor.Email, intent.Recipient)
		}
	}
	assert.Equal(t, 1, posted)
}

func TestPostJob_draftDefersIntentToActivation(t *testing.T) {
	ctx := context.Background()
	job, err := testService.PostJob(ctx, database.TestHRActor, model.EditableJobInfo{
		Title:          "QA Engineer",
		Department:     "Engineering",
		EmploymentType: model.EmploymentContract,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusDraft, job.Status)
	assert.Equal(t, 0, jobPostedCount(t, job.ID))

	_, err = testService.ActivateJob(ctx, database.TestHRActor, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, jobPostedCount(t, job.ID))

	// Activating an already active listing does not announce it again.
	_, err = testService.ActivateJob(ctx, database.TestHRActor, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, jobPostedCount(t, job.ID))
}

func TestCloseJob_stopsSubmissions(t *testing.T) {
	ctx := context.Background()
	job, err := testService.PostJob(ctx, database.TestHRActor, model.EditableJobInfo{
		Title:          "Short Lived Role",
		Department:     "Operations",
		EmploymentType: model.EmploymentPartTime,
	}, true)
	require.NoError(t, err)

	closed, err := testService.CloseJob(ctx, database.TestHRActor, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusClosed, closed.Status)

	_, err = testService.Submit(ctx, validSubmission(job.ID))
	var unavailable *apperror.JobUnavailableError
	assert.ErrorAs(t, err, &unavailable)

	// Closed is final for a listing.
	_, err = testService.ActivateJob(ctx, database.TestHRActor, job.ID)
	assert.True(t, apperror.IsValidation(err))
}

func TestPostJob_validationAndAuthorization(t *testing.T) {
	ctx := context.Background()

	_, err := testService.PostJob(ctx, database.TestApplicantActor, model.EditableJobInfo{
		Title:          "Sneaky Role",
		Department:     "Engineering",
		EmploymentType: model.EmploymentFullTime,
	}, true)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = testService.PostJob(ctx, database.TestHRActor, model.EditableJobInfo{
		Department:     "Engineering",
		EmploymentType: model.EmploymentFullTime,
	}, true)
	assert.True(t, apperror.IsValidation(err))

	_, err = testService.PostJob(ctx, database.TestHRActor, model.EditableJobInfo{
		Title:          "Gig Role",
		Department:     "Engineering",
		EmploymentType: "gig",
	}, true)
	assert.True(t, apperror.IsValidation(err))
}

func TestEditJob_rejectsUnknownEmploymentType(t *testing.T) {
	_, err := testService.EditJob(context.Background(), database.TestHRActor, database.TestJobOpen.ID, model.EditableJobInfo{
		EmploymentType: "gig",
	})
	assert.True(t, apperror.IsValidation(err))
}

func jobPostedCount(t *testing.T, jobID uuid.UUID) int {
	t.Helper()
	all, err := testStore.ListNotifications(context.Background())
	require.NoError(t, err)
	n := 0
	for _, intent := range all {
		if intent.Category == model.CategoryJobPosted && intent.Metadata["job_id"] == jobID.String() {
			n++
		}
	}
	return n
}
