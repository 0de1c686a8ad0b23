package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"talenttrack-backend/internal/identity"
	m "talenttrack-backend/internal/model"
)

var testDBInstance *Instance
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test actors & seeded listings
var (
	TestHRActor        identity.Actor
	TestApplicantActor identity.Actor

	TestJobOpen     m.JobListing // active, deadline in the future
	TestJobExpired  m.JobListing // active, deadline in the past
	TestJobDraft    m.JobListing
	TestJobClosed   m.JobListing
	TestApplication m.Application // submitted against TestJobOpen
)

// GetTestDB starts a PostgreSQL test container and returns a teardown
// function, the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *Instance, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	identity.SetTestSecret("test-secret")

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample job listings and one application if empty.
func seedTestData(db *Instance) error {
	TestHRActor = identity.Actor{
		ID:    uuid.New(),
		Email: "hr@example.com",
		Role:  identity.RoleHR,
	}
	TestApplicantActor = identity.Actor{
		ID:    uuid.New(),
		Email: "applicant@example.com",
		Role:  identity.RoleApplicant,
	}

	var jobCount int64
	if err := db.Model(&m.JobListing{}).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount > 0 {
		return loadTestData(db)
	}

	future := time.Now().AddDate(0, 1, 0)
	past := time.Now().AddDate(0, -1, 0)

	jobs := []m.JobListing{
		{
			ID: uuid.New(),
			EditableJobInfo: m.EditableJobInfo{
				Title:            "Backend Engineer",
				Department:       "Engineering",
				Location:         "Nairobi (Hybrid)",
				EmploymentType:   m.EmploymentFullTime,
				SalaryRange:      "90k-120k",
				Description:      "Build and operate the hiring platform services.",
				Requirements:     pq.StringArray{"Go", "SQL"},
				Responsibilities: pq.StringArray{"Own services end to end"},
				Benefits:         pq.StringArray{"Health cover"},
				Deadline:         &future,
			},
			Status:    m.JobStatusActive,
			PostedAt:  time.Now(),
			CreatedBy: TestHRActor.ID.String(),
		},
		{
			ID: uuid.New(),
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Data Analyst",
				Department:     "Analytics",
				Location:       "Remote",
				EmploymentType: m.EmploymentContract,
				SalaryRange:    "negotiable",
				Description:    "Dashboarding and reporting.",
				Requirements:   pq.StringArray{"SQL", "statistics"},
				Deadline:       &past,
			},
			Status:    m.JobStatusActive,
			PostedAt:  time.Now(),
			CreatedBy: TestHRActor.ID.String(),
		},
		{
			ID: uuid.New(),
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Product Designer",
				Department:     "Design",
				Location:       "Mombasa (On-site)",
				EmploymentType: m.EmploymentPartTime,
				SalaryRange:    "40k-60k",
				Description:    "Design review flows.",
			},
			Status:    m.JobStatusDraft,
			PostedAt:  time.Now(),
			CreatedBy: TestHRActor.ID.String(),
		},
		{
			ID: uuid.New(),
			EditableJobInfo: m.EditableJobInfo{
				Title:          "Office Manager",
				Department:     "Operations",
				Location:       "Nairobi",
				EmploymentType: m.EmploymentFullTime,
				SalaryRange:    "50k-70k",
				Description:    "Keep the office running.",
			},
			Status:    m.JobStatusClosed,
			PostedAt:  time.Now(),
			CreatedBy: TestHRActor.ID.String(),
		},
	}

	if err := db.Create(&jobs).Error; err != nil {
		return err
	}

	TestJobOpen = jobs[0]
	TestJobExpired = jobs[1]
	TestJobDraft = jobs[2]
	TestJobClosed = jobs[3]

	applicantID := TestApplicantActor.ID
	application := m.Application{
		ID:             uuid.New(),
		ApplicantName:  "Alice Wanjiku",
		ApplicantEmail: TestApplicantActor.Email,
		JobID:          TestJobOpen.ID,
		JobTitle:       TestJobOpen.Title,
		Department:     TestJobOpen.Department,
		Status:         m.StatusSubmitted,
		Stage:          m.StageInitialReview,
		SubmittedAt:    time.Now(),
		LastUpdated:    time.Now(),
		CoverLetter:    "I am interested",
		CreatedBy:      TestApplicantActor.ID.String(),
		ApplicantID:    &applicantID,
	}
	if err := db.Create(&application).Error; err != nil {
		return err
	}
	TestApplication = application

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *Instance) error {
	var jobs []m.JobListing
	if err := db.Order("posted_at ASC").Limit(4).Find(&jobs).Error; err != nil {
		return err
	}
	for _, j := range jobs {
		switch {
		case j.Status == m.JobStatusDraft:
			TestJobDraft = j
		case j.Status == m.JobStatusClosed:
			TestJobClosed = j
		case j.Deadline != nil && j.Deadline.Before(time.Now()):
			TestJobExpired = j
		default:
			TestJobOpen = j
		}
	}

	if err := db.Where("job_id = ?", TestJobOpen.ID).First(&TestApplication).Error; err != nil {
		return err
	}
	if TestApplication.ApplicantID != nil {
		TestApplicantActor.ID = *TestApplication.ApplicantID
	}
	if id, err := uuid.Parse(TestJobOpen.CreatedBy); err == nil {
		TestHRActor.ID = id
	}
	return nil
}
