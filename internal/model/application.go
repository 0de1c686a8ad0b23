package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Application statuses. Rejected and hired are terminal.
const (
	StatusSubmitted          = "submitted"
	StatusUnderReview        = "under-review"
	StatusShortlisted        = "shortlisted"
	StatusInterviewScheduled = "interview-scheduled"
	StatusRejected           = "rejected"
	StatusHired              = "hired"
)

// Review stages. The stage is an advisory sub-classification independent
// of status.
const (
	StageInitialReview   = "initial-review"
	StageTechnicalReview = "technical-review"
	StageInterview       = "interview"
	StageFinalDecision   = "final-decision"
)

// PublicActor is the createdBy sentinel for unauthenticated public
// submissions.
const PublicActor = "public"

// Application is the gorm model for a job application. JobTitle and
// Department are denormalized copies taken at submission time so the
// applicant's view stays stable even if the listing is later edited; they
// are intentionally never re-synced. Applications are never deleted, only
// their status changes.
type Application struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;<-:create" json:"id"`
	ApplicantName  string    `gorm:"type:text;not null" json:"applicant_name"`
	ApplicantEmail string    `gorm:"type:text;not null" json:"applicant_email"`
	ApplicantPhone string    `gorm:"type:text" json:"applicant_phone,omitempty"`

	JobID      uuid.UUID  `gorm:"type:uuid;not null;index;<-:create" json:"job_id"`
	Job        JobListing `gorm:"foreignKey:JobID;references:ID" json:"-"`
	JobTitle   string     `gorm:"type:text;<-:create" json:"job_title"`
	Department string     `gorm:"type:text;<-:create" json:"department"`

	Status      string    `gorm:"type:text;not null;index" json:"status"`
	Stage       string    `gorm:"type:text;not null" json:"stage"`
	SubmittedAt time.Time `gorm:"type:timestamp;<-:create" json:"submitted_at"`
	LastUpdated time.Time `gorm:"type:timestamp" json:"last_updated"`

	CoverLetter string         `gorm:"type:text;not null" json:"cover_letter"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
	Attachments pq.StringArray `gorm:"type:text[]" json:"attachments"`

	CreatedBy   string     `gorm:"type:text;<-:create" json:"created_by"`
	ApplicantID *uuid.UUID `gorm:"type:uuid;index" json:"applicant_id,omitempty"`
}

// ValidStatus reports whether s is one of the six status enum values.
func ValidStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusShortlisted,
		StatusInterviewScheduled, StatusRejected, StatusHired:
		return true
	}
	return false
}

// TerminalStatus reports whether s permits no further transition.
func TerminalStatus(s string) bool {
	return s == StatusRejected || s == StatusHired
}

// DefaultStage returns the stage applied when a transition does not set
// one explicitly.
func DefaultStage(status string) string {
	switch status {
	case StatusSubmitted, StatusUnderReview:
		return StageInitialReview
	case StatusShortlisted:
		return StageTechnicalReview
	case StatusInterviewScheduled:
		return StageInterview
	case StatusRejected, StatusHired:
		return StageFinalDecision
	}
	return StageInitialReview
}

// ValidStage reports whether s is one of the stage enum values.
func ValidStage(s string) bool {
	switch s {
	case StageInitialReview, StageTechnicalReview, StageInterview, StageFinalDecision:
		return true
	}
	return false
}
