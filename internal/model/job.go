package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job listing statuses.
const (
	JobStatusDraft  = "draft"
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

// Employment types accepted on a job listing.
const (
	EmploymentFullTime = "full-time"
	EmploymentPartTime = "part-time"
	EmploymentContract = "contract"
)

// EditableJobInfo is the part of a job listing the managing HR actor can
// change after creation.
type EditableJobInfo struct {
	Title            string         `gorm:"type:text" json:"title"`
	Department       string         `gorm:"type:text" json:"department"`
	Location         string         `gorm:"type:text" json:"location"`
	EmploymentType   string         `gorm:"type:text" json:"employment_type"`
	SalaryRange      string         `gorm:"type:text" json:"salary_range"`
	Description      string         `gorm:"type:text" json:"description"`
	Requirements     pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Responsibilities pq.StringArray `gorm:"type:text[]" json:"responsibilities"`
	Benefits         pq.StringArray `gorm:"type:text[]" json:"benefits"`
	Deadline         *time.Time     `gorm:"type:timestamp" json:"deadline,omitempty"`
}

// JobListing is the gorm model for a posted job. The deadline is advisory
// for filtering only: a listing never auto-closes when it passes, closing
// is an explicit HR action.
type JobListing struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;<-:create" json:"id"`
	EditableJobInfo
	Status    string    `gorm:"type:text;not null;index" json:"status"`
	PostedAt  time.Time `gorm:"type:timestamp" json:"posted_at"`
	CreatedBy string    `gorm:"type:text;<-:create" json:"created_by"`

	Applications []Application `gorm:"foreignKey:JobID;references:ID" json:"-"`
}

// ValidEmploymentType reports whether t is one of the employment type
// enum values.
func ValidEmploymentType(t string) bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract:
		return true
	}
	return false
}

// ValidJobStatus reports whether s is one of the listing status enum
// values.
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusClosed:
		return true
	}
	return false
}

// AcceptsApplications reports whether the listing can receive a new
// submission at the given instant.
func (j *JobListing) AcceptsApplications(now time.Time) bool {
	if j.Status != JobStatusActive {
		return false
	}
	if j.Deadline != nil && !now.Before(*j.Deadline) {
		return false
	}
	return true
}
