package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification intent categories.
const (
	CategoryApplicationReceived = "application-received"
	CategoryStatusUpdate        = "status-update"
	CategoryInterviewScheduled  = "interview-scheduled"
	CategoryJobPosted           = "job-posted"
)

// Notification delivery statuses. Intents move pending->sent or
// pending->failed, only ever by the dispatcher, and are never deleted.
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// Metadata is an opaque key/value bag carrying the identifiers of the
// entity that triggered the intent. Stored as a jsonb column.
type Metadata map[string]string

// Value implements driver.Valuer for gorm.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for gorm.
func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("cannot scan %T into Metadata", src)
}

// NotificationIntent is the gorm model for the outbox. It is created
// exactly once per triggering event by the component performing the
// mutation, inside the same transaction as the entity write.
type NotificationIntent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;<-:create" json:"id"`
	Recipient string    `gorm:"type:text;not null" json:"recipient"`
	Subject   string    `gorm:"type:text" json:"subject"`
	Body      string    `gorm:"type:text" json:"body"`
	Category  string    `gorm:"type:text;not null" json:"category"`

	DeliveryStatus string     `gorm:"type:text;not null;index" json:"delivery_status"`
	CreatedAt      time.Time  `gorm:"type:timestamp" json:"created_at"`
	SentAt         *time.Time `gorm:"type:timestamp" json:"sent_at,omitempty"`

	Metadata Metadata `gorm:"type:jsonb" json:"metadata"`
}

// ValidCategory reports whether c is one of the intent category enum
// values.
func ValidCategory(c string) bool {
	switch c {
	case CategoryApplicationReceived, CategoryStatusUpdate,
		CategoryInterviewScheduled, CategoryJobPosted:
		return true
	}
	return false
}
