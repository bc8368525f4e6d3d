package models

import "time"

// Email outbox statuses.
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// EmailOutbox is a durable notification intent. Rows are written inside the
// same transaction as the workflow mutation they announce and dispatched by
// the outbox worker, so a crashed process never loses a queued email and a
// failed send never fails the originating request.
type EmailOutbox struct {
	ID            string     `gorm:"primaryKey;column:id;size:36" json:"id"`
	Recipient     string     `gorm:"column:recipient" json:"recipient"`
	Subject       string     `gorm:"column:subject" json:"subject"`
	Body          string     `gorm:"column:body;type:mediumtext" json:"-"`
	Status        string     `gorm:"column:status;default:pending;index" json:"status"`
	Attempts      int        `gorm:"column:attempts" json:"attempts"`
	LastError     *string    `gorm:"column:lastError" json:"last_error,omitempty"`
	NextAttemptAt time.Time  `gorm:"column:nextAttemptAt;index" json:"next_attempt_at"`
	CreatedAt     time.Time  `gorm:"column:createdAt" json:"created_at"`
	SentAt        *time.Time `gorm:"column:sentAt" json:"sent_at,omitempty"`
}

// TableName overrides
func (EmailOutbox) TableName() string {
	return "email_outbox"
}
