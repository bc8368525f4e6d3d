package models

import "time"

// Support ticket statuses.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// ValidTicketStatus reports whether status is a known ticket status.
func ValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

type SupportTicket struct {
	ID          int       `gorm:"primaryKey;column:id" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Priority    string    `gorm:"column:priority;default:medium" json:"priority"`
	Status      string    `gorm:"column:status;default:open" json:"status"`
	UserID      *int      `gorm:"column:userId" json:"user_id,omitempty"`
	AssignedTo  *int      `gorm:"column:assignedTo" json:"assigned_to,omitempty"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updatedAt" json:"updated_at"`

	User       *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Technician *User `gorm:"foreignKey:AssignedTo" json:"technician,omitempty"`
}

// TableName overrides
func (SupportTicket) TableName() string {
	return "support_tickets"
}
