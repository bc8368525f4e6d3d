package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Paper lifecycle statuses stored in registrations.status.
const (
	PaperStatusSubmitted     = "submitted"
	PaperStatusUnderReview   = "under_review"
	PaperStatusAccepted      = "accepted"
	PaperStatusMinorRevision = "accepted_with_minor_revision"
	PaperStatusMajorRevision = "accepted_with_major_revision"
	PaperStatusRejected      = "rejected"
	PaperStatusPublished     = "published"
)

// Final submission statuses stored in registrations.finalSubmissionStatus.
const (
	FinalStatusNotSubmitted = "not_submitted"
	FinalStatusSubmitted    = "submitted"
	FinalStatusApproved     = "approved"
	FinalStatusRejected     = "rejected"
)

// Author is one entry of the registrations.authors JSON column.
type Author struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

type Registration struct {
	ID                    int       `gorm:"primaryKey;column:id" json:"id"`
	UserID                int       `gorm:"column:userId" json:"user_id"`
	PaperTitle            string    `gorm:"column:paperTitle" json:"paper_title"`
	Authors               string    `gorm:"column:authors;type:json" json:"-"`
	AbstractBlob          []byte    `gorm:"column:abstractBlob;type:longblob" json:"-"`
	Email                 string    `gorm:"column:email" json:"email"`
	Tracks                string    `gorm:"column:tracks" json:"tracks"`
	Country               string    `gorm:"column:country" json:"country"`
	State                 string    `gorm:"column:state" json:"state"`
	City                  string    `gorm:"column:city" json:"city"`
	FinalSubmissionStatus string    `gorm:"column:finalSubmissionStatus;default:not_submitted" json:"final_submission_status"`
	Status                string    `gorm:"column:status;default:submitted" json:"status"`
	Comments              *string   `gorm:"column:comments" json:"comments,omitempty"`
	FinalPaperBlob        []byte    `gorm:"column:finalPaperBlob;type:longblob" json:"-"`
	NotificationSent      bool      `gorm:"column:notificationSent" json:"notification_sent"`
	CreatedAt             time.Time `gorm:"column:createdAt" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updatedAt" json:"updated_at"`
}

// TableName overrides
func (Registration) TableName() string {
	return "registrations"
}

// ValidPaperStatus reports whether status is a known lifecycle status.
func ValidPaperStatus(status string) bool {
	switch status {
	case PaperStatusSubmitted, PaperStatusUnderReview, PaperStatusAccepted,
		PaperStatusMinorRevision, PaperStatusMajorRevision,
		PaperStatusRejected, PaperStatusPublished:
		return true
	}
	return false
}

// DecidedStatus reports whether status is a terminal admin decision,
// i.e. anything past submitted/under_review.
func DecidedStatus(status string) bool {
	return ValidPaperStatus(status) &&
		status != PaperStatusSubmitted && status != PaperStatusUnderReview
}

// AuthorList decodes the authors JSON column. A plain comma separated string
// from legacy rows is tolerated and mapped to name-only authors.
func (r *Registration) AuthorList() ([]Author, error) {
	return ParseAuthors(r.Authors)
}

// ParseAuthors decodes an author list from its JSON representation.
func ParseAuthors(raw string) ([]Author, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	var authors []Author
	if err := json.Unmarshal([]byte(trimmed), &authors); err == nil {
		return authors, nil
	}

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("invalid authors payload")
	}

	// Legacy rows stored a bare comma separated name list.
	parts := strings.Split(trimmed, ",")
	authors = make([]Author, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		authors = append(authors, Author{Name: name})
	}
	return authors, nil
}

// EncodeAuthors serializes an author list for the JSON column.
func EncodeAuthors(authors []Author) (string, error) {
	data, err := json.Marshal(authors)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
