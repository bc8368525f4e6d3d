package models

import "time"

// Review statuses are the paper lifecycle statuses minus "submitted".
func ValidReviewStatus(status string) bool {
	return ValidPaperStatus(status) && status != PaperStatusSubmitted
}

// PaperReview is a reviewer's verdict for one paper. One row per
// (paperId, reviewerId), refreshed in place on resubmission.
type PaperReview struct {
	ID         int       `gorm:"primaryKey;column:id" json:"id"`
	PaperID    int       `gorm:"column:paperId;uniqueIndex:unique_review" json:"paper_id"`
	ReviewerID int       `gorm:"column:reviewerId;uniqueIndex:unique_review" json:"reviewer_id"`
	Status     string    `gorm:"column:status" json:"status"`
	Comments   *string   `gorm:"column:comments" json:"comments,omitempty"`
	ReviewedAt time.Time `gorm:"column:reviewedAt" json:"reviewed_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName overrides
func (PaperReview) TableName() string {
	return "paper_reviews"
}
