package models

import "time"

// PaperStatusHistory records every lifecycle status change of a paper,
// including the repeated under_review transitions applied on re-assignment.
type PaperStatusHistory struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	PaperID   int       `gorm:"column:paperId" json:"paper_id"`
	OldStatus *string   `gorm:"column:oldStatus" json:"old_status"`
	NewStatus string    `gorm:"column:newStatus" json:"new_status"`
	ChangedBy int       `gorm:"column:changedBy" json:"changed_by"`
	Note      *string   `gorm:"column:note" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"created_at"`
}

// TableName overrides
func (PaperStatusHistory) TableName() string {
	return "paper_status_history"
}
