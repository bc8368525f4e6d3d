package models

import "time"

// PaperAssignment holds the two reviewer slots of one paper. Exactly one row
// exists per paper once the first reviewer is assigned. Slots never shift:
// clearing slot 1 does not promote slot 2.
type PaperAssignment struct {
	ID         int       `gorm:"primaryKey;column:id" json:"id"`
	PaperID    int       `gorm:"column:paperId;unique" json:"paper_id"`
	Reviewer1  *int      `gorm:"column:reviewer1" json:"reviewer1,omitempty"`
	Reviewer2  *int      `gorm:"column:reviewer2" json:"reviewer2,omitempty"`
	AssignedAt time.Time `gorm:"column:assignedAt" json:"assigned_at"`
}

// TableName overrides
func (PaperAssignment) TableName() string {
	return "paper_assignments"
}

// SlotCapacity is the fixed number of reviewer slots per paper.
const SlotCapacity = 2

// Contains reports whether reviewerID occupies either slot.
func (a *PaperAssignment) Contains(reviewerID int) bool {
	return a.SlotOf(reviewerID) != 0
}

// SlotOf returns the slot (1 or 2) occupied by reviewerID, or 0.
func (a *PaperAssignment) SlotOf(reviewerID int) int {
	if a.Reviewer1 != nil && *a.Reviewer1 == reviewerID {
		return 1
	}
	if a.Reviewer2 != nil && *a.Reviewer2 == reviewerID {
		return 2
	}
	return 0
}

// FreeSlot returns the first empty slot (1 before 2), or 0 when both are full.
func (a *PaperAssignment) FreeSlot() int {
	if a.Reviewer1 == nil {
		return 1
	}
	if a.Reviewer2 == nil {
		return 2
	}
	return 0
}

// SetSlot writes reviewerID into the given slot.
func (a *PaperAssignment) SetSlot(slot, reviewerID int) {
	id := reviewerID
	switch slot {
	case 1:
		a.Reviewer1 = &id
	case 2:
		a.Reviewer2 = &id
	}
}

// ClearSlot empties the given slot without touching the other one.
func (a *PaperAssignment) ClearSlot(slot int) {
	switch slot {
	case 1:
		a.Reviewer1 = nil
	case 2:
		a.Reviewer2 = nil
	}
}

// ReviewerIDs returns the occupied slots in slot order.
func (a *PaperAssignment) ReviewerIDs() []int {
	ids := make([]int, 0, SlotCapacity)
	if a.Reviewer1 != nil {
		ids = append(ids, *a.Reviewer1)
	}
	if a.Reviewer2 != nil {
		ids = append(ids, *a.Reviewer2)
	}
	return ids
}

// SlotColumn maps a slot number to its column name.
func SlotColumn(slot int) string {
	if slot == 2 {
		return "reviewer2"
	}
	return "reviewer1"
}
