package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conference-api/models"
	"conference-api/monitor"
)

// AssignmentService owns the reviewer slot ledger. Every operation runs in a
// single transaction and reads the assignment row with a row lock, so two
// concurrent calls for the same paper serialize instead of both claiming the
// same slot.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// AssignmentResult confirms a slot mutation.
type AssignmentResult struct {
	PaperID      int    `json:"paper_id"`
	ReviewerID   int    `json:"reviewer_id"`
	Slot         int    `json:"slot"`
	Notification string `json:"notification"`
}

// Assign places reviewerID into the first free slot of paperID, forces the
// paper back to under_review and queues the reviewer notification. The
// under_review transition is applied on every successful assign, matching the
// historical behavior even for already-decided papers; the status history row
// keeps the repeated transition visible.
func (s *AssignmentService) Assign(paperID, reviewerID, actorID int) (*AssignmentResult, error) {
	if paperID <= 0 || reviewerID <= 0 {
		return nil, validationErr("paper_id", "paper and reviewer ids are required")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var paper models.Registration
	if err := tx.Where("id = ?", paperID).First(&paper).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("paper %d: %w", paperID, ErrNotFound)
		}
		return nil, err
	}

	var reviewer models.User
	if err := tx.Where("id = ? AND role = ?", reviewerID, models.RoleReviewer).First(&reviewer).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reviewer %d: %w", reviewerID, ErrNotFound)
		}
		return nil, err
	}

	assignment, exists, err := lockAssignment(tx, paperID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if assignment.Contains(reviewerID) {
		tx.Rollback()
		return nil, ErrAlreadyAssigned
	}

	slot := assignment.FreeSlot()
	if slot == 0 {
		tx.Rollback()
		return nil, ErrNoAvailableSlot
	}
	assignment.SetSlot(slot, reviewerID)

	now := time.Now()
	if exists {
		if err := tx.Model(&models.PaperAssignment{}).
			Where("paperId = ?", paperID).
			Update(models.SlotColumn(slot), reviewerID).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	} else {
		assignment.PaperID = paperID
		assignment.AssignedAt = now
		if err := tx.Create(assignment).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Model(&models.Registration{}).
		Where("id = ?", paperID).
		Updates(map[string]interface{}{
			"status":    models.PaperStatusUnderReview,
			"updatedAt": now,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	oldStatus := paper.Status
	note := fmt.Sprintf("reviewer_assigned:%d", reviewerID)
	history := models.PaperStatusHistory{
		PaperID:   paperID,
		OldStatus: &oldStatus,
		NewStatus: models.PaperStatusUnderReview,
		ChangedBy: actorID,
		Note:      &note,
		CreatedAt: now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	subject, body := BuildReviewerAssignmentEmail(reviewer.Name, paper.PaperTitle, paperID)
	if err := EnqueueEmail(tx, reviewer.Email, subject, body); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	monitor.AssignmentsTotal.Inc()
	return &AssignmentResult{
		PaperID:      paperID,
		ReviewerID:   reviewerID,
		Slot:         slot,
		Notification: "queued",
	}, nil
}

// Unassign frees the slot held by reviewerID. The paper status is untouched
// and the other slot keeps its position.
func (s *AssignmentService) Unassign(paperID, reviewerID int) error {
	if paperID <= 0 || reviewerID <= 0 {
		return validationErr("paper_id", "paper and reviewer ids are required")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	assignment, exists, err := lockAssignment(tx, paperID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if !exists {
		tx.Rollback()
		return fmt.Errorf("assignment for paper %d: %w", paperID, ErrNotFound)
	}

	slot := assignment.SlotOf(reviewerID)
	if slot == 0 {
		tx.Rollback()
		return fmt.Errorf("reviewer %d on paper %d: %w", reviewerID, paperID, ErrNotFound)
	}

	if err := tx.Model(&models.PaperAssignment{}).
		Where("paperId = ?", paperID).
		Update(models.SlotColumn(slot), nil).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// Reassign replaces the reviewer in the slot held by reviewerID with
// newReviewerID. A replacement already occupying the other slot is rejected
// so a reviewer can never hold both slots of one paper.
func (s *AssignmentService) Reassign(paperID, reviewerID, newReviewerID int) error {
	if paperID <= 0 || reviewerID <= 0 || newReviewerID <= 0 {
		return validationErr("reviewer_id", "paper, current and new reviewer ids are required")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var reviewer models.User
	if err := tx.Where("id = ? AND role = ?", newReviewerID, models.RoleReviewer).First(&reviewer).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("reviewer %d: %w", newReviewerID, ErrNotFound)
		}
		return err
	}

	assignment, exists, err := lockAssignment(tx, paperID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if !exists {
		tx.Rollback()
		return fmt.Errorf("assignment for paper %d: %w", paperID, ErrNotFound)
	}

	slot := assignment.SlotOf(reviewerID)
	if slot == 0 {
		tx.Rollback()
		return fmt.Errorf("reviewer %d on paper %d: %w", reviewerID, paperID, ErrNotFound)
	}
	if other := assignment.SlotOf(newReviewerID); other != 0 && other != slot {
		tx.Rollback()
		return ErrAlreadyAssigned
	}

	if err := tx.Model(&models.PaperAssignment{}).
		Where("paperId = ?", paperID).
		Update(models.SlotColumn(slot), newReviewerID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// IsAssigned reports whether reviewerID occupies a slot of paperID.
func (s *AssignmentService) IsAssigned(paperID, reviewerID int) (bool, error) {
	var count int64
	err := s.db.Model(&models.PaperAssignment{}).
		Where("paperId = ? AND (reviewer1 = ? OR reviewer2 = ?)", paperID, reviewerID, reviewerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReviewerIDs returns the reviewers currently assigned to paperID in slot
// order. A missing assignment row yields an empty list.
func (s *AssignmentService) ReviewerIDs(paperID int) ([]int, error) {
	var assignment models.PaperAssignment
	err := s.db.Where("paperId = ?", paperID).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return assignment.ReviewerIDs(), nil
}

// lockAssignment reads the assignment row of paperID with FOR UPDATE. An
// absent row is valid (no reviewers yet) and reported via exists=false.
func lockAssignment(tx *gorm.DB, paperID int) (*models.PaperAssignment, bool, error) {
	var assignment models.PaperAssignment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("paperId = ?", paperID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.PaperAssignment{}, false, nil
		}
		return nil, false, err
	}
	return &assignment, true, nil
}
