package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conference-api/models"
)

// StatusService owns the paper's authoritative status column and the author
// notification flows built on top of it.
type StatusService struct {
	db      *gorm.DB
	reviews *ReviewService
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db, reviews: NewReviewService(db)}
}

// SetPaperStatus overwrites the paper's lifecycle status. Any status can
// follow any other; there is no transition graph. The change is recorded in
// the status history.
func (s *StatusService) SetPaperStatus(paperID int, status string, changedBy int) error {
	// Admin updates share the review enumeration: every lifecycle status
	// except the initial "submitted".
	if !models.ValidReviewStatus(status) {
		return ErrInvalidStatus
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

	var paper models.Registration
	if err := tx.Where("id = ?", paperID).First(&paper).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("paper %d: %w", paperID, ErrNotFound)
		}
		return err
	}

	now := time.Now()
	if err := tx.Model(&models.Registration{}).
		Where("id = ?", paperID).
		Updates(map[string]interface{}{
			"status":    status,
			"updatedAt": now,
		}).Error; err != nil {
		tx.Rollback()
		return err
	}

	oldStatus := paper.Status
	history := models.PaperStatusHistory{
		PaperID:   paperID,
		OldStatus: &oldStatus,
		NewStatus: status,
		ChangedBy: changedBy,
		CreatedAt: now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// NotifyAuthorsDecision emails every author the paper's current admin
// decision. The paper must already carry a terminal decision status.
// Returns the number of authors with a deliverable address.
func (s *StatusService) NotifyAuthorsDecision(paperID int) (int, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	paper, err := lockRegistration(tx, paperID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if !models.DecidedStatus(paper.Status) {
		tx.Rollback()
		return 0, ErrNoDecision
	}

	authors, err := paper.AuthorList()
	if err != nil {
		tx.Rollback()
		return 0, validationErr("authors", "stored author list is malformed")
	}

	comments := ""
	if paper.Comments != nil {
		comments = *paper.Comments
	}

	queued := 0
	for _, author := range authors {
		if strings.TrimSpace(author.Email) == "" {
			continue
		}
		subject, body := BuildStatusUpdateEmail(author.Name, paper.PaperTitle, paperID, paper.Status, comments, "Admin Decision")
		if err := EnqueueEmail(tx, author.Email, subject, body); err != nil {
			tx.Rollback()
			return 0, err
		}
		queued++
	}

	if err := markNotified(tx, paperID); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return queued, nil
}

// NotifyAuthorsAggregate concatenates all reviewer comments in review order
// and emails them to every author, once per paper: a second call without a
// reset fails with ErrAlreadyNotified.
func (s *StatusService) NotifyAuthorsAggregate(paperID int) (int, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	paper, err := lockRegistration(tx, paperID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if paper.NotificationSent {
		tx.Rollback()
		return 0, ErrAlreadyNotified
	}

	authors, err := paper.AuthorList()
	if err != nil {
		tx.Rollback()
		return 0, validationErr("authors", "stored author list is malformed")
	}

	var reviews []models.PaperReview
	if err := tx.Preload("Reviewer").
		Where("paperId = ?", paperID).
		Order("reviewedAt ASC").
		Find(&reviews).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	parts := make([]string, 0, len(reviews))
	for _, review := range reviews {
		name := fmt.Sprintf("#%d", review.ReviewerID)
		if review.Reviewer != nil {
			name = review.Reviewer.Name
		}
		comment := "No comments"
		if review.Comments != nil && *review.Comments != "" {
			comment = *review.Comments
		}
		parts = append(parts, fmt.Sprintf("Reviewer %s: %s", name, comment))
	}
	commentsText := strings.Join(parts, "\n\n")

	queued := 0
	for _, author := range authors {
		if strings.TrimSpace(author.Email) == "" {
			continue
		}
		subject, body := BuildStatusUpdateEmail(author.Name, paper.PaperTitle, paperID, "reviewed", commentsText, "Reviewers")
		if err := EnqueueEmail(tx, author.Email, subject, body); err != nil {
			tx.Rollback()
			return 0, err
		}
		queued++
	}

	if err := markNotified(tx, paperID); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return queued, nil
}

// ResetFinalSubmission clears the camera ready upload so authors can submit
// again, and tells them so.
func (s *StatusService) ResetFinalSubmission(paperID int) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	paper, err := lockRegistration(tx, paperID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.Registration{}).
		Where("id = ?", paperID).
		Updates(map[string]interface{}{
			"finalSubmissionStatus": models.FinalStatusNotSubmitted,
			"finalPaperBlob":        nil,
			"updatedAt":             time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return err
	}

	authors, err := paper.AuthorList()
	if err == nil {
		for _, author := range authors {
			if strings.TrimSpace(author.Email) == "" {
				continue
			}
			subject, body := BuildFinalSubmissionResetEmail(author.Name, paper.PaperTitle, paperID)
			if err := EnqueueEmail(tx, author.Email, subject, body); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	return tx.Commit().Error
}

func lockRegistration(tx *gorm.DB, paperID int) (*models.Registration, error) {
	var paper models.Registration
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", paperID).
		First(&paper).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("paper %d: %w", paperID, ErrNotFound)
		}
		return nil, err
	}
	return &paper, nil
}

func markNotified(tx *gorm.DB, paperID int) error {
	return tx.Model(&models.Registration{}).
		Where("id = ?", paperID).
		Update("notificationSent", true).Error
}
