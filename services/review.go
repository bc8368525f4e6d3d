package services

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conference-api/models"
	"conference-api/monitor"
)

// ReviewService records reviewer verdicts. A verdict never touches the
// paper's own status column; only an admin decision does that.
type ReviewService struct {
	db          *gorm.DB
	assignments *AssignmentService
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, assignments: NewAssignmentService(db)}
}

// SubmitReview upserts the verdict for (paperID, reviewerID). Repeated calls
// overwrite status and comments in place and refresh the review timestamp, so
// the ledger holds exactly one row per pair.
func (s *ReviewService) SubmitReview(paperID, reviewerID int, status, comments string) (*models.PaperReview, error) {
	if paperID <= 0 {
		return nil, validationErr("paper_id", "paper id is required")
	}
	if !models.ValidReviewStatus(status) {
		return nil, ErrInvalidStatus
	}

	assigned, err := s.assignments.IsAssigned(paperID, reviewerID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	review := models.PaperReview{
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Status:     status,
		ReviewedAt: time.Now(),
	}
	if trimmed := strings.TrimSpace(comments); trimmed != "" {
		review.Comments = &trimmed
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "paperId"}, {Name: "reviewerId"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "comments", "reviewedAt"}),
	}).Create(&review).Error
	if err != nil {
		return nil, err
	}

	monitor.ReviewsTotal.Inc()
	return &review, nil
}

// AssignedPaper is one row of a reviewer's worklist: the paper joined with
// the reviewer's own verdict, when one exists.
type AssignedPaper struct {
	ID           int        `json:"id"`
	PaperTitle   string     `json:"paper_title"`
	Authors      string     `json:"-"`
	Email        string     `json:"email"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	AssignedAt   time.Time  `json:"assigned_at"`
	ReviewStatus *string    `json:"review_status,omitempty"`
	Comments     *string    `json:"comments,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

// AssignedPapers lists every paper occupying one of reviewerID's slots,
// newest first, including resubmissions.
func (s *ReviewService) AssignedPapers(reviewerID int) ([]AssignedPaper, error) {
	var papers []AssignedPaper
	err := s.db.Raw(`
		SELECT
			r.id,
			r.paperTitle AS paper_title,
			r.authors,
			r.email,
			r.status,
			r.createdAt AS created_at,
			r.updatedAt AS updated_at,
			pa.assignedAt AS assigned_at,
			pr.status AS review_status,
			pr.comments,
			pr.reviewedAt AS reviewed_at
		FROM (
			SELECT paperId, reviewer1 AS reviewerId, assignedAt FROM paper_assignments WHERE reviewer1 IS NOT NULL
			UNION ALL
			SELECT paperId, reviewer2 AS reviewerId, assignedAt FROM paper_assignments WHERE reviewer2 IS NOT NULL
		) pa
		JOIN registrations r ON pa.paperId = r.id
		LEFT JOIN paper_reviews pr ON r.id = pr.paperId AND pr.reviewerId = pa.reviewerId
		WHERE pa.reviewerId = ?
		ORDER BY r.createdAt DESC
	`, reviewerID).Scan(&papers).Error
	if err != nil {
		return nil, err
	}
	return papers, nil
}

// ReviewsForPaper returns all verdicts of a paper ordered by review time,
// with reviewer names resolved.
func (s *ReviewService) ReviewsForPaper(paperID int) ([]models.PaperReview, error) {
	var reviews []models.PaperReview
	err := s.db.Preload("Reviewer").
		Where("paperId = ?", paperID).
		Order("reviewedAt ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
