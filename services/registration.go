package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"conference-api/models"
	"conference-api/monitor"
	"conference-api/utils"
)

// RegistrationService stores paper submissions and their camera ready
// follow-ups.
type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// RegistrationInput is a validated paper submission.
type RegistrationInput struct {
	UserID     int
	PaperTitle string
	Authors    []models.Author
	Abstract   []byte
	Tracks     string
	Country    string
	State      string
	City       string
}

func (in *RegistrationInput) validate() error {
	if strings.TrimSpace(in.PaperTitle) == "" {
		return validationErr("paper_title", "paper title is required")
	}
	if len(in.Abstract) == 0 {
		return validationErr("abstract", "abstract file is required")
	}
	if len(in.Authors) == 0 {
		return validationErr("authors", "at least one author is required")
	}
	for _, author := range in.Authors {
		if !utils.ValidateMobile(author.Mobile) {
			return validationErr("authors", fmt.Sprintf("invalid mobile number for author %s, must be exactly 10 digits", author.Name))
		}
		if author.Email != "" && !utils.ValidateEmail(author.Email) {
			return validationErr("authors", fmt.Sprintf("invalid email for author %s", author.Name))
		}
	}
	return nil
}

// Create stores a new registration and queues the confirmation emails (one
// per author with an address) plus the admin notification, all in the same
// transaction as the row itself.
func (s *RegistrationService) Create(in *RegistrationInput) (*models.Registration, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	encoded, err := models.EncodeAuthors(in.Authors)
	if err != nil {
		return nil, validationErr("authors", "author list could not be encoded")
	}

	// The first author's address is denormalized for listings.
	email := ""
	if len(in.Authors) > 0 {
		email = in.Authors[0].Email
	}

	now := time.Now()
	registration := models.Registration{
		UserID:                in.UserID,
		PaperTitle:            in.PaperTitle,
		Authors:               encoded,
		AbstractBlob:          in.Abstract,
		Email:                 email,
		Tracks:                in.Tracks,
		Country:               in.Country,
		State:                 in.State,
		City:                  in.City,
		FinalSubmissionStatus: models.FinalStatusNotSubmitted,
		Status:                models.PaperStatusSubmitted,
		CreatedAt:             now,
		UpdatedAt:             now,
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

	if err := tx.Create(&registration).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.enqueueSubmissionMails(tx, &registration, in.Authors, false); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	monitor.RegistrationsTotal.Inc()
	return &registration, nil
}

// FinalizeSubmission attaches the camera ready file to an existing
// registration and notifies authors and admin. Reviewer re-attachment is the
// caller's concern (it runs through the assignment workflow).
func (s *RegistrationService) FinalizeSubmission(paperID int, finalPaper []byte) (*models.Registration, error) {
	if len(finalPaper) == 0 {
		return nil, validationErr("final_paper", "final paper file is required")
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

	paper, err := lockRegistration(tx, paperID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&models.Registration{}).
		Where("id = ?", paperID).
		Updates(map[string]interface{}{
			"finalPaperBlob":        finalPaper,
			"finalSubmissionStatus": models.FinalStatusSubmitted,
			"updatedAt":             time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	authors, err := paper.AuthorList()
	if err != nil {
		authors = nil
	}
	if err := s.enqueueSubmissionMails(tx, paper, authors, true); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return paper, nil
}

func (s *RegistrationService) enqueueSubmissionMails(tx *gorm.DB, paper *models.Registration, authors []models.Author, final bool) error {
	submissionType := "Initial Submission"
	if final {
		submissionType = "Final Submission"
	}

	if adminEmail := adminInboxAddress(tx); adminEmail != "" {
		subject, body := BuildAdminPaperNotificationEmail(paper.ID, paper.PaperTitle, authors, submissionType)
		if err := EnqueueEmail(tx, adminEmail, subject, body); err != nil {
			return err
		}
	}

	for _, author := range authors {
		if strings.TrimSpace(author.Email) == "" {
			continue
		}
		subject, body := BuildConfirmationEmail(author.Name, paper.PaperTitle, paper.ID, final)
		if err := EnqueueEmail(tx, author.Email, subject, body); err != nil {
			return err
		}
	}
	return nil
}

func adminInboxAddress(tx *gorm.DB) string {
	var admin models.User
	err := tx.Where("role = ?", models.RoleAdmin).Order("id ASC").First(&admin).Error
	if err != nil {
		return ""
	}
	return admin.Email
}

// ListLatest returns registrations de-duplicated to the most recently updated
// row per (userId, paperTitle). Resubmissions leave historical duplicates
// behind; only the latest row is authoritative.
func (s *RegistrationService) ListLatest() ([]models.Registration, error) {
	var registrations []models.Registration
	err := s.db.Raw(`
		SELECT r1.*
		FROM registrations r1
		INNER JOIN (
			SELECT userId, paperTitle, MAX(updatedAt) AS maxUpdatedAt
			FROM registrations
			GROUP BY userId, paperTitle
		) r2 ON r1.userId = r2.userId AND r1.paperTitle = r2.paperTitle AND r1.updatedAt = r2.maxUpdatedAt
		ORDER BY r1.createdAt DESC
	`).Scan(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// ByID loads one registration.
func (s *RegistrationService) ByID(paperID int) (*models.Registration, error) {
	var registration models.Registration
	err := s.db.Where("id = ?", paperID).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("paper %d: %w", paperID, ErrNotFound)
		}
		return nil, err
	}
	return &registration, nil
}
