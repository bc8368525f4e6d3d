package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"conference-api/config"
	"conference-api/models"
	"conference-api/services"
	"conference-api/utils"
)

type CreateReviewerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Track    string `json:"track" binding:"required"`
}

// CreateReviewer provisions a reviewer account and queues the credentials
// email. The plaintext password exists only for that email; the row stores the
// bcrypt hash with isFirstLogin set so the reviewer must rotate it.
func CreateReviewer(c *gin.Context) {
	var req CreateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reviewer"})
		return
	}

	password := string(hash)
	track := req.Track
	reviewer := models.User{
		Name:         utils.SanitizeInput(req.Name),
		Email:        email,
		Password:     &password,
		Role:         models.RoleReviewer,
		Track:        &track,
		IsFirstLogin: true,
		CreatedAt:    time.Now(),
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Create(&reviewer).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	subject, body := services.BuildReviewerCredentialsEmail(reviewer.Name, email, req.Password)
	if err := services.EnqueueEmail(tx, email, subject, body); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Reviewer created successfully",
		"user":         reviewer,
		"notification": "queued",
	})
}

// GetReviewers lists all reviewer accounts.
func GetReviewers(c *gin.Context) {
	var reviewers []models.User
	if err := config.DB.Select("id", "name", "email", "track").
		Where("role = ?", models.RoleReviewer).
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, reviewers)
}

type UpdateReviewerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Track string `json:"track" binding:"required"`
}

// UpdateReviewer edits a reviewer's profile fields. A changed email must stay
// unique across all users.
func UpdateReviewer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reviewer models.User
	if err := config.DB.Where("id = ? AND role = ?", id, models.RoleReviewer).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != reviewer.Email {
		var clash models.User
		if err := config.DB.Where("email = ? AND id != ?", email, id).
			First(&clash).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
	}

	if err := config.DB.Model(&models.User{}).
		Where("id = ? AND role = ?", id, models.RoleReviewer).
		Updates(map[string]interface{}{
			"name":  utils.SanitizeInput(req.Name),
			"email": email,
			"track": req.Track,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviewer updated successfully",
		"reviewer": gin.H{
			"id":    id,
			"name":  req.Name,
			"email": email,
			"track": req.Track,
		},
	})
}

// DeleteReviewer removes a reviewer account after vacating any assignment
// slots they occupy. The other slot of each affected paper is untouched.
func DeleteReviewer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var reviewer models.User
	if err := config.DB.Where("id = ? AND role = ?", id, models.RoleReviewer).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reviewer not found"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Model(&models.PaperAssignment{}).
		Where("reviewer1 = ?", id).Update("reviewer1", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := tx.Model(&models.PaperAssignment{}).
		Where("reviewer2 = ?", id).Update("reviewer2", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Where("id = ? AND role = ?", id, models.RoleReviewer).
		Delete(&models.User{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Reviewer %q deleted successfully", reviewer.Name),
		"deletedReviewer": gin.H{
			"id":   id,
			"name": reviewer.Name,
		},
	})
}

// GetReviewersWithAssignments lists reviewers with their workload: paper
// count and titles across both slots.
func GetReviewersWithAssignments(c *gin.Context) {
	type row struct {
		ID             int     `json:"id"`
		Name           string  `json:"name"`
		Email          string  `json:"email"`
		Track          *string `json:"track"`
		AssignedPapers int     `json:"assignedPapers"`
		PaperTitles    *string `json:"-"`
	}

	var rows []row
	err := config.DB.Raw(`
		SELECT
			u.id,
			u.name,
			u.email,
			u.track,
			COUNT(DISTINCT pa.paperId) AS assigned_papers,
			GROUP_CONCAT(DISTINCT r.paperTitle SEPARATOR '; ') AS paper_titles
		FROM users u
		LEFT JOIN (
			SELECT paperId, reviewer1 AS reviewerId FROM paper_assignments WHERE reviewer1 IS NOT NULL
			UNION ALL
			SELECT paperId, reviewer2 AS reviewerId FROM paper_assignments WHERE reviewer2 IS NOT NULL
		) pa ON u.id = pa.reviewerId
		LEFT JOIN registrations r ON pa.paperId = r.id
		WHERE u.role = ?
		GROUP BY u.id, u.name, u.email, u.track
		ORDER BY u.name
	`, models.RoleReviewer).Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		titles := []string{}
		if r.PaperTitles != nil && *r.PaperTitles != "" {
			titles = strings.Split(*r.PaperTitles, "; ")
		}
		out = append(out, gin.H{
			"id":             r.ID,
			"name":           r.Name,
			"email":          r.Email,
			"track":          r.Track,
			"assignedPapers": r.AssignedPapers,
			"paperTitles":    titles,
		})
	}

	c.JSON(http.StatusOK, out)
}
