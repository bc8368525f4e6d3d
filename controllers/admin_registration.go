package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"conference-api/config"
	"conference-api/middleware"
	"conference-api/models"
	"conference-api/services"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRegistrationStatus overwrites a paper's lifecycle status and records
// the transition in the history table.
func UpdateRegistrationStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	svc := services.NewStatusService(config.DB)
	if err := svc.SetPaperStatus(id, req.Status, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration status updated successfully",
		"id":      id,
		"status":  req.Status,
	})
}

// DeleteRegistration removes a registration and its dependent rows.
func DeleteRegistration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var registration models.Registration
	if err := config.DB.Where("id = ?", id).First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Where("paperId = ?", id).Delete(&models.PaperAssignment{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := tx.Where("paperId = ?", id).Delete(&models.PaperReview{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := tx.Where("id = ?", id).Delete(&models.Registration{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted successfully", "id": id})
}

// ResetFinalSubmission clears the camera ready file so the authors can upload
// a fresh one; they are notified through the outbox.
func ResetFinalSubmission(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := services.NewStatusService(config.DB)
	if err := svc.ResetFinalSubmission(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Final submission reset successfully",
		"id":           id,
		"notification": "queued",
	})
}

type NotifyRequest struct {
	PaperID int `json:"paperId" binding:"required"`
}

// SendPaperStatusEmail queues the admin-decision notification for every
// author of a decided paper.
func SendPaperStatusEmail(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewStatusService(config.DB)
	queued, err := svc.NotifyAuthorsDecision(req.PaperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Status notification queued",
		"paperId":      req.PaperID,
		"recipients":   queued,
		"notification": "queued",
	})
}

// SendNotification queues the aggregate reviewer-comments notification. A
// second call for the same paper is rejected.
func SendNotification(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewStatusService(config.DB)
	queued, err := svc.NotifyAuthorsAggregate(req.PaperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Review notification queued",
		"paperId":      req.PaperID,
		"recipients":   queued,
		"notification": "queued",
	})
}

// GetRegistrationAnalytics returns registration counts grouped by country
// and state.
func GetRegistrationAnalytics(c *gin.Context) {
	type bucket struct {
		Country string `json:"country,omitempty"`
		State   string `json:"state,omitempty"`
		Count   int    `json:"count"`
	}

	var countries []bucket
	err := config.DB.Raw(`
		SELECT country, COUNT(*) AS count
		FROM registrations
		WHERE country IS NOT NULL AND country != ''
		GROUP BY country
		ORDER BY count DESC
	`).Scan(&countries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var states []bucket
	err = config.DB.Raw(`
		SELECT state, COUNT(*) AS count
		FROM registrations
		WHERE state IS NOT NULL AND state != ''
		GROUP BY state
		ORDER BY count DESC
	`).Scan(&states).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"countries": countries, "states": states})
}

// GetTotalRegistrations returns the registration row count.
func GetTotalRegistrations(c *gin.Context) {
	var total int64
	if err := config.DB.Model(&models.Registration{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-. ]`)

// DownloadFinalPaper streams the camera ready blob to an admin or the paper
// owner. Content type is sniffed from the file's magic bytes.
func DownloadFinalPaper(c *gin.Context) {
	paperID, ok := pathID(c, "paperId")
	if !ok {
		return
	}

	var registration models.Registration
	if err := config.DB.Select("userId", "paperTitle", "finalPaperBlob").
		Where("id = ?", paperID).First(&registration).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	role := c.GetString("role")
	if role != models.RoleAdmin && userID != registration.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	blob := registration.FinalPaperBlob
	if len(blob) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Final paper not available"})
		return
	}

	mimeType, extension := sniffDocumentType(blob)

	safeTitle := unsafeFilenameChars.ReplaceAllString(registration.PaperTitle, "")
	safeTitle = strings.ReplaceAll(safeTitle, " ", "")
	if safeTitle == "" {
		safeTitle = "paper"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", safeTitle+"_final."+extension))
	c.Data(http.StatusOK, mimeType, blob)
}

// sniffDocumentType inspects magic bytes: %PDF, the legacy OLE header for
// .doc, and the zip header for .docx.
func sniffDocumentType(blob []byte) (mimeType, extension string) {
	switch {
	case len(blob) >= 4 && bytes.HasPrefix(blob, []byte("%PDF")):
		return "application/pdf", "pdf"
	case len(blob) >= 4 && bytes.HasPrefix(blob, []byte{0xD0, 0xCF, 0x11, 0xE0}):
		return "application/msword", "doc"
	case len(blob) >= 2 && bytes.HasPrefix(blob, []byte{0x50, 0x4B}):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"
	}
	return "application/octet-stream", "bin"
}
