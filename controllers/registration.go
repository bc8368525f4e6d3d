package controllers

import (
	"encoding/base64"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"conference-api/config"
	"conference-api/middleware"
	"conference-api/models"
	"conference-api/services"
)

// Upload types accepted for abstracts and final papers.
var allowedUploadTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// RegisterPaper handles the multipart submission form. The same endpoint
// serves both initial registrations and final (camera ready) submissions; the
// latter carry an originalPaperId referencing the existing row.
func RegisterPaper(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	file, header, err := c.Request.FormFile("abstract")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Abstract or final paper file required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadTypes[contentType] && !allowedUploadExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF, DOC, and DOCX files are allowed"})
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	authors, err := models.ParseAuthors(c.PostForm("authors"))
	if err != nil || len(authors) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authors list is required"})
		return
	}

	originalPaperID := c.PostForm("originalPaperId")
	if originalPaperID != "" && originalPaperID != "null" {
		finalizeSubmission(c, originalPaperID, fileBytes)
		return
	}

	svc := services.NewRegistrationService(config.DB)
	registration, err := svc.Create(&services.RegistrationInput{
		UserID:     userID,
		PaperTitle: c.PostForm("paperTitle"),
		Authors:    authors,
		Abstract:   fileBytes,
		Tracks:     c.PostForm("tracks"),
		Country:    c.PostForm("country"),
		State:      c.PostForm("state"),
		City:       c.PostForm("city"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Optional immediate reviewer assignment; failure does not undo the
	// registration.
	if raw := c.PostForm("assignedReviewerId"); raw != "" {
		if reviewerID, convErr := strconv.Atoi(raw); convErr == nil {
			assignments := services.NewAssignmentService(config.DB)
			if _, assignErr := assignments.Assign(registration.ID, reviewerID, userID); assignErr != nil {
				log.Printf("initial reviewer assignment failed for paper %d: %v", registration.ID, assignErr)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration successful",
		"id":      registration.ID,
	})
}

// finalizeSubmission attaches the camera ready file and re-attaches the
// original reviewers so the resubmission lands back on their worklists.
func finalizeSubmission(c *gin.Context, rawPaperID string, fileBytes []byte) {
	paperID, err := strconv.Atoi(rawPaperID)
	if err != nil || paperID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid originalPaperId"})
		return
	}

	userID, _ := middleware.CurrentUserID(c)

	svc := services.NewRegistrationService(config.DB)
	if _, err := svc.FinalizeSubmission(paperID, fileBytes); err != nil {
		respondServiceError(c, err)
		return
	}

	assignments := services.NewAssignmentService(config.DB)
	reviewerIDs, err := assignments.ReviewerIDs(paperID)
	if err != nil {
		log.Printf("fetching reviewers for final submission of paper %d: %v", paperID, err)
	}
	for _, reviewerID := range reviewerIDs {
		if _, assignErr := assignments.Assign(paperID, reviewerID, userID); assignErr != nil &&
			!errors.Is(assignErr, services.ErrAlreadyAssigned) {
			log.Printf("re-assigning reviewer %d on paper %d: %v", reviewerID, paperID, assignErr)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Final submission successful",
		"id":      paperID,
	})
}

// registrationJSON renders one registration row for listings, with blobs
// base64 encoded and the first author's mobile surfaced as phone.
func registrationJSON(r *models.Registration) gin.H {
	authors, err := r.AuthorList()
	if err != nil {
		authors = nil
	}

	phone := ""
	if len(authors) > 0 {
		phone = authors[0].Mobile
	}

	var abstractBlob, finalPaperBlob interface{}
	if len(r.AbstractBlob) > 0 {
		abstractBlob = base64.StdEncoding.EncodeToString(r.AbstractBlob)
	}
	if len(r.FinalPaperBlob) > 0 {
		finalPaperBlob = base64.StdEncoding.EncodeToString(r.FinalPaperBlob)
	}

	return gin.H{
		"id":                    r.ID,
		"userId":                r.UserID,
		"paperTitle":            r.PaperTitle,
		"authors":               authors,
		"phone":                 phone,
		"email":                 r.Email,
		"tracks":                r.Tracks,
		"country":               r.Country,
		"state":                 r.State,
		"city":                  r.City,
		"finalSubmissionStatus": r.FinalSubmissionStatus,
		"status":                r.Status,
		"comments":              r.Comments,
		"notificationSent":      r.NotificationSent,
		"abstractBlob":          abstractBlob,
		"finalPaperBlob":        finalPaperBlob,
		"createdAt":             r.CreatedAt,
		"updatedAt":             r.UpdatedAt,
	}
}

// GetAllRegistrations lists the latest registration per (user, title) pair.
func GetAllRegistrations(c *gin.Context) {
	svc := services.NewRegistrationService(config.DB)
	registrations, err := svc.ListLatest()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(registrations))
	for i := range registrations {
		out = append(out, registrationJSON(&registrations[i]))
	}
	c.JSON(http.StatusOK, out)
}
