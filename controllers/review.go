package controllers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"conference-api/config"
	"conference-api/middleware"
	"conference-api/models"
	"conference-api/services"
)

// GetAssignedPapers returns the calling reviewer's worklist.
func GetAssignedPapers(c *gin.Context) {
	reviewerID, _ := middleware.CurrentUserID(c)

	svc := services.NewReviewService(config.DB)
	papers, err := svc.AssignedPapers(reviewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(papers))
	for _, p := range papers {
		authors, parseErr := models.ParseAuthors(p.Authors)
		if parseErr != nil {
			authors = nil
		}
		out = append(out, gin.H{
			"id":           p.ID,
			"paperTitle":   p.PaperTitle,
			"authors":      authors,
			"email":        p.Email,
			"status":       p.Status,
			"createdAt":    p.CreatedAt,
			"updatedAt":    p.UpdatedAt,
			"assignedAt":   p.AssignedAt,
			"reviewStatus": p.ReviewStatus,
			"comments":     p.Comments,
			"reviewedAt":   p.ReviewedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

type SubmitReviewRequest struct {
	PaperID  int    `json:"paperId" binding:"required"`
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments"`
}

// UpdatePaperStatus records the calling reviewer's verdict for an assigned
// paper. Resubmitting replaces the previous verdict.
func UpdatePaperStatus(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviewerID, _ := middleware.CurrentUserID(c)

	svc := services.NewReviewService(config.DB)
	review, err := svc.SubmitReview(req.PaperID, reviewerID, req.Status, req.Comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// GetPaperStatus returns the calling author's papers with every review
// attached, newest paper first.
func GetPaperStatus(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var registrations []models.Registration
	if err := config.DB.Where("userId = ?", userID).
		Order("createdAt DESC").
		Find(&registrations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	reviews := services.NewReviewService(config.DB)

	out := make([]gin.H, 0, len(registrations))
	for i := range registrations {
		r := &registrations[i]

		authors, parseErr := r.AuthorList()
		if parseErr != nil {
			authors = nil
		}

		var abstractBlob, finalPaperBlob interface{}
		if len(r.AbstractBlob) > 0 {
			abstractBlob = base64.StdEncoding.EncodeToString(r.AbstractBlob)
		}
		if len(r.FinalPaperBlob) > 0 {
			finalPaperBlob = base64.StdEncoding.EncodeToString(r.FinalPaperBlob)
		}

		paperReviews, reviewErr := reviews.ReviewsForPaper(r.ID)
		if reviewErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		reviewList := make([]gin.H, 0, len(paperReviews))
		for _, review := range paperReviews {
			reviewerName := ""
			if review.Reviewer != nil {
				reviewerName = review.Reviewer.Name
			}
			reviewList = append(reviewList, gin.H{
				"status":       review.Status,
				"comments":     review.Comments,
				"reviewedAt":   review.ReviewedAt,
				"reviewerName": reviewerName,
			})
		}

		out = append(out, gin.H{
			"id":                    r.ID,
			"paperTitle":            r.PaperTitle,
			"authors":               authors,
			"tracks":                r.Tracks,
			"country":               r.Country,
			"state":                 r.State,
			"city":                  r.City,
			"status":                r.Status,
			"finalSubmissionStatus": r.FinalSubmissionStatus,
			"notificationSent":      r.NotificationSent,
			"createdAt":             r.CreatedAt,
			"updatedAt":             r.UpdatedAt,
			"abstractBlob":          abstractBlob,
			"finalPaperBlob":        finalPaperBlob,
			"reviews":               reviewList,
		})
	}

	c.JSON(http.StatusOK, out)
}
