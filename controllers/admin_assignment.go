package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"conference-api/config"
	"conference-api/middleware"
	"conference-api/models"
	"conference-api/services"
)

type AssignReviewerRequest struct {
	PaperID    int `json:"paperId" binding:"required"`
	ReviewerID int `json:"reviewerId" binding:"required"`
}

// AssignReviewer places a reviewer into a free slot of a paper.
func AssignReviewer(c *gin.Context) {
	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	svc := services.NewAssignmentService(config.DB)
	result, err := svc.Assign(req.PaperID, req.ReviewerID, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Reviewer assigned successfully",
		"assignment": result,
	})
}

// DeleteAssignment vacates one reviewer slot of a paper.
func DeleteAssignment(c *gin.Context) {
	paperID, ok := pathID(c, "paperId")
	if !ok {
		return
	}
	reviewerID, ok := pathID(c, "reviewerId")
	if !ok {
		return
	}

	svc := services.NewAssignmentService(config.DB)
	if err := svc.Unassign(paperID, reviewerID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted successfully"})
}

type UpdateAssignmentRequest struct {
	NewReviewerID int `json:"newReviewerId" binding:"required"`
}

// UpdateAssignment swaps the reviewer in an occupied slot for another one.
func UpdateAssignment(c *gin.Context) {
	paperID, ok := pathID(c, "paperId")
	if !ok {
		return
	}
	reviewerID, ok := pathID(c, "reviewerId")
	if !ok {
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewAssignmentService(config.DB)
	if err := svc.Reassign(paperID, reviewerID, req.NewReviewerID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment updated successfully"})
}

// assignmentFilters builds the shared WHERE fragments for the admin listing
// queries from fromDate/toDate/paperTracks query params.
func assignmentFilters(c *gin.Context, alias string) ([]string, []interface{}) {
	var conditions []string
	var params []interface{}

	if fromDate := c.Query("fromDate"); fromDate != "" {
		conditions = append(conditions, alias+".createdAt >= ?")
		params = append(params, fromDate)
	}
	if toDate := c.Query("toDate"); toDate != "" {
		conditions = append(conditions, alias+".createdAt < DATE_ADD(?, INTERVAL 1 DAY)")
		params = append(params, toDate)
	}
	if tracks := c.QueryArray("paperTracks"); len(tracks) > 0 {
		conditions = append(conditions, alias+".tracks IN ?")
		params = append(params, tracks)
	}
	return conditions, params
}

// GetAllAssignments lists assignment rows joined with paper and reviewer
// details, filterable by date range and paper/reviewer tracks.
func GetAllAssignments(c *gin.Context) {
	query := `
		SELECT
			pa.paperId AS paper_id,
			r.paperTitle AS paper_title,
			r.tracks AS paper_tracks,
			r.createdAt AS created_at,
			u1.name AS reviewer1_name,
			CONCAT(u1.name, ' (', u1.email, ')') AS reviewer1_details,
			u2.name AS reviewer2_name,
			CONCAT(u2.name, ' (', u2.email, ')') AS reviewer2_details,
			pa.reviewer1,
			pa.reviewer2
		FROM paper_assignments pa
		JOIN registrations r ON pa.paperId = r.id
		LEFT JOIN users u1 ON pa.reviewer1 = u1.id
		LEFT JOIN users u2 ON pa.reviewer2 = u2.id
	`

	conditions, params := assignmentFilters(c, "r")
	if tracks := c.QueryArray("reviewerTracks"); len(tracks) > 0 {
		conditions = append(conditions, "(u1.track IN ? OR u2.track IN ?)")
		params = append(params, tracks, tracks)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.paperTitle"

	type row struct {
		PaperID          int
		PaperTitle       string
		PaperTracks      string
		CreatedAt        time.Time
		Reviewer1Name    *string
		Reviewer1Details *string
		Reviewer2Name    *string
		Reviewer2Details *string
		Reviewer1        *int
		Reviewer2        *int
	}

	var rows []row
	if err := config.DB.Raw(query, params...).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		names := []string{}
		details := []string{}
		ids := []int{}
		if r.Reviewer1 != nil {
			if r.Reviewer1Name != nil {
				names = append(names, *r.Reviewer1Name)
			}
			if r.Reviewer1Details != nil {
				details = append(details, *r.Reviewer1Details)
			}
			ids = append(ids, *r.Reviewer1)
		}
		if r.Reviewer2 != nil {
			if r.Reviewer2Name != nil {
				names = append(names, *r.Reviewer2Name)
			}
			if r.Reviewer2Details != nil {
				details = append(details, *r.Reviewer2Details)
			}
			ids = append(ids, *r.Reviewer2)
		}
		out = append(out, gin.H{
			"paperId":         r.PaperID,
			"paperTitle":      r.PaperTitle,
			"track":           r.PaperTracks,
			"reviewerNames":   names,
			"reviewerDetails": details,
			"reviewerIds":     ids,
		})
	}

	c.JSON(http.StatusOK, out)
}

type adminPaperRow struct {
	ID                int
	UserID            int
	PaperTitle        string
	Authors           string
	Email             string
	CreatedAt         time.Time
	AbstractBlob      []byte
	PaperTracks       string
	AssignedReviewers int
	CurrentReviewers  *string
}

func adminPaperJSON(r *adminPaperRow, withAssignments bool) gin.H {
	authors, err := models.ParseAuthors(r.Authors)
	if err != nil {
		authors = nil
	}

	var abstractBlob interface{}
	if len(r.AbstractBlob) > 0 {
		abstractBlob = base64.StdEncoding.EncodeToString(r.AbstractBlob)
	}

	out := gin.H{
		"id":           r.ID,
		"userId":       r.UserID,
		"paperTitle":   r.PaperTitle,
		"authors":      authors,
		"email":        r.Email,
		"createdAt":    r.CreatedAt,
		"abstractBlob": abstractBlob,
		"track":        r.PaperTracks,
	}
	if withAssignments {
		current := []string{}
		if r.CurrentReviewers != nil && *r.CurrentReviewers != "" {
			for _, name := range strings.Split(*r.CurrentReviewers, "; ") {
				if name != "" {
					current = append(current, name)
				}
			}
		}
		out["assignedReviewers"] = r.AssignedReviewers
		out["currentReviewers"] = current
	}
	return out
}

// GetUnassignedPapers lists papers with no assignment row at all.
func GetUnassignedPapers(c *gin.Context) {
	query := `
		SELECT
			r.id,
			r.userId AS user_id,
			r.paperTitle AS paper_title,
			r.authors,
			r.email,
			r.createdAt AS created_at,
			r.abstractBlob AS abstract_blob,
			r.tracks AS paper_tracks
		FROM registrations r
		WHERE r.id NOT IN (SELECT DISTINCT paperId FROM paper_assignments)
	`

	conditions, params := assignmentFilters(c, "r")
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.createdAt DESC"

	var rows []adminPaperRow
	if err := config.DB.Raw(query, params...).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, adminPaperJSON(&rows[i], false))
	}
	c.JSON(http.StatusOK, out)
}

// GetPapersAvailableForAssignment lists papers occupying fewer than two
// reviewer slots, including the names already assigned.
func GetPapersAvailableForAssignment(c *gin.Context) {
	query := `
		SELECT
			r.id,
			r.userId AS user_id,
			r.paperTitle AS paper_title,
			r.authors,
			r.email,
			r.createdAt AS created_at,
			r.abstractBlob AS abstract_blob,
			r.tracks AS paper_tracks,
			CASE WHEN pa.reviewer1 IS NOT NULL THEN 1 ELSE 0 END +
			CASE WHEN pa.reviewer2 IS NOT NULL THEN 1 ELSE 0 END AS assigned_reviewers,
			CONCAT_WS('; ', u1.name, u2.name) AS current_reviewers
		FROM registrations r
		LEFT JOIN paper_assignments pa ON r.id = pa.paperId
		LEFT JOIN users u1 ON pa.reviewer1 = u1.id
		LEFT JOIN users u2 ON pa.reviewer2 = u2.id
		WHERE CASE WHEN pa.reviewer1 IS NOT NULL THEN 1 ELSE 0 END +
			CASE WHEN pa.reviewer2 IS NOT NULL THEN 1 ELSE 0 END < 2
	`

	conditions, params := assignmentFilters(c, "r")
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.createdAt DESC"

	var rows []adminPaperRow
	if err := config.DB.Raw(query, params...).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, adminPaperJSON(&rows[i], true))
	}
	c.JSON(http.StatusOK, out)
}

// GetRegistrationsWithAssignments returns every registration together with
// its reviewers and their verdicts, grouped per paper.
func GetRegistrationsWithAssignments(c *gin.Context) {
	var registrations []models.Registration
	if err := config.DB.Order("createdAt DESC").Find(&registrations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if len(registrations) == 0 {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	ids := make([]int, 0, len(registrations))
	for _, r := range registrations {
		ids = append(ids, r.ID)
	}

	type assignmentRow struct {
		PaperID       int
		ReviewerID1   *int
		ReviewerName1 *string
		ReviewerID2   *int
		ReviewerName2 *string
		AssignedAt    time.Time
		ReviewStatus1 *string
		Comments1     *string
		ReviewedAt1   *time.Time
		ReviewStatus2 *string
		Comments2     *string
		ReviewedAt2   *time.Time
	}

	var assignments []assignmentRow
	err := config.DB.Raw(`
		SELECT
			pa.paperId AS paper_id,
			u1.id AS reviewer_id1,
			u1.name AS reviewer_name1,
			u2.id AS reviewer_id2,
			u2.name AS reviewer_name2,
			pa.assignedAt AS assigned_at,
			pr1.status AS review_status1,
			pr1.comments AS comments1,
			pr1.reviewedAt AS reviewed_at1,
			pr2.status AS review_status2,
			pr2.comments AS comments2,
			pr2.reviewedAt AS reviewed_at2
		FROM paper_assignments pa
		LEFT JOIN users u1 ON pa.reviewer1 = u1.id
		LEFT JOIN users u2 ON pa.reviewer2 = u2.id
		LEFT JOIN paper_reviews pr1 ON pa.paperId = pr1.paperId AND pa.reviewer1 = pr1.reviewerId
		LEFT JOIN paper_reviews pr2 ON pa.paperId = pr2.paperId AND pa.reviewer2 = pr2.reviewerId
		WHERE pa.paperId IN ?
		ORDER BY pa.paperId, pa.assignedAt
	`, ids).Scan(&assignments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	reviewersByPaper := make(map[int][]gin.H)
	for _, a := range assignments {
		if a.ReviewerID1 != nil {
			reviewersByPaper[a.PaperID] = append(reviewersByPaper[a.PaperID], gin.H{
				"id":           *a.ReviewerID1,
				"name":         a.ReviewerName1,
				"assignedAt":   a.AssignedAt,
				"reviewStatus": a.ReviewStatus1,
				"comments":     a.Comments1,
				"reviewedAt":   a.ReviewedAt1,
			})
		}
		if a.ReviewerID2 != nil {
			reviewersByPaper[a.PaperID] = append(reviewersByPaper[a.PaperID], gin.H{
				"id":           *a.ReviewerID2,
				"name":         a.ReviewerName2,
				"assignedAt":   a.AssignedAt,
				"reviewStatus": a.ReviewStatus2,
				"comments":     a.Comments2,
				"reviewedAt":   a.ReviewedAt2,
			})
		}
	}

	out := make([]gin.H, 0, len(registrations))
	for i := range registrations {
		entry := registrationJSON(&registrations[i])
		reviewers := reviewersByPaper[registrations[i].ID]
		if reviewers == nil {
			reviewers = []gin.H{}
		}
		entry["reviewers"] = reviewers
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, out)
}
