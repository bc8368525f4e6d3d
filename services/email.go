package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"conference-api/models"
)

// EnqueueEmail writes one durable notification intent. Callers pass the
// transaction of the mutation the email announces so a rolled back workflow
// never leaves a stray notification behind.
func EnqueueEmail(tx *gorm.DB, recipient, subject, body string) error {
	if strings.TrimSpace(recipient) == "" {
		return nil
	}

	event := models.EmailOutbox{
		ID:            uuid.NewString(),
		Recipient:     recipient,
		Subject:       subject,
		Body:          body,
		Status:        models.OutboxStatusPending,
		NextAttemptAt: time.Now(),
	}
	return tx.Create(&event).Error
}

// buildEmailHTML wraps a message in the shared conference mail layout.
func buildEmailHTML(heading, recipientName, message string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<div style="background-color: #2E86C1; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">`)
	b.WriteString(`<h1 style="margin: 0;">Conference Committee</h1>`)
	b.WriteString(`<p style="margin: 5px 0 0 0;">` + html.EscapeString(heading) + `</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div style="background-color: #f8f9fa; padding: 20px; border-radius: 0 0 5px 5px;">`)
	if recipientName != "" {
		b.WriteString(`<h2 style="color: #2E86C1; margin-top: 0;">Dear ` + html.EscapeString(recipientName) + `,</h2>`)
	}
	b.WriteString(message)
	b.WriteString(`<p>Best regards,<br><strong>Conference Committee</strong></p>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

func paperDetailsBlock(paperID int, paperTitle string) string {
	return fmt.Sprintf(`<div style="background-color: white; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #2E86C1;">`+
		`<p style="margin: 0;"><strong>Paper ID:</strong> %d</p>`+
		`<p style="margin: 5px 0 0 0;"><strong>Paper Title:</strong> %s</p>`+
		`</div>`, paperID, html.EscapeString(paperTitle))
}

// BuildConfirmationEmail is sent to every author after a registration or a
// final submission is stored.
func BuildConfirmationEmail(authorName, paperTitle string, paperID int, final bool) (string, string) {
	subject := "Conference Registration Confirmation"
	heading := "Registration Received"
	intro := "<p>We have successfully received your paper registration.</p>"
	if final {
		subject = fmt.Sprintf("Camera Ready Submission Confirmation (Paper ID: %d)", paperID)
		heading = "Camera Ready Submission Received"
		intro = "<p>We have successfully received your camera ready submission.</p>"
	}

	message := intro + paperDetailsBlock(paperID, paperTitle) +
		`<p>Our team will contact you regarding the next steps of the review process.</p>`
	return subject, buildEmailHTML(heading, authorName, message)
}

// BuildReviewerCredentialsEmail carries the initial password of an
// admin-created reviewer account.
func BuildReviewerCredentialsEmail(reviewerName, email, password string) (string, string) {
	subject := "Your Reviewer Account Credentials"
	message := `<p>A reviewer account has been created for you.</p>` +
		`<div style="background-color: white; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #2E86C1;">` +
		`<p style="margin: 0;"><strong>Email:</strong> ` + html.EscapeString(email) + `</p>` +
		`<p style="margin: 5px 0 0 0;"><strong>Temporary Password:</strong> ` + html.EscapeString(password) + `</p>` +
		`</div>` +
		`<p>Please log in and change your password immediately.</p>`
	return subject, buildEmailHTML("Reviewer Account Created", reviewerName, message)
}

// BuildReviewerAssignmentEmail notifies a reviewer of a new paper assignment.
func BuildReviewerAssignmentEmail(reviewerName, paperTitle string, paperID int) (string, string) {
	subject := "Paper Review Assignment"
	message := `<p>You have been assigned a paper for review.</p>` +
		paperDetailsBlock(paperID, paperTitle) +
		`<p>Please log in to the reviewer dashboard to download the paper and submit your verdict.</p>`
	return subject, buildEmailHTML("New Review Assignment", reviewerName, message)
}

// BuildStatusUpdateEmail carries a paper decision (or the aggregated reviewer
// comments) to one author. decidedBy labels the source of the decision.
func BuildStatusUpdateEmail(authorName, paperTitle string, paperID int, status, comments, decidedBy string) (string, string) {
	subject := fmt.Sprintf("Paper Status Update (Paper ID: %d)", paperID)
	if comments == "" {
		comments = "No comments provided"
	}
	message := `<p>The status of your paper has been updated.</p>` +
		paperDetailsBlock(paperID, paperTitle) +
		`<div style="background-color: #d1ecf1; border: 1px solid #bee5eb; padding: 15px; border-radius: 5px; margin: 20px 0;">` +
		`<p style="margin: 0;"><strong>Status:</strong> ` + html.EscapeString(status) + `</p>` +
		`<p style="margin: 5px 0 0 0;"><strong>Decided by:</strong> ` + html.EscapeString(decidedBy) + `</p>` +
		`<p style="margin: 5px 0 0 0; white-space: pre-line;"><strong>Comments:</strong> ` + html.EscapeString(comments) + `</p>` +
		`</div>`
	return subject, buildEmailHTML("Paper Status Update", authorName, message)
}

// BuildFinalSubmissionResetEmail tells authors their camera ready upload was
// cleared and must be resubmitted.
func BuildFinalSubmissionResetEmail(authorName, paperTitle string, paperID int) (string, string) {
	subject := fmt.Sprintf("Final Submission Reset (Paper ID: %d)", paperID)
	message := `<p>Your final submission has been reset by the conference committee.</p>` +
		paperDetailsBlock(paperID, paperTitle) +
		`<p>Please upload your camera ready paper again.</p>`
	return subject, buildEmailHTML("Final Submission Reset", authorName, message)
}

// BuildAdminPaperNotificationEmail informs the admin inbox about a new
// initial or final submission.
func BuildAdminPaperNotificationEmail(paperID int, paperTitle string, authors []models.Author, submissionType string) (string, string) {
	subject := fmt.Sprintf("New Paper %s Received (Paper ID: %d)", submissionType, paperID)

	names := make([]string, 0, len(authors))
	for _, author := range authors {
		names = append(names, author.Name)
	}
	message := fmt.Sprintf(`<p>A new %s has been received.</p>`, strings.ToLower(submissionType)) +
		paperDetailsBlock(paperID, paperTitle) +
		`<p><strong>Authors:</strong> ` + html.EscapeString(strings.Join(names, ", ")) + `</p>`
	return subject, buildEmailHTML("New Submission", "", message)
}
