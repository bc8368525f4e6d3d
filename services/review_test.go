package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
)

var assignmentCountPattern = regexp.MustCompile("SELECT count\\(\\*\\) FROM `paper_assignments` WHERE paperId = \\? AND \\(reviewer1 = \\? OR reviewer2 = \\?\\)")

func TestSubmitReviewRejectsUnknownStatus(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewReviewService(db)
	if _, err := svc.SubmitReview(7, 9, "maybe", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// "submitted" is a paper status but not a reviewer verdict.
	if _, err := svc.SubmitReview(7, 9, "submitted", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for submitted, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitReviewRequiresAssignment(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentCountPattern,
			args:    []driver.Value{int64(7), int64(9), int64(9)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	if _, err := svc.SubmitReview(7, 9, "accepted", "solid work"); !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitReviewUpsertsVerdict(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assignmentCountPattern,
			args:    []driver.Value{int64(7), int64(9), int64(9)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `paper_reviews`.*ON DUPLICATE KEY UPDATE"),
			result:  scriptedResult{lastInsertID: 3, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewReviewService(db)
	review, err := svc.SubmitReview(7, 9, "accepted_with_minor_revision", "  fix figure 3  ")
	if err != nil {
		t.Fatalf("SubmitReview returned error: %v", err)
	}

	if review.Status != "accepted_with_minor_revision" {
		t.Fatalf("unexpected status %q", review.Status)
	}
	if review.Comments == nil || *review.Comments != "fix figure 3" {
		t.Fatalf("expected trimmed comments, got %v", review.Comments)
	}
	if review.ReviewedAt.IsZero() {
		t.Fatalf("expected reviewedAt to be set")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
