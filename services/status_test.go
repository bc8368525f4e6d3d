package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"
)

var registrationLockPattern = regexp.MustCompile("SELECT .* FROM `registrations` WHERE id = \\?.*FOR UPDATE")

func TestSetPaperStatusRejectsUnknownStatus(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewStatusService(db)
	if err := svc.SetPaperStatus(7, "escalated", 1); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.SetPaperStatus(7, "submitted", 1); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for submitted, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSetPaperStatusWritesHistory(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: registrationQueryPattern,
			args:    []driver.Value{int64(7)},
			columns: []string{"id", "status", "paperTitle"},
			rows:    [][]driver.Value{{int64(7), "under_review", "Edge Inference at Scale"}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `registrations` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `paper_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewStatusService(db)
	if err := svc.SetPaperStatus(7, "accepted", 1); err != nil {
		t.Fatalf("SetPaperStatus returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyAuthorsDecisionRequiresDecision(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: registrationLockPattern,
			args:    []driver.Value{int64(7)},
			columns: []string{"id", "status", "paperTitle", "authors", "notificationSent"},
			rows:    [][]driver.Value{{int64(7), "under_review", "Edge Inference at Scale", "[]", int64(0)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewStatusService(db)
	if _, err := svc.NotifyAuthorsDecision(7); !errors.Is(err, ErrNoDecision) {
		t.Fatalf("expected ErrNoDecision, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyAuthorsDecisionQueuesPerAuthor(t *testing.T) {
	authors := `[{"name":"Ann","email":"ann@example.com","mobile":"1234567890"},` +
		`{"name":"Ben","email":"","mobile":"0987654321"},` +
		`{"name":"Cho","email":"cho@example.com","mobile":"1112223334"}]`

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: registrationLockPattern,
			args:    []driver.Value{int64(7)},
			columns: []string{"id", "status", "paperTitle", "authors", "comments", "notificationSent"},
			rows:    [][]driver.Value{{int64(7), "accepted", "Edge Inference at Scale", authors, "well done", int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `email_outbox`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `email_outbox`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `registrations` SET `notificationSent`"),
			args:    []driver.Value{true, int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewStatusService(db)
	queued, err := svc.NotifyAuthorsDecision(7)
	if err != nil {
		t.Fatalf("NotifyAuthorsDecision returned error: %v", err)
	}
	if queued != 2 {
		t.Fatalf("expected 2 queued (author without address skipped), got %d", queued)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyAuthorsAggregateRunsOnce(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: registrationLockPattern,
			args:    []driver.Value{int64(7)},
			columns: []string{"id", "status", "paperTitle", "authors", "notificationSent"},
			rows:    [][]driver.Value{{int64(7), "under_review", "Edge Inference at Scale", "[]", int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewStatusService(db)
	if _, err := svc.NotifyAuthorsAggregate(7); !errors.Is(err, ErrAlreadyNotified) {
		t.Fatalf("expected ErrAlreadyNotified, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyAuthorsAggregateCollectsReviewerComments(t *testing.T) {
	authors := `[{"name":"Ann","email":"ann@example.com","mobile":"1234567890"}]`
	reviewedAt := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: registrationLockPattern,
			args:    []driver.Value{int64(7)},
			columns: []string{"id", "status", "paperTitle", "authors", "notificationSent"},
			rows:    [][]driver.Value{{int64(7), "under_review", "Edge Inference at Scale", authors, int64(0)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `paper_reviews` WHERE paperId = \\?"),
			args:    []driver.Value{int64(7)},
			columns: []string{"id", "paperId", "reviewerId", "status", "comments", "reviewedAt"},
			rows: [][]driver.Value{
				{int64(1), int64(7), int64(9), "accepted", "strong results", reviewedAt},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `users`"),
			columns: []string{"id", "name", "email", "role"},
			rows:    [][]driver.Value{{int64(9), "Rita Reviewer", "rita@example.com", "reviewer"}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `email_outbox`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `registrations` SET `notificationSent`"),
			args:    []driver.Value{true, int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewStatusService(db)
	queued, err := svc.NotifyAuthorsAggregate(7)
	if err != nil {
		t.Fatalf("NotifyAuthorsAggregate returned error: %v", err)
	}
	if queued != 1 {
		t.Fatalf("expected 1 queued, got %d", queued)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
