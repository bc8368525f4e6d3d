package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"
)

var outboxDuePattern = regexp.MustCompile("SELECT .* FROM `email_outbox` WHERE status = \\? AND nextAttemptAt <= \\?")

func dueOutboxRow(id string, attempts int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: outboxDuePattern,
		columns: []string{"id", "recipient", "subject", "body", "status", "attempts", "nextAttemptAt"},
		rows: [][]driver.Value{{
			id, "ann@example.com", "Paper Status Update", "<p>hello</p>", "pending", attempts, time.Now().Add(-time.Minute),
		}},
	}
}

func TestEmailWorkerMarksSentOnSuccess(t *testing.T) {
	steps := []*queryStep{
		dueOutboxRow("evt-1", 0),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	var sentTo string
	worker := NewEmailWorker(db, func(to, subject, body string) error {
		sentTo = to
		return nil
	})

	if err := worker.ProcessOnce(); err != nil {
		t.Fatalf("ProcessOnce returned error: %v", err)
	}
	if sentTo != "ann@example.com" {
		t.Fatalf("expected delivery to ann@example.com, got %q", sentTo)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestEmailWorkerRetriesThenFailsPermanently(t *testing.T) {
	steps := []*queryStep{
		dueOutboxRow("evt-2", 0),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		// Final attempt: the row reaches MaxAttempts and flips to failed.
		dueOutboxRow("evt-2", 4),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	calls := 0
	worker := NewEmailWorker(db, func(to, subject, body string) error {
		calls++
		return errors.New("smtp unavailable")
	})

	if err := worker.ProcessOnce(); err != nil {
		t.Fatalf("first pass returned error: %v", err)
	}
	if err := worker.ProcessOnce(); err != nil {
		t.Fatalf("second pass returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", calls)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestEmailWorkerBackoffDoublesAndCaps(t *testing.T) {
	worker := NewEmailWorker(nil, nil)

	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{10, time.Hour},
	}
	for _, tc := range cases {
		if got := worker.backoff(tc.attempts); got != tc.want {
			t.Fatalf("backoff(%d) = %v, want %v", tc.attempts, got, tc.want)
		}
	}
}
