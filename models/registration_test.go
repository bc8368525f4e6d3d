package models

import "testing"

func TestParseAuthorsJSON(t *testing.T) {
	authors, err := ParseAuthors(`[{"name":"Ann","email":"ann@example.com","mobile":"1234567890"},{"name":"Ben"}]`)
	if err != nil {
		t.Fatalf("ParseAuthors returned error: %v", err)
	}
	if len(authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(authors))
	}
	if authors[0].Email != "ann@example.com" || authors[1].Name != "Ben" {
		t.Fatalf("unexpected authors: %+v", authors)
	}
}

func TestParseAuthorsLegacyCommaList(t *testing.T) {
	authors, err := ParseAuthors("Ann, Ben , ")
	if err != nil {
		t.Fatalf("ParseAuthors returned error: %v", err)
	}
	if len(authors) != 2 || authors[0].Name != "Ann" || authors[1].Name != "Ben" {
		t.Fatalf("unexpected authors: %+v", authors)
	}
}

func TestParseAuthorsRejectsBrokenJSON(t *testing.T) {
	if _, err := ParseAuthors(`[{"name":`); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
}

func TestParseAuthorsEmpty(t *testing.T) {
	authors, err := ParseAuthors("  ")
	if err != nil || authors != nil {
		t.Fatalf("expected nil, nil for blank input, got %v, %v", authors, err)
	}
}

func TestDecidedStatus(t *testing.T) {
	decided := []string{
		PaperStatusAccepted, PaperStatusMinorRevision, PaperStatusMajorRevision,
		PaperStatusRejected, PaperStatusPublished,
	}
	for _, s := range decided {
		if !DecidedStatus(s) {
			t.Fatalf("expected %q to be a decision", s)
		}
	}

	undecided := []string{PaperStatusSubmitted, PaperStatusUnderReview, "escalated", ""}
	for _, s := range undecided {
		if DecidedStatus(s) {
			t.Fatalf("expected %q not to be a decision", s)
		}
	}
}

func TestValidReviewStatusExcludesSubmitted(t *testing.T) {
	if ValidReviewStatus(PaperStatusSubmitted) {
		t.Fatalf("submitted is not a reviewer verdict")
	}
	if !ValidReviewStatus(PaperStatusUnderReview) {
		t.Fatalf("under_review should be a valid verdict")
	}
}
