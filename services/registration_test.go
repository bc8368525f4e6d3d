package services

import (
	"errors"
	"testing"

	"conference-api/models"
)

func validInput() *RegistrationInput {
	return &RegistrationInput{
		UserID:     3,
		PaperTitle: "Edge Inference at Scale",
		Authors: []models.Author{
			{Name: "Ann", Email: "ann@example.com", Mobile: "1234567890"},
		},
		Abstract: []byte("%PDF-1.7 ..."),
		Tracks:   "ml-systems",
		Country:  "India",
		State:    "Karnataka",
		City:     "Bengaluru",
	}
}

func TestRegistrationInputValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RegistrationInput)
		field  string
	}{
		{"missing title", func(in *RegistrationInput) { in.PaperTitle = "  " }, "paper_title"},
		{"missing abstract", func(in *RegistrationInput) { in.Abstract = nil }, "abstract"},
		{"no authors", func(in *RegistrationInput) { in.Authors = nil }, "authors"},
		{"short mobile", func(in *RegistrationInput) { in.Authors[0].Mobile = "12345" }, "authors"},
		{"non numeric mobile", func(in *RegistrationInput) { in.Authors[0].Mobile = "12345abcde" }, "authors"},
		{"bad email", func(in *RegistrationInput) { in.Authors[0].Email = "not-an-email" }, "authors"},
	}

	svc := NewRegistrationService(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)

			_, err := svc.Create(in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestFinalizeSubmissionRequiresFile(t *testing.T) {
	svc := NewRegistrationService(nil)
	_, err := svc.FinalizeSubmission(7, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
