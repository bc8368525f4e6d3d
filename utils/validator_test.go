package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"ann@example.com", "a.b+c@sub.example.org"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "ann", "ann@", "@example.com", "ann@example"}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestValidateMobileRequiresTenDigits(t *testing.T) {
	if !ValidateMobile("1234567890") {
		t.Fatalf("ten digits should be valid")
	}

	invalid := []string{"", "123456789", "12345678901", "12345abcde", "123 456 78"}
	for _, m := range invalid {
		if ValidateMobile(m) {
			t.Fatalf("expected %q to be invalid", m)
		}
	}
}

func TestValidatePasswordLength(t *testing.T) {
	if ok, _ := ValidatePassword("12345"); ok {
		t.Fatalf("short password should be rejected")
	}
	if ok, msg := ValidatePassword("123456"); !ok || msg != "" {
		t.Fatalf("six characters should pass, got %v %q", ok, msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  Ann\x00 "); got != "Ann" {
		t.Fatalf("SanitizeInput = %q, want %q", got, "Ann")
	}
}
