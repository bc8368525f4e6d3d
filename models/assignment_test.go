package models

import "testing"

func intPtr(v int) *int { return &v }

func TestFreeSlotPrefersSlotOne(t *testing.T) {
	a := &PaperAssignment{}
	if got := a.FreeSlot(); got != 1 {
		t.Fatalf("empty assignment: FreeSlot() = %d, want 1", got)
	}

	a.Reviewer1 = intPtr(9)
	if got := a.FreeSlot(); got != 2 {
		t.Fatalf("slot 1 taken: FreeSlot() = %d, want 2", got)
	}

	a.Reviewer2 = intPtr(11)
	if got := a.FreeSlot(); got != 0 {
		t.Fatalf("full assignment: FreeSlot() = %d, want 0", got)
	}
}

func TestClearSlotDoesNotPromote(t *testing.T) {
	a := &PaperAssignment{Reviewer1: intPtr(9), Reviewer2: intPtr(11)}

	a.ClearSlot(1)
	if a.Reviewer1 != nil {
		t.Fatalf("slot 1 should be empty")
	}
	if a.Reviewer2 == nil || *a.Reviewer2 != 11 {
		t.Fatalf("slot 2 must keep its occupant, got %v", a.Reviewer2)
	}

	// The freed slot is the next one to be filled.
	if got := a.FreeSlot(); got != 1 {
		t.Fatalf("FreeSlot() = %d, want 1", got)
	}
}

func TestSlotOfAndContains(t *testing.T) {
	a := &PaperAssignment{Reviewer2: intPtr(11)}

	if got := a.SlotOf(11); got != 2 {
		t.Fatalf("SlotOf(11) = %d, want 2", got)
	}
	if got := a.SlotOf(9); got != 0 {
		t.Fatalf("SlotOf(9) = %d, want 0", got)
	}
	if !a.Contains(11) || a.Contains(9) {
		t.Fatalf("Contains results wrong: %v %v", a.Contains(11), a.Contains(9))
	}
}

func TestReviewerIDsInSlotOrder(t *testing.T) {
	a := &PaperAssignment{Reviewer1: intPtr(9), Reviewer2: intPtr(11)}
	ids := a.ReviewerIDs()
	if len(ids) != 2 || ids[0] != 9 || ids[1] != 11 {
		t.Fatalf("ReviewerIDs() = %v, want [9 11]", ids)
	}

	a.ClearSlot(1)
	ids = a.ReviewerIDs()
	if len(ids) != 1 || ids[0] != 11 {
		t.Fatalf("after clearing slot 1: ReviewerIDs() = %v, want [11]", ids)
	}
}

func TestSlotColumn(t *testing.T) {
	if SlotColumn(1) != "reviewer1" || SlotColumn(2) != "reviewer2" {
		t.Fatalf("unexpected slot columns: %q %q", SlotColumn(1), SlotColumn(2))
	}
}
