package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorUnwrapsToKind(t *testing.T) {
	err := NotFound("Project not found")

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	if errors.Is(err, ErrForbidden) {
		t.Fatalf("did not expect ErrForbidden")
	}
	if err.Error() != "Project not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestMessageSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("invite: %w", Conflict("User already a member"))

	if got := Message(err); got != "User already a member" {
		t.Errorf("Message() = %q", got)
	}
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected wrapped error to match ErrConflict")
	}
	if got := Message(errors.New("boom")); got != "" {
		t.Errorf("Message(plain) = %q, want empty", got)
	}
}
