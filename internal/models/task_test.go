package models

import "testing"

func TestTaskStatusValid(t *testing.T) {
	for _, s := range []TaskStatus{StatusTodo, StatusInProgress, StatusDone} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []TaskStatus{"", "todo", "BLOCKED", "DONE "} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestProjectIsOwner(t *testing.T) {
	p := Project{OwnerID: "owner"}

	if !p.IsOwner("owner") || p.IsOwner("member") {
		t.Error("IsOwner mismatch")
	}
}
