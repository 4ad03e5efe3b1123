package httperr

import "testing"

func TestIsBadRequest(t *testing.T) {
	if IsBadRequest(nil) {
		t.Fatalf("expected false for nil")
	}
	if IsBadRequest(NewBadRequest("bad")) != true {
		t.Fatalf("expected true for BadRequestError")
	}
	if IsBadRequest(assertErr("other")) {
		t.Fatalf("expected false for non-BadRequestError")
	}
}

func TestIsValidation(t *testing.T) {
	if IsValidation(nil) {
		t.Fatalf("expected false for nil")
	}
	err := NewValidation("name is required")
	if !IsValidation(err) {
		t.Fatalf("expected true for ValidationError")
	}
	if err.Error() != "name is required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if IsValidation(NewBadRequest("bad")) {
		t.Fatalf("bad request must not match validation")
	}
}

func TestIsConflict(t *testing.T) {
	if !IsConflict(NewConflict("save in progress")) {
		t.Fatalf("expected true for ConflictError")
	}
	if IsConflict(assertErr("other")) {
		t.Fatalf("expected false for non-ConflictError")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewNotFound("record not found")) {
		t.Fatalf("expected true for NotFoundError")
	}
	if IsNotFound(NewConflict("nope")) {
		t.Fatalf("conflict must not match not-found")
	}
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
