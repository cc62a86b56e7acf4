package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError_Add(t *testing.T) {
	var verr ValidationError
	if verr.HasErrors() {
		t.Fatal("empty ValidationError should report no errors")
	}

	verr.Add("tenantId", "is required")
	verr.Add("tenantId", "second message is ignored")
	verr.Add("name", "is required")

	if !verr.HasErrors() {
		t.Fatal("HasErrors() = false, want true")
	}
	if verr.Fields["tenantId"] != "is required" {
		t.Errorf("Fields[tenantId] = %q, want first message", verr.Fields["tenantId"])
	}

	want := "validation failed: name: is required; tenantId: is required"
	if verr.Error() != want {
		t.Errorf("Error() = %q, want %q", verr.Error(), want)
	}
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&PersistenceError{Op: "create tenant", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("PersistenceError should unwrap to its cause")
	}

	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "create tenant" {
		t.Errorf("errors.As failed or wrong op: %+v", perr)
	}
}

func TestConflictError_Message(t *testing.T) {
	err := &ConflictError{Field: "tenantId", Value: "acme-kk"}
	if !strings.Contains(err.Error(), `"acme-kk"`) {
		t.Errorf("Error() = %q, want quoted value", err.Error())
	}
}

func TestTeardownPartialFailure_Message(t *testing.T) {
	err := &TeardownPartialFailure{Failures: map[string]error{
		"session": errors.New("db down"),
		"cookies": errors.New("headers already written"),
	}}
	want := "credential teardown incomplete: cookies: headers already written; session: db down"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
