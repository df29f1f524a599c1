package errors

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDocketErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *DocketError
		wantErr  string
		wantUser string
	}{
		{
			name:     "what only",
			err:      &DocketError{What: "something broke"},
			wantErr:  "something broke",
			wantUser: "Error: something broke",
		},
		{
			name:     "what and why",
			err:      &DocketError{What: "something broke", Why: "bad input"},
			wantErr:  "something broke: bad input",
			wantUser: "Error: something broke\n\nWhy: bad input",
		},
		{
			name: "full error",
			err: &DocketError{
				What:    "something broke",
				Why:     "bad input",
				Fix:     "try again",
				DocsURL: "https://example.com",
			},
			wantErr:  "something broke: bad input",
			wantUser: "Error: something broke\n\nWhy: bad input\n\nFix: try again\n\nDocs: https://example.com",
		},
		{
			name: "with cause",
			err: &DocketError{
				What:  "something broke",
				Cause: errors.New("underlying error"),
			},
			wantErr:  "something broke: underlying error",
			wantUser: "Error: something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantErr {
				t.Errorf("Error() = %q, want %q", got, tt.wantErr)
			}
			if got := tt.err.UserMessage(); got != tt.wantUser {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestDocketErrorJSON(t *testing.T) {
	err := &DocketError{
		Code:    CodeTaskNotFound,
		What:    "task 7a6e91c2 not found",
		Why:     "No task with this identifier exists",
		Fix:     "Run 'docket list' to see tasks",
		DocsURL: "https://example.com",
		Cause:   errors.New("file not found"),
	}

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("MarshalJSON failed: %v", marshalErr)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if result["code"] != string(CodeTaskNotFound) {
		t.Errorf("code = %v, want %v", result["code"], CodeTaskNotFound)
	}
	if result["what"] != "task 7a6e91c2 not found" {
		t.Errorf("what = %v, want %v", result["what"], "task 7a6e91c2 not found")
	}
	if result["cause"] != "file not found" {
		t.Errorf("cause = %v, want %v", result["cause"], "file not found")
	}
}

func TestErrTaskNotFoundError(t *testing.T) {
	err := ErrTaskNotFound("7a6e91c2-52f1-4c4e-8d6a-09e2f4cc61b0")

	if err.Code != CodeTaskNotFound {
		t.Errorf("Code = %v, want %v", err.Code, CodeTaskNotFound)
	}
	if err.What != "task 7a6e91c2-52f1-4c4e-8d6a-09e2f4cc61b0 not found" {
		t.Errorf("What = %v, want task-not-found message", err.What)
	}
	if err.Fix == "" {
		t.Error("Fix should not be empty")
	}
}

func TestErrTaskCompletedError(t *testing.T) {
	err := ErrTaskCompleted("abc")

	if err.Code != CodeTaskCompleted {
		t.Errorf("Code = %v, want %v", err.Code, CodeTaskCompleted)
	}
	if err.What == "" {
		t.Error("What should not be empty")
	}
}

func TestErrTaskReferencedError(t *testing.T) {
	err := ErrTaskReferenced("abc", []string{"dep-1", "dep-2"})

	if err.Code != CodeTaskReferenced {
		t.Errorf("Code = %v, want %v", err.Code, CodeTaskReferenced)
	}
	if err.What != "task abc is depended on by 2 other task(s)" {
		t.Errorf("What = %v, want dependent count", err.What)
	}
	if len(err.Dependents) != 2 {
		t.Errorf("Dependents = %v, want 2 ids", err.Dependents)
	}

	// Dependent ids must survive JSON marshaling for --json consumers
	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("MarshalJSON failed: %v", marshalErr)
	}
	var result map[string]any
	if jsonErr := json.Unmarshal(data, &result); jsonErr != nil {
		t.Fatalf("Unmarshal failed: %v", jsonErr)
	}
	deps, ok := result["dependents"].([]any)
	if !ok || len(deps) != 2 {
		t.Errorf("dependents = %v, want 2-element array", result["dependents"])
	}
}

func TestErrTaskBlockedError(t *testing.T) {
	err := ErrTaskBlocked("abc", []string{"x", "y", "z"})

	if err.Code != CodeTaskBlocked {
		t.Errorf("Code = %v, want %v", err.Code, CodeTaskBlocked)
	}
	if err.Why != "Waiting on 3 incomplete dependency task(s): x, y, z" {
		t.Errorf("Why = %v, want blocker list", err.Why)
	}
}

func TestErrTaskNotInProgressError(t *testing.T) {
	err := ErrTaskNotInProgress("abc", "PENDING")

	if err.Code != CodeTaskNotInProgress {
		t.Errorf("Code = %v, want %v", err.Code, CodeTaskNotInProgress)
	}
	if err.What != "task abc is in state 'PENDING', expected 'IN_PROGRESS'" {
		t.Errorf("What = %v, want state message", err.What)
	}
}

func TestErrDuplicateTaskNameError(t *testing.T) {
	err := ErrDuplicateTaskName("Build parser")

	if err.Code != CodeDuplicateTaskName {
		t.Errorf("Code = %v, want %v", err.Code, CodeDuplicateTaskName)
	}
	if err.What != "duplicate task name 'Build parser' in batch" {
		t.Errorf("What = %v, want duplicate-name message", err.What)
	}
}

func TestErrInvalidModeError(t *testing.T) {
	err := ErrInvalidMode("merge")

	if err.Code != CodeInvalidMode {
		t.Errorf("Code = %v, want %v", err.Code, CodeInvalidMode)
	}
	if err.Why == "" {
		t.Error("Why should list the supported modes")
	}
}

func TestErrSummaryRequiredError(t *testing.T) {
	err := ErrSummaryRequired("abc")

	if err.Code != CodeSummaryRequired {
		t.Errorf("Code = %v, want %v", err.Code, CodeSummaryRequired)
	}
}

func TestErrConfigInvalidError(t *testing.T) {
	err := ErrConfigInvalid("pageSize", "must be positive")

	if err.Code != CodeConfigInvalid {
		t.Errorf("Code = %v, want %v", err.Code, CodeConfigInvalid)
	}
}

func TestErrorCodeUniqueness(t *testing.T) {
	codes := []Code{
		CodeTaskNotFound,
		CodeTaskCompleted,
		CodeTaskReferenced,
		CodeTaskBlocked,
		CodeTaskNotInProgress,
		CodeDuplicateTaskName,
		CodeInvalidMode,
		CodeSummaryRequired,
		CodeConfigInvalid,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      *DocketError
		wantCode int
	}{
		{ErrTaskNotFound("x"), 4},
		{ErrTaskCompleted("x"), 2},
		{ErrTaskReferenced("x", nil), 3},
		{ErrTaskBlocked("x", nil), 3},
		{ErrTaskNotInProgress("x", "PENDING"), 2},
		{ErrDuplicateTaskName("x"), 2},
		{ErrInvalidMode("x"), 2},
		{ErrSummaryRequired("x"), 2},
		{ErrConfigInvalid("x", "y"), 2},
		{Wrap(errors.New("boom"), "operation failed"), 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			if got := tt.err.ExitCode(); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrTaskNotFound("x").WithCause(cause)

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestWithCause(t *testing.T) {
	original := ErrTaskReferenced("abc", []string{"d1"})
	cause := errors.New("file not found")
	wrapped := original.WithCause(cause)

	// Wrapped should have cause
	if wrapped.Cause != cause {
		t.Error("WithCause should set the cause")
	}

	// Original should be unchanged
	if original.Cause != nil {
		t.Error("Original should not be modified")
	}

	// All other fields should be copied
	if wrapped.Code != original.Code {
		t.Error("Code should be copied")
	}
	if wrapped.What != original.What {
		t.Error("What should be copied")
	}
	if len(wrapped.Dependents) != 1 {
		t.Error("Dependents should be copied")
	}
}

func TestIs(t *testing.T) {
	err1 := ErrTaskNotFound("task-1")
	err2 := ErrTaskNotFound("task-2")
	err3 := ErrTaskCompleted("task-1")

	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match with Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match")
	}
}

func TestAsDocketError(t *testing.T) {
	dErr := ErrTaskNotFound("x")

	// Direct DocketError
	result := AsDocketError(dErr)
	if result == nil {
		t.Error("AsDocketError should return the error")
	}

	// Wrapped DocketError
	wrapped := dErr.WithCause(errors.New("cause"))
	result = AsDocketError(wrapped)
	if result == nil {
		t.Error("AsDocketError should return wrapped DocketError")
	}

	// Non-DocketError
	result = AsDocketError(errors.New("regular error"))
	if result != nil {
		t.Error("AsDocketError should return nil for non-DocketError")
	}

	// Nil error
	result = AsDocketError(nil)
	if result != nil {
		t.Error("AsDocketError should return nil for nil error")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, "operation failed")

	if err.What != "operation failed" {
		t.Errorf("What = %v, want 'operation failed'", err.What)
	}
	if err.Cause != cause {
		t.Error("Cause should be set")
	}
	if err.Code != Code("UNKNOWN") {
		t.Errorf("Code = %v, want UNKNOWN", err.Code)
	}
}
