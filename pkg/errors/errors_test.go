package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidReference, "test message: %s", "value")

	if err.Code != ErrCodeInvalidReference {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidReference)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_REFERENCE: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("error: attribute 'foo' missing")
	err := Wrap(ErrCodeBuildFailed, cause, "building github:example/tools#foo")

	if err.Code != ErrCodeBuildFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeBuildFailed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	// The builder's own diagnostic text must survive wrapping.
	if got := err.Error(); got != "BUILD_FAILED: building github:example/tools#foo: error: attribute 'foo' missing" {
		t.Errorf("Error() = %v", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNoOutputs, "test"),
			code:     ErrCodeNoOutputs,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNoOutputs, "test"),
			code:     ErrCodeBuildFailed,
			expected: false,
		},
		{
			name:     "wrapped in fmt.Errorf",
			err:      fmt.Errorf("context: %w", New(ErrCodeNoCandidates, "test")),
			code:     ErrCodeNoCandidates,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNixNotFound, "test")); got != ErrCodeNixNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNixNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeBuildFailed, "build failed for hello")); got != "build failed for hello" {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %v", got)
	}
}
