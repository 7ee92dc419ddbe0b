package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	missing := errors.New("open scripts/combat.py: no such file")
	tests := []struct {
		name  string
		err   *Error
		code  Code
		msg   string
		cause error
		text  string
	}{
		{
			name: "new",
			err:  New(ErrCodeInvalidKey, "key %q has no section", "bab"),
			code: ErrCodeInvalidKey,
			msg:  `key "bab" has no section`,
			text: `INVALID_KEY: key "bab" has no section`,
		},
		{
			name:  "wrap",
			err:   Wrap(ErrCodeFileNotFound, missing, "declaration source %s", "combat.py"),
			code:  ErrCodeFileNotFound,
			msg:   "declaration source combat.py",
			cause: missing,
			text:  "FILE_NOT_FOUND: declaration source combat.py: open scripts/combat.py: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code || tt.err.Message != tt.msg {
				t.Errorf("got %s %q, want %s %q", tt.err.Code, tt.err.Message, tt.code, tt.msg)
			}
			if got := errors.Unwrap(tt.err); got != tt.cause {
				t.Errorf("Unwrap() = %v, want %v", got, tt.cause)
			}
			if tt.cause != nil && !errors.Is(tt.err, tt.cause) {
				t.Error("errors.Is should reach the cause")
			}
			if got := tt.err.Error(); got != tt.text {
				t.Errorf("Error() = %q, want %q", got, tt.text)
			}
		})
	}
}

type codedErr struct{}

func (codedErr) Error() string   { return "cycle" }
func (codedErr) ErrorCode() Code { return ErrCodeCyclicDependency }

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("rank: %w", New(ErrCodeInvalidKey, "bad")),
			code:     ErrCodeInvalidKey,
			expected: true,
		},
		{
			name:     "custom coder",
			err:      fmt.Errorf("rank: %w", codedErr{}),
			code:     ErrCodeCyclicDependency,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
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
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidDeclaration, "test"), ErrCodeInvalidDeclaration},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
