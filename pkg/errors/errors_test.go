package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "bad width: %d", -1)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Message != "bad width: -1" {
		t.Errorf("Message = %v, want %v", err.Message, "bad width: -1")
	}

	expected := "INVALID_CONFIG: bad width: -1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeSourceRead, cause, "read land.shp")

	if err.Code != ErrCodeSourceRead {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSourceRead)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
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
			err:      New(ErrCodeProjection, "test"),
			code:     ErrCodeProjection,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeProjection, "test"),
			code:     ErrCodeOutputWrite,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeOutputWrite, New(ErrCodeCanvasClosed, "inner"), "outer"),
			code:     ErrCodeOutputWrite,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("load land: %w", SourceRead(errors.New("boom"), "land.shp")),
			code:     ErrCodeSourceRead,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeSourceRead,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeSourceRead,
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
		{"Error type", GeometryOperation(nil, "ring not closed"), ErrCodeGeometryOperation},
		{"output helper", OutputWrite(errors.New("disk full"), "out.png"), ErrCodeOutputWrite},
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
		{"Error type", New(ErrCodeInvalidConfig, "friendly message"), "friendly message"},
		{"with cause", Projection(errors.New("latitude out of range"), "project point"), "project point: latitude out of range"},
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

func TestSourceReadMessage(t *testing.T) {
	err := SourceRead(errors.New("no such file"), "data/land.shp")
	want := "SOURCE_READ: read geometry source data/land.shp: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
