/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("topic", "telemetry")

	// Test error message
	expected := `topic with key "telemetry" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	// Test Is method
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	// Test helper function
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "node_port",
			message:  "must be between 1 and 65535",
			expected: `validation failed for field "node_port": must be between 1 and 65535`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing required fields",
			expected: "validation failed: missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestCorruptRecordError(t *testing.T) {
	err := NewCorruptRecordError("telemetry", []byte("garbage"), "missing separator")

	expected := `corrupt owner record for topic "telemetry": missing separator`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsCorrupt(err) {
		t.Error("IsCorrupt should return true for CorruptRecordError")
	}

	var cre *CorruptRecordError
	if !errors.As(err, &cre) || string(cre.Raw) != "garbage" {
		t.Error("CorruptRecordError should expose the raw value")
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk on fire")

	read := NewStoreError(OpRead, "badger", cause)
	if !IsStoreRead(read) || IsStoreWrite(read) {
		t.Error("read StoreError should only match ErrStoreRead")
	}
	if !errors.Is(read, cause) {
		t.Error("StoreError should unwrap to its cause")
	}

	write := NewStoreError(OpWrite, "badger", cause)
	if !IsStoreWrite(write) || IsStoreRead(write) {
		t.Error("write StoreError should only match ErrStoreWrite")
	}

	scan := NewStoreError(OpScan, "dynamodb", cause)
	if !IsStoreRead(scan) {
		t.Error("scan StoreError should match ErrStoreRead")
	}

	if NewStoreError(OpRead, "badger", nil) != nil {
		t.Error("NewStoreError with nil cause should return nil")
	}
}

func TestUnavailableError(t *testing.T) {
	storeErr := NewStoreError(OpWrite, "badger", errors.New("no space left on device"))
	err := NewUnavailableError("register", "telemetry", storeErr)

	if !IsUnavailable(err) {
		t.Error("IsUnavailable should return true for UnavailableError")
	}
	if !IsStoreWrite(err) {
		t.Error("UnavailableError should unwrap to the store error")
	}

	expected := `directory unavailable during register of topic "telemetry"`
	if err.Error() != expected {
		t.Errorf("Expected opaque message %q, got %q", expected, err.Error())
	}
}

func TestErrorWrapping(t *testing.T) {
	// Test that wrapped errors still match
	original := NewNotFoundError("topic", "telemetry")
	wrapped := fmt.Errorf("resolve failed: %w", original)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("Wrapped NotFoundError should still match ErrNotFound")
	}

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	// Ensure sentinel errors are distinct
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrCorruptRecord,
		ErrUnavailable,
		ErrStoreRead,
		ErrStoreWrite,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
