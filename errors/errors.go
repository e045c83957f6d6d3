/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a topic has never been registered
	ErrNotFound = errors.New("topic not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptRecord is returned when a stored owner record cannot be decoded
	ErrCorruptRecord = errors.New("corrupt owner record")

	// ErrUnavailable is returned when the directory store cannot serve a request
	ErrUnavailable = errors.New("directory unavailable")

	// ErrStoreRead is returned when the underlying store fails to read
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite is returned when the underlying store fails to write
	ErrStoreWrite = errors.New("store write failed")
)

// Store operations reported by StoreError
const (
	OpRead  = "read"
	OpWrite = "write"
	OpScan  = "scan"
)

// NotFoundError represents an error when a key is not present in the directory
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CorruptRecordError carries the raw stored value so operators can inspect it
type CorruptRecordError struct {
	Topic  string
	Raw    []byte
	Reason string
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt owner record for topic %q: %s", e.Topic, e.Reason)
}

func (e *CorruptRecordError) Is(target error) bool {
	return target == ErrCorruptRecord
}

// StoreError wraps an I/O or storage-engine failure from a backend.
type StoreError struct {
	Op      string
	Backend string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrStoreRead:
		return e.Op == OpRead || e.Op == OpScan
	case ErrStoreWrite:
		return e.Op == OpWrite
	}
	return false
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UnavailableError is the service-level failure surfaced when the store fails.
// Its message stays opaque; the cause is only reachable through Unwrap.
type UnavailableError struct {
	Op    string
	Topic string
	Err   error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("directory unavailable during %s of topic %q", e.Op, e.Topic)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewCorruptRecordError creates a new CorruptRecordError
func NewCorruptRecordError(topic string, raw []byte, reason string) error {
	return &CorruptRecordError{Topic: topic, Raw: raw, Reason: reason}
}

// NewStoreError creates a new StoreError. A nil err yields nil.
func NewStoreError(op, backend string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Backend: backend, Err: err}
}

// NewUnavailableError creates a new UnavailableError
func NewUnavailableError(op, topic string, err error) error {
	return &UnavailableError{Op: op, Topic: topic, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCorrupt checks if an error reports a corrupt owner record
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptRecord)
}

// IsUnavailable checks if an error is a directory unavailable error
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsStoreRead checks if an error is a store read failure
func IsStoreRead(err error) bool {
	return errors.Is(err, ErrStoreRead)
}

// IsStoreWrite checks if an error is a store write failure
func IsStoreWrite(err error) bool {
	return errors.Is(err, ErrStoreWrite)
}
