package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrRead         = errors.New("read failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates an operation referenced a nonexistent entry or share
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input, rejected before any mutation
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewNotFound builds a NotFoundError for a resource kind and id.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (file, folder)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ReadError reports that one uploaded file's content could not be ingested.
// It is scoped to that file; the rest of the batch is unaffected.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %q: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) StatusCode() int { return http.StatusUnprocessableEntity }

func (e *ReadError) Is(target error) bool { return target == ErrRead }

// StorageWriteError reports that the durable store rejected a snapshot write.
// The in-memory state is already updated and will be written again on the
// next mutation or flush.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write snapshot %q: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

func (e *StorageWriteError) StatusCode() int { return http.StatusInsufficientStorage }

func (e *StorageWriteError) Is(target error) bool { return target == ErrStorageWrite }
