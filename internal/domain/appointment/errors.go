package appointment

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStylistNotFound     = errors.New("stylist not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrSlotUnavailable     = errors.New("requested slot is no longer available")
)

// ValidationError carries per-field messages for rejected input
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// StorageError wraps a persistence failure with the operation that hit it
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "appointment storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
