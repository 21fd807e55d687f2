package server

import (
	"errors"
	"strings"
)

// Sentinel errors for task API operations.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidBody   = errors.New("invalid request body")
)

// MissingFieldsError lists the required fields absent from a create body.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }
