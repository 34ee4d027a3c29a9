package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidIntake     = errors.New("invalid_intake")
	ErrAlreadyRegistered = errors.New("already_registered")
	ErrEventNotFound     = errors.New("event_not_found")
	ErrNotFound          = errors.New("booking_not_found")
	ErrInternal          = errors.New("registration_internal_error")
	ErrInvalidPageToken  = errors.New("invalid_page_token")
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors collects every intake problem found in one pass.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v *ValidationErrors) Add(field, code, message string) {
	v.Errors = append(v.Errors, ValidationError{Field: field, Code: code, Message: message})
}

func (v *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationErrors) Unwrap() error { return ErrInvalidIntake }

func (v *ValidationErrors) MetricReason() string { return ErrInvalidIntake.Error() }

func (v *ValidationErrors) orNil() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// StageError reports which pipeline stage failed after the provisional
// booking was written.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return "registration " + e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }
