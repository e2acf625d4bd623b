package util

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrEmailRegistered    = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownContentType = errors.New("unknown content type")
	ErrSlugTaken          = errors.New("slug is already in use")
	ErrSubjectInUse       = errors.New("subject is referenced by existing courses")
)

// FieldError carries field-level validation detail back to the caller.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
