package common

import (
	"errors"
	"fmt"
)

// Category classifies a pipeline failure. Categories are stable strings:
// they appear in the response envelope's code field and in the audit table.
type Category string

const (
	CategoryValidation Category = "validation_error" // missing required request fields
	CategoryFetch      Category = "fetch_error"      // document download failure
	CategoryExtraction Category = "extraction_error" // no usable text from text layer or OCR
	CategoryAI         Category = "ai_error"         // upstream model call failed
	CategoryParse      Category = "parse_error"      // model responded but violated the JSON contract
	CategoryStorage    Category = "storage_error"    // durable upload or signed-URL generation failed
	CategoryUnexpected Category = "unexpected_error" // catch-all
)

// AppError carries a failure category alongside the human-readable detail.
// Every stage failure is converted to the uniform envelope at the
// orchestrator boundary; no other error type reaches the caller.
type AppError struct {
	Category Category
	Message  string
	Cause    error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(category Category, message string, cause error) *AppError {
	return &AppError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// CategoryOf extracts the failure category from err, walking the wrap chain.
// Anything that is not an AppError classifies as unexpected_error.
func CategoryOf(err error) Category {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryUnexpected
}

// MessageOf returns the human-readable detail for the envelope.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return fmt.Sprintf("Unexpected error: %v", err)
}
