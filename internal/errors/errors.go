// Package errors provides a lightweight structured error type (GalleriaError)
// for category-based classification of parse, execution and configuration
// failures in the gallery build.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a Galleria error for classification
type ErrorCategory string

const (
	// User-facing input and configuration errors
	CategoryParse      ErrorCategory = "parse"
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Example execution errors
	CategoryExecution ErrorCategory = "execution"

	// Artifact and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the file (or the whole run)
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// GalleriaError is a structured error with category, severity, and context
type GalleriaError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for GalleriaError
type ContextFields map[string]any

// Error implements the error interface
func (e *GalleriaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains
func (e *GalleriaError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *GalleriaError) WithContext(key string, value any) *GalleriaError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a GalleriaError without a cause
func New(category ErrorCategory, severity ErrorSeverity, message string) *GalleriaError {
	return &GalleriaError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a GalleriaError wrapping an underlying cause
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *GalleriaError {
	return &GalleriaError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory reports whether err is a GalleriaError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	ge, ok := err.(*GalleriaError)
	return ok && ge.Category == category
}
