package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeInvalidSpecDefinition = "INVALID_SPEC_DEFINITION"
	ErrCodeDuplicateSpecName     = "DUPLICATE_SPEC_NAME"
	ErrCodeUnknownSpecReference  = "UNKNOWN_SPEC_REFERENCE"
	ErrCodeModelPublished        = "MODEL_PUBLISHED"
	ErrCodeInvalidConstraint     = "INVALID_CONSTRAINT"
	ErrCodeInvalidDescriptor     = "INVALID_DESCRIPTOR"
	ErrCodePluginInvalid         = "PLUGIN_INVALID"
)

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrInvalidSpecDefinition = &Error{Code: ErrCodeInvalidSpecDefinition}
	ErrDuplicateSpecName     = &Error{Code: ErrCodeDuplicateSpecName}
	ErrUnknownSpecReference  = &Error{Code: ErrCodeUnknownSpecReference}
	ErrModelPublished        = &Error{Code: ErrCodeModelPublished}
	ErrInvalidConstraint     = &Error{Code: ErrCodeInvalidConstraint}
	ErrInvalidDescriptor     = &Error{Code: ErrCodeInvalidDescriptor}
	ErrPluginInvalid         = &Error{Code: ErrCodePluginInvalid}
)

// Error is the structured error type returned while building specs, models
// and descriptors.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Spec    string         `json:"spec,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Spec != "" {
		return fmt.Sprintf("[%s] spec %s: %s", e.Code, e.Spec, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithSpec attaches a spec name to the error.
func (e *Error) WithSpec(name string) *Error {
	e.Spec = name
	return e
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}
