package errors

import (
	"fmt"
	"strings"
)

// Error types for the codenav query engine
type ErrorType string

const (
	// Input-contract violations, reported before any parsing happens
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeLanguage ErrorType = "language"

	// Not-found conditions, expected and recoverable by the caller
	ErrorTypeNotFound ErrorType = "not_found"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// InputError represents an input-contract violation: a required text
// argument that is empty, an argument with the wrong shape, or source text
// that exceeds the pre-parse size limit.
type InputError struct {
	Type   ErrorType
	Field  string
	Reason string
}

// NewInputError creates a new input-contract violation for a named argument
func NewInputError(field, reason string) *InputError {
	return &InputError{
		Type:   ErrorTypeInput,
		Field:  field,
		Reason: reason,
	}
}

// Error implements the error interface
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// UnsupportedLanguageError reports a language tag outside the supported set.
// It is an input-contract violation: nothing is parsed when it is returned.
type UnsupportedLanguageError struct {
	Type      ErrorType
	Tag       string
	Supported []string
}

// NewUnsupportedLanguageError creates an error naming the bad tag and the supported set
func NewUnsupportedLanguageError(tag string, supported []string) *UnsupportedLanguageError {
	return &UnsupportedLanguageError{
		Type:      ErrorTypeLanguage,
		Tag:       tag,
		Supported: supported,
	}
}

// Error implements the error interface
func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (supported: %s)", e.Tag, strings.Join(e.Supported, ", "))
}

// NotFoundError reports that a named function, type, or method does not
// exist in the parsed unit. It always names both the entity kind and the
// identifier, and may carry close-identifier suggestions.
type NotFoundError struct {
	Type        ErrorType
	Kind        string
	Name        string
	Scope       string
	Suggestions []string
}

// NewNotFoundError creates a not-found error for an entity kind and identifier
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{
		Type: ErrorTypeNotFound,
		Kind: kind,
		Name: name,
	}
}

// WithScope records the enclosing type the lookup was restricted to
func (e *NotFoundError) WithScope(scope string) *NotFoundError {
	e.Scope = scope
	return e
}

// WithSuggestions attaches "did you mean" candidates
func (e *NotFoundError) WithSuggestions(suggestions []string) *NotFoundError {
	e.Suggestions = suggestions
	return e
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	if e.Scope != "" {
		msg += fmt.Sprintf(" in type %q", e.Scope)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// InternalError wraps an unexpected failure inside the engine, such as a
// parser that produced no tree at all.
type InternalError struct {
	Type       ErrorType
	Operation  string
	Underlying error
}

// NewInternalError creates a new internal error with context
func NewInternalError(op string, err error) *InternalError {
	return &InternalError{
		Type:       ErrorTypeInternal,
		Operation:  op,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("internal: %s failed: %v", e.Operation, e.Underlying)
	}
	return fmt.Sprintf("internal: %s failed", e.Operation)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *InternalError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Type       ErrorType
	Field      string
	Value      string
	Underlying error
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Type:       ErrorTypeConfig,
		Field:      field,
		Value:      value,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// Kind classifies any error into one of the ErrorType categories.
// Unknown errors are internal.
func Kind(err error) ErrorType {
	switch err.(type) {
	case *InputError:
		return ErrorTypeInput
	case *UnsupportedLanguageError:
		return ErrorTypeLanguage
	case *NotFoundError:
		return ErrorTypeNotFound
	case *ConfigError:
		return ErrorTypeConfig
	default:
		return ErrorTypeInternal
	}
}

// IsNotFound reports whether err is a recoverable not-found condition
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsInput reports whether err is an input-contract violation, including an
// unsupported language tag
func IsInput(err error) bool {
	switch err.(type) {
	case *InputError, *UnsupportedLanguageError:
		return true
	}
	return false
}
