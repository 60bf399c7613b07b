// Package errs holds the error taxonomy shared by the inference pipeline and
// the comparison harness.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError with errors.Is.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration matches every *ConfigurationError with errors.Is.
	ErrConfiguration = errors.New("configuration error")
)

// Problem describes one rejected field of an input.
type Problem struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// ValidationError reports malformed, out-of-range or unsupported input.
// The caller can always recover by correcting the input.
type ValidationError struct {
	Op       string
	Problems []Problem
}

func Validation(op string, problems ...Problem) *ValidationError {
	return &ValidationError{Op: op, Problems: problems}
}

func Invalid(op, field, reason string) *ValidationError {
	return Validation(op, Problem{Field: field, Reason: reason})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Field == "" {
			parts = append(parts, p.Reason)
			continue
		}
		parts = append(parts, p.Field+": "+p.Reason)
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Op, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigurationError reports missing or mutually inconsistent trained
// artifacts. It is the operator's fault and must block serving.
type ConfigurationError struct {
	Component string
	Reason    string
}

func Configuration(component, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: misconfigured: %s", e.Component, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
