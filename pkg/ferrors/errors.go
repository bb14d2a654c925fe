// Package ferrors defines the typed error taxonomy shared across the
// compile-time and runtime halves of the form engine.
package ferrors

import (
	"fmt"
	"strings"
)

// Code identifies a well-known error category.
type Code string

const (
	// Structural errors, raised while compiling a journey.
	CodeInvalidNode        Code = "INVALID_NODE"
	CodeRegistryDuplicate  Code = "REGISTRY_DUPLICATE"
	CodeRegistryValidation Code = "REGISTRY_VALIDATION"

	// Evaluation errors, carried in a Result's error channel at runtime.
	CodeEvaluationFailed Code = "EVALUATION_FAILED"
	CodeHandlerNotFound  Code = "HANDLER_NOT_FOUND"
	CodeTypeError        Code = "TYPE_ERROR"
	CodeCycle            Code = "CYCLE"
)

// EngineError is the single error carrier used throughout the engine. It
// wraps an underlying cause, tags it with a stable Code, and optionally
// identifies the node that raised it.
type EngineError struct {
	Code    Code
	NodeID  string
	Message string
	Cause   error
	Context map[string]any
}

// New constructs an EngineError with no node identity.
func New(code Code, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// NewForNode constructs an EngineError scoped to a specific node.
func NewForNode(code Code, nodeID, message string) *EngineError {
	return &EngineError{Code: code, NodeID: nodeID, Message: message}
}

// Wrap constructs an EngineError that carries an underlying cause.
func Wrap(code Code, nodeID string, err error) *EngineError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &EngineError{Code: code, NodeID: nodeID, Message: message, Cause: err}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.NodeID != "" {
		fmt.Fprintf(&b, " [%s]", e.NodeID)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *EngineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is allows errors.Is comparisons by Code, independent of message/cause.
func (e *EngineError) Is(target error) bool {
	other, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// WithContext returns a copy of the error enriched with additional context.
func (e *EngineError) WithContext(ctx map[string]any) *EngineError {
	if e == nil {
		return nil
	}
	merged := make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &EngineError{
		Code:    e.Code,
		NodeID:  e.NodeID,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

// Aggregate collects multiple structural errors so authors see every
// problem from a single compile rather than stopping at the first one.
type Aggregate struct {
	Errors []error
}

// NewAggregate returns an empty Aggregate ready to accumulate errors.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Add appends a non-nil error to the aggregate.
func (a *Aggregate) Add(err error) {
	if err == nil {
		return
	}
	a.Errors = append(a.Errors, err)
}

// HasErrors reports whether any errors were collected.
func (a *Aggregate) HasErrors() bool {
	return a != nil && len(a.Errors) > 0
}

// ErrOrNil returns the aggregate as an error if it holds any entries, or nil.
func (a *Aggregate) ErrOrNil() error {
	if !a.HasErrors() {
		return nil
	}
	return a
}

// Error implements the error interface, joining every collected message.
func (a *Aggregate) Error() string {
	if a == nil || len(a.Errors) == 0 {
		return ""
	}
	parts := make([]string, len(a.Errors))
	for i, err := range a.Errors {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d error(s):\n  %s", len(parts), strings.Join(parts, "\n  "))
}
