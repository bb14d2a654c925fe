package eval

import "github.com/alexisbeaulieu97/formengine/pkg/ferrors"

// ErrorInfo is the error channel of a Result: a typed, node-scoped failure
// description rather than a Go error, so handlers can return it as data
// and callers decide how to interpret it (spec's "errors are data, not
// thrown" propagation policy).
type ErrorInfo struct {
	Type    ferrors.Code
	NodeID  string
	Message string
}

// Result is the discriminated union every handler evaluation produces:
// either a Value (Error nil) or an Error (Value always nil alongside it).
type Result struct {
	Value    any
	Error    *ErrorInfo
	Metadata map[string]any
}

// Ok wraps a successful value with no metadata.
func Ok(value any) Result {
	return Result{Value: value}
}

// OkMeta wraps a successful value with metadata attached.
func OkMeta(value any, metadata map[string]any) Result {
	return Result{Value: value, Metadata: metadata}
}

// Err constructs an error Result scoped to nodeID.
func Err(code ferrors.Code, nodeID, message string) Result {
	return Result{Error: &ErrorInfo{Type: code, NodeID: nodeID, Message: message}}
}

// IsError reports whether r carries an error.
func (r Result) IsError() bool {
	return r.Error != nil
}
