// Package handlers implements C7: one compiled evaluator per AST node
// kind. Every handler is a thin adapter over internal/eval's Context and
// Invoker — the actual node-kind semantics (truthiness, short-circuit
// composition, the submit state machine) live here because that is what
// spec.md §4.7 calls "Thunk Handlers": a node carries no evaluation
// behavior of its own, only shape: a handler is compiled for it once, at
// C9 phase 9, and thereafter the node id is all the evaluator ever
// touches directly.
package handlers

import (
	"fmt"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// base carries the identity and async-ness every handler shares.
type base struct {
	id      string
	isAsync bool
}

func (b *base) NodeID() string { return b.id }
func (b *base) IsAsync() bool  { return b.isAsync }

// New builds the handler for node's concrete kind. SubmitTransition is
// the one exception: its handler also needs the owning step's reachable
// Validation nodes, which the AST itself doesn't carry (a SubmitTransition
// has no back-reference to its step) — C9 builds that handler directly
// via NewSubmitTransitionHandler instead of going through New.
func New(node ast.Node) (eval.Handler, error) {
	switch n := node.(type) {
	case *ast.Reference:
		return newReferenceHandler(n), nil
	case *ast.Literal:
		return newLiteralHandler(n), nil
	case *ast.FunctionCall:
		return newFunctionCallHandler(n), nil
	case *ast.Pipeline:
		return newPipelineHandler(n), nil
	case *ast.Format:
		return newFormatHandler(n), nil
	case *ast.Iterate:
		return newIterateHandler(n), nil
	case *ast.Collection:
		return newCollectionHandler(n), nil
	case *ast.Conditional:
		return newConditionalHandler(n), nil
	case *ast.Validation:
		return newValidationHandler(n), nil
	case *ast.Next:
		return newNextHandler(n), nil
	case *ast.Test:
		return newTestHandler(n), nil
	case *ast.And:
		return newAndHandler(n), nil
	case *ast.Or:
		return newOrHandler(n), nil
	case *ast.Xor:
		return newXorHandler(n), nil
	case *ast.Not:
		return newNotHandler(n), nil
	case *ast.Redirect:
		return newRedirectHandler(n), nil
	case *ast.ThrowError:
		return newThrowErrorHandler(n), nil
	case *ast.SimpleTransition:
		return newSimpleTransitionHandler(n), nil
	case *ast.SubmitTransition:
		return NewSubmitTransitionHandler(n, nil), nil
	case *ast.Step:
		return newStepHandler(n), nil
	case *ast.BasicBlock:
		return newBasicBlockHandler(n), nil
	case *ast.FieldBlock:
		return newFieldBlockHandler(n), nil
	case *ast.Pseudo:
		return newPseudoHandler(n), nil
	case *ast.Journey:
		return newJourneyHandler(n), nil
	default:
		return nil, ferrors.NewForNode(ferrors.CodeHandlerNotFound, node.ID(), fmt.Sprintf("no handler for kind %s", node.Kind()))
	}
}

// idOf returns n's id, or "" for a nil operand so callers can filter it
// out of an async-union without a separate nil check at every call site.
func idOf(n ast.Node) string {
	if n == nil {
		return ""
	}
	return n.ID()
}

// unionAsync reports whether any of ids is async, conservatively treating
// a dependency isAsync can't resolve as async (the caller's isAsync
// closure is expected to default unknowns to true itself).
func unionAsync(isAsync func(string) bool, ids ...string) bool {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if isAsync(id) {
			return true
		}
	}
	return false
}

func exprIDs(exprs []ast.Expression) []string {
	out := make([]string, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, idOf(e))
	}
	return out
}

func nodeIDs(nodes []ast.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, idOf(n))
	}
	return out
}

func outcomeIDs(outcomes []ast.Outcome) []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, idOf(o))
	}
	return out
}

// evalNodeOrNil invokes n (if non-nil) and returns its value, collapsing
// any evaluation error to nil — the pervasive "errors become undefined at
// a branch boundary" rule spec.md applies almost everywhere outside the
// submit transition's effect path.
func evalNodeOrNil(inv eval.Invoker, n ast.Node) any {
	if n == nil {
		return nil
	}
	r := inv.InvokeSync(n.ID())
	if r.IsError() {
		return nil
	}
	return r.Value
}

// evalPropertyValue evaluates v if it is itself an AST node (the shape a
// BasicBlock's Properties or a FieldBlock's Params bag may hold), or
// passes it through unchanged otherwise.
func evalPropertyValue(inv eval.Invoker, v any) any {
	if n, ok := v.(ast.Node); ok {
		return evalNodeOrNil(inv, n)
	}
	return v
}

// toSlice normalizes an evaluated collection value to []any, the only
// shape Iterate/Collection operate over (spec.md: "finite input only").
func toSlice(v any) ([]any, bool) {
	items, ok := v.([]any)
	return items, ok
}
