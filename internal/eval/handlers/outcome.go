package handlers

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type redirectHandler struct {
	base
	node *ast.Redirect
}

func newRedirectHandler(n *ast.Redirect) *redirectHandler {
	return &redirectHandler{base: base{id: n.ID()}, node: n}
}

func (h *redirectHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Goto), idOf(h.node.When))
}

// Evaluate returns undefined if When is present and evaluates falsy (or
// errors); otherwise it evaluates Goto and coerces it to a string.
func (h *redirectHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.When != nil {
		r := inv.InvokeSync(h.node.When.ID())
		if r.IsError() || !eval.Truthy(r.Value) {
			return eval.Ok(nil)
		}
	}
	target := evalNodeOrNil(inv, h.node.Goto)
	if target == nil {
		return eval.Ok(nil)
	}
	return eval.Ok(toGotoString(target))
}

func toGotoString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type throwErrorHandler struct {
	base
	node *ast.ThrowError
}

func newThrowErrorHandler(n *ast.ThrowError) *throwErrorHandler {
	return &throwErrorHandler{base: base{id: n.ID()}, node: n}
}

func (h *throwErrorHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Status), idOf(h.node.Message), idOf(h.node.When))
}

// Evaluate mirrors Redirect's own-when gate: it returns undefined unless
// When is absent or truthy, otherwise it evaluates Status/Message into the
// shape the submit transition's outcome resolution consumes.
func (h *throwErrorHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.When != nil {
		r := inv.InvokeSync(h.node.When.ID())
		if r.IsError() || !eval.Truthy(r.Value) {
			return eval.Ok(nil)
		}
	}
	return eval.Ok(map[string]any{
		"status":  evalNodeOrNil(inv, h.node.Status),
		"message": evalNodeOrNil(inv, h.node.Message),
	})
}
