package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type nextHandler struct {
	base
	node *ast.Next
}

func newNextHandler(n *ast.Next) *nextHandler { return &nextHandler{base: base{id: n.ID()}, node: n} }

func (h *nextHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Goto), idOf(h.node.When))
}

// Evaluate mirrors the Redirect outcome's own-when gate but does not
// coerce Goto to a string: a standalone NEXT expression (used inside a
// template rather than a transition's outcome list) may resolve to any
// value, not only a navigation target.
func (h *nextHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.When != nil {
		r := inv.InvokeSync(h.node.When.ID())
		if r.IsError() || !eval.Truthy(r.Value) {
			return eval.Ok(nil)
		}
	}
	return eval.Ok(evalNodeOrNil(inv, h.node.Goto))
}
