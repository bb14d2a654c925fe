package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type conditionalHandler struct {
	base
	node *ast.Conditional
}

func newConditionalHandler(n *ast.Conditional) *conditionalHandler {
	return &conditionalHandler{base: base{id: n.ID()}, node: n}
}

func (h *conditionalHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Predicate), idOf(h.node.ThenValue), idOf(h.node.ElseValue))
}

// Evaluate selects ThenValue or ElseValue by Predicate's truthiness. Any
// sub-evaluation error — Predicate's or the selected branch's — swallows
// to undefined rather than propagating, per the conditional boundary rule.
func (h *conditionalHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.Predicate == nil {
		return eval.Ok(nil)
	}
	pr := inv.InvokeSync(h.node.Predicate.ID())
	if pr.IsError() {
		return eval.Ok(nil)
	}

	branch := h.node.ElseValue
	if eval.Truthy(pr.Value) {
		branch = h.node.ThenValue
	}
	return eval.Ok(evalNodeOrNil(inv, branch))
}
