package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type iterateHandler struct {
	base
	node *ast.Iterate
}

func newIterateHandler(n *ast.Iterate) *iterateHandler {
	return &iterateHandler{base: base{id: n.ID()}, node: n}
}

func (h *iterateHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Input), idOf(h.node.Iterator))
}

// Evaluate applies MAP/FILTER/FIND over a finite input sequence,
// evaluating Iterator once per element with @scope bound to that element.
// Non-sequence input resolves to undefined.
func (h *iterateHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	items, ok := toSlice(evalNodeOrNil(inv, h.node.Input))
	if !ok {
		return eval.Ok(nil)
	}

	switch h.node.Kind_ {
	case ast.IteratorMap:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = h.evalIterator(ectx, inv, item)
		}
		return eval.Ok(out)
	case ast.IteratorFilter:
		out := make([]any, 0, len(items))
		for _, item := range items {
			if eval.Truthy(h.evalIterator(ectx, inv, item)) {
				out = append(out, item)
			}
		}
		return eval.Ok(out)
	case ast.IteratorFind:
		for _, item := range items {
			if eval.Truthy(h.evalIterator(ectx, inv, item)) {
				return eval.Ok(item)
			}
		}
		return eval.Ok(nil)
	default:
		return eval.Ok(nil)
	}
}

func (h *iterateHandler) evalIterator(ectx *eval.Context, inv eval.Invoker, element any) any {
	ectx.PushScope(map[string]any{"@scope": element})
	defer ectx.PopScope()
	return evalNodeOrNil(inv, h.node.Iterator)
}
