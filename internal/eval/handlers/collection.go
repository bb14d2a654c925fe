package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type collectionHandler struct {
	base
	node *ast.Collection
}

func newCollectionHandler(n *ast.Collection) *collectionHandler {
	return &collectionHandler{base: base{id: n.ID()}, node: n}
}

func (h *collectionHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Collection), idOf(h.node.Template), idOf(h.node.Fallback))
}

// Evaluate renders Template once per element of Collection, binding @scope
// to each element; an empty or non-sequence collection falls back to
// Fallback.
func (h *collectionHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	items, ok := toSlice(evalNodeOrNil(inv, h.node.Collection))
	if !ok || len(items) == 0 {
		return eval.Ok(evalNodeOrNil(inv, h.node.Fallback))
	}

	out := make([]any, len(items))
	for i, item := range items {
		ectx.PushScope(map[string]any{"@scope": item})
		out[i] = evalNodeOrNil(inv, h.node.Template)
		ectx.PopScope()
	}
	return eval.Ok(out)
}
