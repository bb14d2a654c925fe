package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/compile/traverse"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type stepHandler struct {
	base
	node *ast.Step
}

func newStepHandler(n *ast.Step) *stepHandler {
	return &stepHandler{base: base{id: n.ID()}, node: n}
}

func (h *stepHandler) ComputeIsAsync(isAsync func(string) bool) {
	ids := make([]string, 0, len(h.node.Blocks))
	for _, b := range h.node.Blocks {
		ids = append(ids, idOf(b))
	}
	h.isAsync = unionAsync(isAsync, ids...)
}

// Evaluate emits an evaluated view of the step's public properties. Its
// lifecycle transition arrays are never evaluated here — those are run
// directly by the transition orchestrator, not through a step's own
// thunk — regardless of step-scope metadata, since the distinction the
// specification draws (current/ancestor vs. other steps) is about which
// *additional* properties a navigation-only view may skip, not about
// transitions ever appearing in this handler's output.
func (h *stepHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	blocks := make([]any, len(h.node.Blocks))
	for i, b := range h.node.Blocks {
		blocks[i] = evalNodeOrNil(inv, b)
	}

	view := map[string]any{
		"path":         h.node.Path,
		"title":        h.node.Title,
		"description":  h.node.Description,
		"isEntryPoint": h.node.IsEntryPoint,
		"blocks":       blocks,
		"metadata":     h.node.Metadata,
	}

	if traverse.IsCurrentStep(ectx.Meta, h.node.ID()) || traverse.IsAncestorOfStep(ectx.Meta, h.node.ID()) {
		view["backlink"] = h.node.Backlink
	}

	return eval.Ok(view)
}
