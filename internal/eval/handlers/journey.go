package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type journeyHandler struct {
	base
	node *ast.Journey
}

func newJourneyHandler(n *ast.Journey) *journeyHandler {
	return &journeyHandler{base: base{id: n.ID()}, node: n}
}

func (h *journeyHandler) ComputeIsAsync(func(string) bool) { h.isAsync = false }

// Evaluate emits the journey's own descriptive properties. Steps render
// through their own handlers, invoked by the host for whichever step the
// current request targets, not recursively from here.
func (h *journeyHandler) Evaluate(_ context.Context, _ *eval.Context, _ eval.Invoker) eval.Result {
	return eval.Ok(map[string]any{
		"path":        h.node.Path,
		"code":        h.node.Code,
		"title":       h.node.Title,
		"description": h.node.Description,
		"version":     h.node.Version,
		"entryPath":   h.node.EntryPath,
		"metadata":    h.node.Metadata,
	})
}
