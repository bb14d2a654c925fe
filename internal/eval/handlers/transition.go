package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

type simpleTransitionHandler struct {
	base
	node *ast.SimpleTransition
}

func newSimpleTransitionHandler(n *ast.SimpleTransition) *simpleTransitionHandler {
	return &simpleTransitionHandler{base: base{id: n.ID()}, node: n}
}

func (h *simpleTransitionHandler) ComputeIsAsync(isAsync func(string) bool) {
	ids := exprIDs(h.node.Effects)
	if h.node.Redirect != nil {
		ids = append(ids, h.node.Redirect.ID())
	}
	h.isAsync = unionAsync(isAsync, ids...)
}

// Evaluate runs every effect in declared order, tagging each mutation with
// the source this transition type maps to, then resolves the optional
// redirect. An effect error is fatal: later effects and the redirect are
// skipped.
func (h *simpleTransitionHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	prior := ectx.MutationSource()
	ectx.SetMutationSource(sourceForTransition(h.node.TransitionType()))
	defer ectx.SetMutationSource(prior)

	for _, effect := range h.node.Effects {
		r := inv.InvokeSync(effect.ID())
		if r.IsError() {
			return eval.Err(ferrors.CodeEvaluationFailed, h.id, r.Error.Message)
		}
	}

	var redirectTo any
	if h.node.Redirect != nil {
		redirectTo = evalNodeOrNil(inv, h.node.Redirect)
	}

	return eval.Ok(map[string]any{
		"executed": true,
		"redirect": redirectTo,
	})
}

func sourceForTransition(t ast.TransitionType) eval.MutationSource {
	if t == ast.TransitionLoad {
		return eval.SourceLoad
	}
	return eval.SourceAction
}
