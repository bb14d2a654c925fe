package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type pipelineHandler struct {
	base
	node *ast.Pipeline
}

func newPipelineHandler(n *ast.Pipeline) *pipelineHandler {
	return &pipelineHandler{base: base{id: n.ID()}, node: n}
}

func (h *pipelineHandler) ComputeIsAsync(isAsync func(string) bool) {
	ids := append([]string{idOf(h.node.Input)}, stepIDs(h.node.Steps)...)
	h.isAsync = unionAsync(isAsync, ids...)
}

func stepIDs(steps []*ast.FunctionCall) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, idOf(s))
	}
	return out
}

// Evaluate left-folds each step over Input, passing the running value as
// the step's leading argument. Step nodes are still registered and wired
// in the dependency graph (so their async-ness and edges are accounted
// for), but the fold calls callFunction directly rather than through the
// invoker: invoking a step generically would lose the leading accumulator
// value a pipeline step's own handler never carries.
func (h *pipelineHandler) Evaluate(ctx context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	cur := evalNodeOrNil(inv, h.node.Input)
	for _, step := range h.node.Steps {
		v, err := callFunction(ctx, ectx, inv, step, cur, true)
		if err != nil {
			return eval.Ok(nil)
		}
		cur = v
	}
	return eval.Ok(cur)
}
