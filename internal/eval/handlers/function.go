package handlers

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

type functionCallHandler struct {
	base
	node *ast.FunctionCall
}

func newFunctionCallHandler(n *ast.FunctionCall) *functionCallHandler {
	return &functionCallHandler{base: base{id: n.ID()}, node: n}
}

func (h *functionCallHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, exprIDs(h.node.Arguments)...)
}

func (h *functionCallHandler) Evaluate(ctx context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	v, err := callFunction(ctx, ectx, inv, h.node, nil, false)
	if err != nil {
		return eval.Err(ferrors.CodeEvaluationFailed, h.id, err.Error())
	}
	return eval.Ok(v)
}

// callFunction evaluates fc's arguments, looks up its registered
// implementation, and invokes it. An effect-role call receives an
// EffectContext as args[0] — registry.Function's signature has no
// dedicated parameter for it, so this is the calling convention effect
// authors rely on — followed by leading (when hasLeading is true, the
// Pipeline fold's running value) and then the evaluated positional
// arguments.
func callFunction(ctx context.Context, ectx *eval.Context, inv eval.Invoker, fc *ast.FunctionCall, leading any, hasLeading bool) (any, error) {
	fn, ok := ectx.Functions.Lookup(fc.Name)
	if !ok {
		return nil, ferrors.NewForNode(ferrors.CodeEvaluationFailed, fc.ID(), fmt.Sprintf("function %q is not registered", fc.Name))
	}

	args := make([]any, 0, len(fc.Arguments)+2)
	if fc.Role == ast.FunctionEffect {
		args = append(args, eval.NewEffectContext(ectx, ectx.MutationSource()))
	}
	if hasLeading {
		args = append(args, leading)
	}
	for _, a := range fc.Arguments {
		args = append(args, evalNodeOrNil(inv, a))
	}

	return fn(ctx, args)
}
