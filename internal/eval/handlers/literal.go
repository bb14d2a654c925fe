package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type literalHandler struct {
	base
	node *ast.Literal
}

func newLiteralHandler(n *ast.Literal) *literalHandler {
	return &literalHandler{base: base{id: n.ID()}, node: n}
}

func (h *literalHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, nodeIDs(h.node.Children())...)
}

func (h *literalHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	return eval.Ok(resolveLiteral(inv, h.node.Value))
}

// resolveLiteral walks a literal value tree, resolving any embedded AST
// node to its evaluated value while passing plain data through unchanged.
func resolveLiteral(inv eval.Invoker, v any) any {
	switch val := v.(type) {
	case ast.Node:
		return evalNodeOrNil(inv, val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = resolveLiteral(inv, e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = resolveLiteral(inv, e)
		}
		return out
	default:
		return val
	}
}
