package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type pseudoHandler struct {
	base
	node *ast.Pseudo
}

func newPseudoHandler(n *ast.Pseudo) *pseudoHandler {
	return &pseudoHandler{base: base{id: n.ID()}, node: n}
}

func (h *pseudoHandler) ComputeIsAsync(func(string) bool) {}

// Evaluate reads directly from Context rather than recursing through the
// invoker: a pseudo-node stands in for an external input, not a thunk over
// other AST nodes, so it has no operands to invoke.
func (h *pseudoHandler) Evaluate(_ context.Context, ectx *eval.Context, _ eval.Invoker) eval.Result {
	switch h.node.PseudoKind {
	case ast.PseudoPost:
		if ectx.Request == nil {
			return eval.Ok(nil)
		}
		return eval.Ok(ectx.Request.Post[h.node.Key])
	case ast.PseudoQuery:
		if ectx.Request == nil {
			return eval.Ok(nil)
		}
		v, ok := ectx.Request.Query[h.node.Key]
		if !ok {
			return eval.Ok(nil)
		}
		return eval.Ok(v)
	case ast.PseudoParams:
		if ectx.Request == nil {
			return eval.Ok(nil)
		}
		v, ok := ectx.Request.Params[h.node.Key]
		if !ok {
			return eval.Ok(nil)
		}
		return eval.Ok(v)
	case ast.PseudoData:
		v, _ := ectx.GetData(h.node.Key)
		return eval.Ok(v)
	case ast.PseudoAnswerLocal, ast.PseudoAnswerRemote:
		v, _ := ectx.Answers.Get(h.node.Key)
		return eval.Ok(v)
	default:
		return eval.Ok(nil)
	}
}
