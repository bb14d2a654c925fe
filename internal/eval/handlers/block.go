package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type basicBlockHandler struct {
	base
	node *ast.BasicBlock
}

func newBasicBlockHandler(n *ast.BasicBlock) *basicBlockHandler {
	return &basicBlockHandler{base: base{id: n.ID()}, node: n}
}

func (h *basicBlockHandler) ComputeIsAsync(isAsync func(string) bool) {
	ids := make([]string, 0, len(h.node.Properties))
	for _, v := range h.node.Properties {
		if n, ok := v.(ast.Node); ok {
			ids = append(ids, n.ID())
		}
	}
	h.isAsync = unionAsync(isAsync, ids...)
}

func (h *basicBlockHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	props := make(map[string]any, len(h.node.Properties))
	for k, v := range h.node.Properties {
		props[k] = evalPropertyValue(inv, v)
	}
	return eval.Ok(map[string]any{
		"variant":    h.node.Variant,
		"properties": props,
	})
}

type fieldBlockHandler struct {
	base
	node *ast.FieldBlock
}

func newFieldBlockHandler(n *ast.FieldBlock) *fieldBlockHandler {
	return &fieldBlockHandler{base: base{id: n.ID()}, node: n}
}

func (h *fieldBlockHandler) ComputeIsAsync(isAsync func(string) bool) {
	ids := []string{idOf(h.node.DefaultValue), idOf(h.node.Hidden), idOf(h.node.Dependent), idOf(h.node.Value)}
	ids = append(ids, nodeIDs(h.node.Formatters)...)
	for _, v := range h.node.Validate {
		ids = append(ids, idOf(v))
	}
	for _, v := range h.node.Params {
		if n, ok := v.(ast.Node); ok {
			ids = append(ids, n.ID())
		}
	}
	h.isAsync = unionAsync(isAsync, ids...)
}

// Evaluate binds @self to the field's current value (resolved through its
// own Value reference) for the duration of evaluating the field's other
// sub-expressions — the same convention a Test predicate reuses for its
// Condition.
func (h *fieldBlockHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	self := evalNodeOrNil(inv, h.node.Value)

	ectx.PushSelf(self)
	defer ectx.PopSelf()

	formatters := make([]any, len(h.node.Formatters))
	for i, f := range h.node.Formatters {
		formatters[i] = evalNodeOrNil(inv, f)
	}

	validations := make([]any, len(h.node.Validate))
	for i, v := range h.node.Validate {
		validations[i] = evalNodeOrNil(inv, v)
	}

	params := make(map[string]any, len(h.node.Params))
	for k, v := range h.node.Params {
		params[k] = evalPropertyValue(inv, v)
	}

	return eval.Ok(map[string]any{
		"variant":    h.node.Variant,
		"code":       h.node.Code,
		"value":      self,
		"hidden":     evalNodeOrNil(inv, h.node.Hidden),
		"dependent":  evalNodeOrNil(inv, h.node.Dependent),
		"formatters": formatters,
		"validate":   validations,
		"multiple":   h.node.Multiple,
		"params":     params,
	})
}
