package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type validationHandler struct {
	base
	node *ast.Validation
}

func newValidationHandler(n *ast.Validation) *validationHandler {
	return &validationHandler{base: base{id: n.ID()}, node: n}
}

func (h *validationHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.When), idOf(h.node.Message), idOf(h.node.Details))
}

// Evaluate returns {passed: !when.value, message, submissionOnly,
// details}. A failure to evaluate When is itself treated as validation
// failure, so the author's own message surfaces instead of a generic
// evaluation error.
func (h *validationHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.When == nil {
		return eval.Ok(map[string]any{
			"passed":         true,
			"message":        evalNodeOrNil(inv, h.node.Message),
			"submissionOnly": h.node.SubmissionOnly,
			"details":        evalNodeOrNil(inv, h.node.Details),
		})
	}

	whenResult := inv.InvokeSync(h.node.When.ID())
	if whenResult.IsError() {
		message := evalNodeOrNil(inv, h.node.Message)
		if message == nil {
			message = "Validation error"
		}
		return eval.Ok(map[string]any{
			"passed":  false,
			"message": message,
		})
	}

	return eval.Ok(map[string]any{
		"passed":         !eval.Truthy(whenResult.Value),
		"message":        evalNodeOrNil(inv, h.node.Message),
		"submissionOnly": h.node.SubmissionOnly,
		"details":        evalNodeOrNil(inv, h.node.Details),
	})
}
