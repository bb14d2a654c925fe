package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

type submitTransitionHandler struct {
	base
	node        *ast.SubmitTransition
	validations []*ast.Validation
}

// NewSubmitTransitionHandler builds the handler for a SUBMIT transition,
// given the Validation nodes reachable from its owning step's field
// blocks. A SubmitTransition carries no back-reference to its Step, so
// the compiler supplies validations directly when it has that context
// (internal/compile); New falls back to nil, meaning a validate:true
// transition built through the generic dispatcher always reports
// isValid=true.
func NewSubmitTransitionHandler(node *ast.SubmitTransition, validations []*ast.Validation) eval.Handler {
	return &submitTransitionHandler{base: base{id: node.ID()}, node: node, validations: validations}
}

func (h *submitTransitionHandler) ComputeIsAsync(isAsync func(string) bool) {
	ids := []string{idOf(h.node.When)}
	ids = append(ids, nodeIDs(h.node.Guards)...)
	for _, v := range h.validations {
		ids = append(ids, idOf(v))
	}
	for _, branch := range []*ast.Branch{h.node.OnAlways, h.node.OnValid, h.node.OnInvalid} {
		if branch == nil {
			continue
		}
		ids = append(ids, exprIDs(branch.Effects)...)
		ids = append(ids, outcomeIDs(branch.Next)...)
	}
	h.isAsync = unionAsync(isAsync, ids...)
}

// Evaluate drives the submit state machine: guard, optional validation,
// onAlways effects, the valid/invalid branch's effects, then first-match
// outcome resolution. The {@transitionType:'submit'} scope marker is
// pushed before any effect runs and popped on every exit path.
func (h *submitTransitionHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.When != nil {
		r := inv.InvokeSync(h.node.When.ID())
		if r.IsError() || !eval.Truthy(r.Value) {
			return eval.Ok(notExecuted())
		}
	}

	for _, guard := range h.node.Guards {
		r := inv.InvokeSync(guard.ID())
		if r.IsError() || !eval.Truthy(r.Value) {
			return eval.Ok(notExecuted())
		}
	}

	isValid := true
	if h.node.Validate {
		isValid = h.allValidationsPassed(inv)
	}

	prior := ectx.MutationSource()
	ectx.SetMutationSource(eval.SourceSubmit)
	ectx.PushScope(map[string]any{"@transitionType": "submit"})
	defer func() {
		ectx.PopScope()
		ectx.SetMutationSource(prior)
	}()

	if h.node.Validate {
		if errResult, bad := h.runEffects(inv, h.node.OnAlways); bad {
			return errResult
		}
		branch := h.node.OnInvalid
		if isValid {
			branch = h.node.OnValid
		}
		return h.runBranchOutcome(inv, branch)
	}

	return h.runBranchOutcome(inv, h.node.OnAlways)
}

func (h *submitTransitionHandler) allValidationsPassed(inv eval.Invoker) bool {
	for _, v := range h.validations {
		r := inv.InvokeSync(v.ID())
		if r.IsError() {
			return false
		}
		m, ok := r.Value.(map[string]any)
		if !ok {
			return false
		}
		if passed, _ := m["passed"].(bool); !passed {
			return false
		}
	}
	return true
}

// runEffects runs branch's effects in order, returning (errorResult, true)
// on the first effect error so the caller can abort immediately.
func (h *submitTransitionHandler) runEffects(inv eval.Invoker, branch *ast.Branch) (eval.Result, bool) {
	if branch == nil {
		return eval.Result{}, false
	}
	for _, effect := range branch.Effects {
		r := inv.InvokeSync(effect.ID())
		if r.IsError() {
			return eval.Err(ferrors.CodeEvaluationFailed, h.id, r.Error.Message), true
		}
	}
	return eval.Result{}, false
}

// runBranchOutcome runs branch's effects then resolves its first matching
// outcome, per the first-match-wins next[] rule.
func (h *submitTransitionHandler) runBranchOutcome(inv eval.Invoker, branch *ast.Branch) eval.Result {
	if branch == nil {
		return eval.Ok(notExecuted())
	}
	if errResult, bad := h.runEffects(inv, branch); bad {
		return errResult
	}
	return resolveNext(inv, branch.Next)
}

func notExecuted() map[string]any {
	return map[string]any{"executed": false, "outcome": "continue"}
}

// resolveNext walks outcomes in order; the first whose own handler
// produces a non-nil value (meaning its own `when` passed) wins. Reusing
// each outcome's handler avoids re-implementing the when-gate Redirect and
// ThrowError already apply to themselves.
func resolveNext(inv eval.Invoker, outcomes []ast.Outcome) eval.Result {
	for _, o := range outcomes {
		r := inv.InvokeSync(o.ID())
		if r.IsError() || r.Value == nil {
			continue
		}
		switch o.OutcomeType() {
		case ast.OutcomeRedirect:
			target, _ := r.Value.(string)
			return eval.Ok(map[string]any{
				"executed": true,
				"outcome":  "redirect",
				"redirect": target,
			})
		case ast.OutcomeThrowError:
			details, _ := r.Value.(map[string]any)
			return eval.Err(ferrors.CodeEvaluationFailed, o.ID(), toErrorMessage(details))
		}
	}
	return eval.Ok(map[string]any{"executed": true, "outcome": "continue"})
}

func toErrorMessage(details map[string]any) string {
	if details == nil {
		return ""
	}
	msg, _ := details["message"].(string)
	return msg
}
