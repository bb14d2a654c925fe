package handlers

import (
	"context"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
)

type testHandler struct {
	base
	node *ast.Test
}

func newTestHandler(n *ast.Test) *testHandler {
	return &testHandler{base: base{id: n.ID()}, node: n}
}

func (h *testHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Subject), idOf(h.node.Condition))
}

// Evaluate pushes Subject's value as @self for the duration of evaluating
// Condition — the same binding convention FieldBlock uses for its own
// sub-expressions — then XORs the result with Negate.
func (h *testHandler) Evaluate(_ context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	subject := evalNodeOrNil(inv, h.node.Subject)

	ectx.PushSelf(subject)
	result := evalNodeOrNil(inv, h.node.Condition)
	ectx.PopSelf()

	passed := eval.Truthy(result)
	if h.node.Negate {
		passed = !passed
	}
	return eval.Ok(passed)
}

type andHandler struct {
	base
	node *ast.And
}

func newAndHandler(n *ast.And) *andHandler { return &andHandler{base: base{id: n.ID()}, node: n} }

func (h *andHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, nodeIDs(h.node.Operands)...)
}

// Evaluate short-circuits on the first falsy operand.
func (h *andHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	for _, op := range h.node.Operands {
		if !eval.Truthy(evalNodeOrNil(inv, op)) {
			return eval.Ok(false)
		}
	}
	return eval.Ok(true)
}

type orHandler struct {
	base
	node *ast.Or
}

func newOrHandler(n *ast.Or) *orHandler { return &orHandler{base: base{id: n.ID()}, node: n} }

func (h *orHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, nodeIDs(h.node.Operands)...)
}

// Evaluate short-circuits on the first truthy operand.
func (h *orHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	for _, op := range h.node.Operands {
		if eval.Truthy(evalNodeOrNil(inv, op)) {
			return eval.Ok(true)
		}
	}
	return eval.Ok(false)
}

type xorHandler struct {
	base
	node *ast.Xor
}

func newXorHandler(n *ast.Xor) *xorHandler { return &xorHandler{base: base{id: n.ID()}, node: n} }

func (h *xorHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, nodeIDs(h.node.Operands)...)
}

// Evaluate requires exactly one truthy operand.
func (h *xorHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	truthyCount := 0
	for _, op := range h.node.Operands {
		if eval.Truthy(evalNodeOrNil(inv, op)) {
			truthyCount++
		}
	}
	return eval.Ok(truthyCount == 1)
}

type notHandler struct {
	base
	node *ast.Not
}

func newNotHandler(n *ast.Not) *notHandler { return &notHandler{base: base{id: n.ID()}, node: n} }

func (h *notHandler) ComputeIsAsync(isAsync func(string) bool) {
	h.isAsync = unionAsync(isAsync, idOf(h.node.Operand))
}

// Evaluate negates Operand; a falsy operand or an evaluation error both
// negate to true.
func (h *notHandler) Evaluate(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
	if h.node.Operand == nil {
		return eval.Ok(true)
	}
	r := inv.InvokeSync(h.node.Operand.ID())
	if r.IsError() {
		return eval.Ok(true)
	}
	return eval.Ok(!eval.Truthy(r.Value))
}
