package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/internal/eval/handlers"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

// buildRuntimeWithSubmit is like buildRuntime but also installs a
// SubmitTransition handler built through NewSubmitTransitionHandler (the
// compiler's entry point, with explicit validations) instead of the
// generic New dispatcher.
func buildRuntimeWithSubmit(t *testing.T, ectx *eval.Context, submit *ast.SubmitTransition, validations []*ast.Validation, extra map[string]ast.Node) *eval.Runtime {
	t.Helper()
	table := make(map[string]eval.Handler)
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if _, ok := table[n.ID()]; ok {
			return
		}
		h, err := handlers.New(n)
		if err != nil {
			t.Fatalf("handlers.New(%s): %v", n.ID(), err)
		}
		table[n.ID()] = h
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, n := range submit.Children() {
		walk(n)
	}
	for _, n := range extra {
		walk(n)
	}
	table[submit.ID()] = handlers.NewSubmitTransitionHandler(submit, validations)
	return eval.NewRuntime(eval.NewArtifact(table), ectx)
}

func TestSubmitRunsOnAlwaysThenOnValidWhenValidationsPass(t *testing.T) {
	passingWhen := lowerValue(t, false) // Validation.passed = !when
	validation := ast.NewValidation("val1", nil, passingWhen, nil, false, nil)

	funcs := registry.NewFunctionRegistry()
	var ran []string
	require.NoError(t, funcs.Register("markAlways", func(_ context.Context, _ []any) (any, error) {
		ran = append(ran, "always")
		return nil, nil
	}))
	require.NoError(t, funcs.Register("markValid", func(_ context.Context, _ []any) (any, error) {
		ran = append(ran, "valid")
		return nil, nil
	}))

	onAlways := &ast.Branch{
		Effects: []ast.Expression{ast.NewFunctionCall("eff1", nil, "markAlways", ast.FunctionEffect, nil)},
	}
	onValid := &ast.Branch{
		Effects: []ast.Expression{ast.NewFunctionCall("eff2", nil, "markValid", ast.FunctionEffect, nil)},
	}

	submit := ast.NewSubmitTransition("submit1", nil, nil, nil, true, onAlways, onValid, nil)

	ectx := newTestContext(t, funcs)
	rt := buildRuntimeWithSubmit(t, ectx, submit, []*ast.Validation{validation}, map[string]ast.Node{validation.ID(): validation})

	r := rt.InvokeSync(submit.ID())
	require.False(t, r.IsError())
	require.Equal(t, []string{"always", "valid"}, ran)
	m := r.Value.(map[string]any)
	require.Equal(t, "continue", m["outcome"])
}

func TestSubmitGuardFalsyShortCircuitsToNotExecuted(t *testing.T) {
	guard := lowerValue(t, false)
	submit := ast.NewSubmitTransition("submit1", nil, nil, []ast.Node{guard}, false, nil, nil, nil)

	ectx := newTestContext(t, nil)
	rt := buildRuntimeWithSubmit(t, ectx, submit, nil, nil)

	r := rt.InvokeSync(submit.ID())
	require.False(t, r.IsError())
	m := r.Value.(map[string]any)
	require.Equal(t, false, m["executed"])
	require.Equal(t, "continue", m["outcome"])
}

func TestSubmitEffectErrorAbortsBeforeBranch(t *testing.T) {
	funcs := registry.NewFunctionRegistry()
	require.NoError(t, funcs.Register("boom", func(_ context.Context, _ []any) (any, error) {
		return nil, assertErr{}
	}))

	onAlways := &ast.Branch{
		Effects: []ast.Expression{ast.NewFunctionCall("eff1", nil, "boom", ast.FunctionEffect, nil)},
	}
	submit := ast.NewSubmitTransition("submit1", nil, nil, nil, false, onAlways, nil, nil)

	ectx := newTestContext(t, funcs)
	rt := buildRuntimeWithSubmit(t, ectx, submit, nil, nil)

	r := rt.InvokeSync(submit.ID())
	require.True(t, r.IsError())
}

func TestSubmitRedirectOutcomeOnInvalid(t *testing.T) {
	failingWhen := lowerValue(t, true) // passed = !when = false
	validation := ast.NewValidation("val1", nil, failingWhen, nil, false, nil)

	goTo := lowerValue(t, "/errors")
	redirect := ast.NewRedirect("redirect1", nil, goTo, nil)
	onInvalid := &ast.Branch{
		Next: []ast.Outcome{redirect},
	}
	onAlways := &ast.Branch{}

	submit := ast.NewSubmitTransition("submit1", nil, nil, nil, true, onAlways, nil, onInvalid)

	ectx := newTestContext(t, nil)
	rt := buildRuntimeWithSubmit(t, ectx, submit, []*ast.Validation{validation}, map[string]ast.Node{validation.ID(): validation})

	r := rt.InvokeSync(submit.ID())
	require.False(t, r.IsError())
	m := r.Value.(map[string]any)
	require.Equal(t, "redirect", m["outcome"])
	require.Equal(t, "/errors", m["redirect"])
}
