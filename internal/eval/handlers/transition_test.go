package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

func TestSimpleTransitionTagsMutationSourceDuringEffects(t *testing.T) {
	var observed eval.MutationSource
	var ectx *eval.Context
	funcs := registry.NewFunctionRegistry()
	require.NoError(t, funcs.Register("observe", func(_ context.Context, _ []any) (any, error) {
		observed = ectx.MutationSource()
		return nil, nil
	}))
	ectx = newTestContext(t, funcs)

	effect := ast.NewFunctionCall("eff1", nil, "observe", ast.FunctionEffect, nil)
	transition := ast.NewSimpleTransition("t1", nil, ast.TransitionLoad, []ast.Expression{effect}, nil)

	rt := buildRuntime(t, ectx, map[string]ast.Node{transition.ID(): transition})

	r := rt.InvokeSync(transition.ID())
	require.False(t, r.IsError())
	require.Equal(t, eval.SourceLoad, observed)

	m := r.Value.(map[string]any)
	require.Equal(t, true, m["executed"])
}

func TestSimpleTransitionEffectErrorIsFatal(t *testing.T) {
	funcs := registry.NewFunctionRegistry()
	require.NoError(t, funcs.Register("boom", func(_ context.Context, _ []any) (any, error) {
		return nil, assertErr{}
	}))

	effect := ast.NewFunctionCall("eff1", nil, "boom", ast.FunctionEffect, nil)
	transition := ast.NewSimpleTransition("t1", nil, ast.TransitionAction, []ast.Expression{effect}, nil)

	ectx := newTestContext(t, funcs)
	rt := buildRuntime(t, ectx, map[string]ast.Node{transition.ID(): transition})

	r := rt.InvokeSync(transition.ID())
	require.True(t, r.IsError())
}
