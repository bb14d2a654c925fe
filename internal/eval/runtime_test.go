package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

type countingHandler struct {
	id    string
	calls int
	value any
}

func (h *countingHandler) NodeID() string { return h.id }
func (h *countingHandler) IsAsync() bool  { return false }
func (h *countingHandler) ComputeIsAsync(func(string) bool) {}
func (h *countingHandler) Evaluate(_ context.Context, _ *eval.Context, _ eval.Invoker) eval.Result {
	h.calls++
	return eval.Ok(h.value)
}

func TestRuntimeInvokeSyncCachesResult(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	h := &countingHandler{id: "n1", value: "hello"}
	rt := eval.NewRuntime(eval.NewArtifact(map[string]eval.Handler{"n1": h}), ctx)

	r1 := rt.InvokeSync("n1")
	r2 := rt.InvokeSync("n1")

	assert.Equal(t, "hello", r1.Value)
	assert.Equal(t, "hello", r2.Value)
	assert.Equal(t, 1, h.calls, "second invoke should hit the cache, not call the handler again")
}

func TestRuntimeInvokeMissingHandlerReturnsHandlerNotFound(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	rt := eval.NewRuntime(eval.NewArtifact(map[string]eval.Handler{}), ctx)

	r := rt.InvokeSync("ghost")
	require.True(t, r.IsError())
	assert.Equal(t, ferrors.CodeHandlerNotFound, r.Error.Type)
}

func TestRuntimeInvokeRecursesThroughInvoker(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	leaf := &countingHandler{id: "leaf", value: 7}
	var composite eval.Handler = compositeHandlerFunc(func(_ context.Context, _ *eval.Context, inv eval.Invoker) eval.Result {
		r := inv.InvokeSync("leaf")
		return eval.Ok(r.Value)
	})
	rt := eval.NewRuntime(eval.NewArtifact(map[string]eval.Handler{
		"leaf": leaf,
		"root": composite,
	}), ctx)

	r := rt.InvokeSync("root")
	assert.Equal(t, 7, r.Value)
	assert.Equal(t, 1, leaf.calls)
}

type compositeHandlerFunc func(context.Context, *eval.Context, eval.Invoker) eval.Result

func (f compositeHandlerFunc) NodeID() string                       { return "root" }
func (f compositeHandlerFunc) IsAsync() bool                        { return false }
func (f compositeHandlerFunc) ComputeIsAsync(func(string) bool)      {}
func (f compositeHandlerFunc) Evaluate(ctx context.Context, ectx *eval.Context, inv eval.Invoker) eval.Result {
	return f(ctx, ectx, inv)
}
