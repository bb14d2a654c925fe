package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/internal/graph"
)

func newTestContext(t *testing.T, g *graph.Graph, pseudoIDs map[ast.PseudoMapKey]string) *eval.Context {
	t.Helper()
	if g == nil {
		g = graph.New()
	}
	if pseudoIDs == nil {
		pseudoIDs = map[ast.PseudoMapKey]string{}
	}
	return eval.NewContext(nil, nil, nil, nil, g, pseudoIDs, &eval.RequestState{
		Params: map[string]string{},
		Query:  map[string]string{},
	})
}

func TestScopeLookupIsInnermostFirst(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	ctx.PushScope(map[string]any{"@scope": "outer"})
	ctx.PushScope(map[string]any{"@scope": "inner"})

	v, ok := ctx.ScopeLookup("@scope")
	require.True(t, ok)
	assert.Equal(t, "inner", v)

	ctx.PopScope()
	v, ok = ctx.ScopeLookup("@scope")
	require.True(t, ok)
	assert.Equal(t, "outer", v)

	ctx.PopScope()
	_, ok = ctx.ScopeLookup("@scope")
	assert.False(t, ok)
}

func TestSelfValueTracksPushAndPop(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	_, ok := ctx.SelfValue()
	assert.False(t, ok)

	ctx.PushSelf("first")
	v, ok := ctx.SelfValue()
	require.True(t, ok)
	assert.Equal(t, "first", v)

	ctx.PopSelf()
	_, ok = ctx.SelfValue()
	assert.False(t, ok)
}

func TestCacheGetSetIsScopedByDigest(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	ctx.CacheSet("n1", eval.Ok("outer-value"))

	cached, ok := ctx.CacheGet("n1")
	require.True(t, ok)
	assert.Equal(t, "outer-value", cached.Value)

	ctx.PushScope(map[string]any{"@scope": "x"})
	_, ok = ctx.CacheGet("n1")
	assert.False(t, ok, "a different scope digest must miss the cache")
}

func TestInvalidateNodeCascadesThroughDependents(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeMeta{Property: "child"}))
	require.NoError(t, g.AddEdge("b", "c", graph.EdgeMeta{Property: "child"}))

	ctx := newTestContext(t, g, nil)
	ctx.CacheSet("a", eval.Ok(1))
	ctx.CacheSet("b", eval.Ok(2))
	ctx.CacheSet("c", eval.Ok(3))

	ctx.InvalidateNode("a")

	_, ok := ctx.CacheGet("a")
	assert.False(t, ok)
	_, ok = ctx.CacheGet("b")
	assert.False(t, ok)
	_, ok = ctx.CacheGet("c")
	assert.False(t, ok)
}

func TestInvalidatePseudoResolvesThroughPseudoNodeIDs(t *testing.T) {
	g := graph.New()
	g.AddNode("pseudo:answers:email")
	g.AddNode("consumer")
	require.NoError(t, g.AddEdge("pseudo:answers:email", "consumer", graph.EdgeMeta{Property: "child"}))

	key := ast.PseudoMapKey{Kind: ast.PseudoAnswerLocal, Key: "email"}
	ctx := newTestContext(t, g, map[ast.PseudoMapKey]string{key: "pseudo:answers:email"})
	ctx.CacheSet("pseudo:answers:email", eval.Ok("a@b.com"))
	ctx.CacheSet("consumer", eval.Ok("rendered"))

	ctx.InvalidatePseudo(key)

	_, ok := ctx.CacheGet("pseudo:answers:email")
	assert.False(t, ok)
	_, ok = ctx.CacheGet("consumer")
	assert.False(t, ok)
}

func TestSetDataInvalidatesDependentCache(t *testing.T) {
	g := graph.New()
	g.AddNode("pseudo:data:count")
	g.AddNode("consumer")
	require.NoError(t, g.AddEdge("pseudo:data:count", "consumer", graph.EdgeMeta{Property: "child"}))

	key := ast.PseudoMapKey{Kind: ast.PseudoData, Key: "count"}
	ctx := newTestContext(t, g, map[ast.PseudoMapKey]string{key: "pseudo:data:count"})
	ctx.CacheSet("consumer", eval.Ok("stale"))

	ctx.SetData("count", 5)

	v, ok := ctx.GetData("count")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = ctx.CacheGet("consumer")
	assert.False(t, ok)
}
