package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/graph"
)

func buildLinear(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeMeta{Property: "predicate"}))
	require.NoError(t, g.AddEdge("b", "c", graph.EdgeMeta{Property: "arguments", Index: 0, HasIndex: true}))
	return g
}

func TestTopologicalSortOrdersByDependencyLevel(t *testing.T) {
	g := buildLinear(t)
	result := g.TopologicalSort()
	require.False(t, result.HasCycles)
	assert.Equal(t, []string{"a", "b", "c"}, result.Sort)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, result.Levels)
}

func TestTopologicalSortBreaksTiesByInsertionOrder(t *testing.T) {
	g := graph.New()
	g.AddNode("z")
	g.AddNode("a")
	g.AddNode("m")
	// No edges: all three are independent roots in a single level.
	result := g.TopologicalSort()
	require.False(t, result.HasCycles)
	assert.Equal(t, []string{"z", "a", "m"}, result.Sort)
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeMeta{Property: "x"}))
	require.NoError(t, g.AddEdge("b", "a", graph.EdgeMeta{Property: "y"}))

	result := g.TopologicalSort()
	assert.True(t, result.HasCycles)
	assert.NotEmpty(t, result.Cycles)
}

func TestAddEdgeRejectsUnknownEndpoints(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	err := g.AddEdge("a", "missing", graph.EdgeMeta{})
	assert.Error(t, err)
}

func TestGetDependentsAndDependencies(t *testing.T) {
	g := buildLinear(t)
	assert.Equal(t, []string{"b"}, g.GetDependents("a"))
	assert.Equal(t, []string{"a"}, g.GetDependencies("b"))
	assert.Empty(t, g.GetDependents("c"))
}

func TestGetAllEdgesReturnsEveryMetaForATarget(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeMeta{Property: "arguments", Index: 0, HasIndex: true}))
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeMeta{Property: "arguments", Index: 1, HasIndex: true}))

	edges := g.GetAllEdges("a")
	require.Len(t, edges["b"], 2)
}

func TestDiamondDependencyLevels(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b", graph.EdgeMeta{}))
	require.NoError(t, g.AddEdge("a", "c", graph.EdgeMeta{}))
	require.NoError(t, g.AddEdge("b", "d", graph.EdgeMeta{}))
	require.NoError(t, g.AddEdge("c", "d", graph.EdgeMeta{}))

	result := g.TopologicalSort()
	require.False(t, result.HasCycles)
	require.Len(t, result.Levels, 3)
	assert.Equal(t, []string{"a"}, result.Levels[0])
	assert.ElementsMatch(t, []string{"b", "c"}, result.Levels[1])
	assert.Equal(t, []string{"d"}, result.Levels[2])
}
