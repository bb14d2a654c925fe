package compile_test

import (
	"sort"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/compile"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

// TestCompiledStepArtifactSnapshot pins a compiled step's node kinds and
// topological order so an accidental wiring-rule regression (a dropped
// edge, a pseudo-node minted under the wrong kind) shows up as a diff
// against a committed snapshot instead of silently passing.
func TestCompiledStepArtifactSnapshot(t *testing.T) {
	gen := ids.NewGenerator()
	base, err := compile.CompileJourney(gen, welcomeJourneyDoc())
	require.NoError(t, err)

	step := base.Journey.Steps[0]
	sa, err := compile.CompileStep(base, step.ID(), registry.NewFunctionRegistry(), registry.NewComponentRegistry())
	require.NoError(t, err)

	sorted := sa.Graph.TopologicalSort()
	require.False(t, sorted.HasCycles)

	kinds := make([]string, 0, len(sa.Artifact.Handlers))
	for id := range sa.Artifact.Handlers {
		node, ok := sa.Nodes.Get(id)
		if !ok {
			continue
		}
		kinds = append(kinds, node.Kind())
	}
	sort.Strings(kinds)

	snaps.MatchSnapshot(t, "handler_kinds", kinds)
	snaps.MatchSnapshot(t, "topological_order_length", len(sorted.Sort))
}
