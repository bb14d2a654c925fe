package traverse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/compile/traverse"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

func buildJourney(t *testing.T) *ast.Journey {
	t.Helper()
	gen := ids.NewGenerator()
	f := ast.NewFactory(gen)

	raw := map[string]any{
		"path": "/apply",
		"steps": []any{
			map[string]any{
				"path":  "start",
				"title": "Start",
				"blocks": []any{
					map[string]any{
						"blockType": "FIELD",
						"variant":   "text",
						"code":      "email",
					},
				},
			},
			map[string]any{
				"path":  "confirm",
				"title": "Confirm",
				"blocks": []any{
					map[string]any{
						"blockType": "BASIC",
						"variant":   "panel",
						"properties": map[string]any{
							"title": map[string]any{
								"expressionType": "REFERENCE",
								"path":           []any{"answers", "email"},
							},
						},
					},
				},
			},
		},
	}
	journey, err := f.LowerJourney(raw)
	require.NoError(t, err)
	return journey
}

func TestRegisterVisitsEveryNode(t *testing.T) {
	journey := buildJourney(t)
	reg := registry.NewNodeRegistry()
	traverse.Register(reg, journey)

	assert.Greater(t, reg.Len(), 3)
	steps := reg.FindByType(ast.NodeStep)
	assert.Len(t, steps, 2)
}

func TestParentMetadataAssignsParentIDs(t *testing.T) {
	journey := buildJourney(t)
	meta := registry.NewMetadataRegistry()
	traverse.ParentMetadata(meta, journey)

	step := journey.Steps[0]
	assert.Equal(t, journey.ID(), traverse.AttachedToParentNode(meta, step.ID()))

	block := step.Blocks[0]
	assert.Equal(t, step.ID(), traverse.AttachedToParentNode(meta, block.ID()))
}

func TestStepScopeMarksCurrentAncestorAndDescendant(t *testing.T) {
	journey := buildJourney(t)
	meta := registry.NewMetadataRegistry()

	confirmStep := journey.Steps[1]
	traverse.StepScope(meta, journey, confirmStep.ID())

	assert.True(t, traverse.IsCurrentStep(meta, confirmStep.ID()))
	assert.True(t, traverse.IsAncestorOfStep(meta, journey.ID()))
	assert.True(t, traverse.IsDescendantOfStep(meta, confirmStep.Blocks[0].ID()))

	startStep := journey.Steps[0]
	assert.False(t, traverse.IsCurrentStep(meta, startStep.ID()))
	assert.False(t, traverse.IsDescendantOfStep(meta, startStep.ID()))
}

func TestFindReferencesCollectsEveryReference(t *testing.T) {
	journey := buildJourney(t)
	refs := traverse.FindReferences(journey)
	// The value-less "email" FIELD carries a synthesized @self reference
	// alongside the panel's explicit answers.email reference.
	require.Len(t, refs, 2)
	paths := make([][]string, 0, len(refs))
	for _, ref := range refs {
		paths = append(paths, ref.Path)
	}
	assert.ElementsMatch(t, [][]string{{"@self"}, {"answers", "email"}}, paths)
}
