package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
)

func TestStepEvaluateRendersBlocksAndProperties(t *testing.T) {
	block := ast.NewBasicBlock("block1", nil)
	block.Variant = "paragraph"
	block.Properties["text"] = lowerValue(t, "welcome")

	step := ast.NewStep("step1", nil)
	step.Path = "/welcome"
	step.Title = "Welcome"
	step.IsEntryPoint = true
	step.Blocks = []ast.Block{block}

	ectx := newTestContext(t, nil)
	rt := buildRuntime(t, ectx, map[string]ast.Node{step.ID(): step})

	r := rt.InvokeSync(step.ID())
	require.False(t, r.IsError())
	m := r.Value.(map[string]any)
	require.Equal(t, "/welcome", m["path"])
	require.Equal(t, "Welcome", m["title"])
	require.Equal(t, true, m["isEntryPoint"])
	blocks := m["blocks"].([]any)
	require.Len(t, blocks, 1)
}

func TestJourneyEvaluateRendersDescriptiveProperties(t *testing.T) {
	journey := ast.NewJourney("journey1", nil)
	journey.Path = "/onboarding"
	journey.Code = "onboarding"
	journey.Title = "Onboarding"
	journey.Version = "1"
	journey.EntryPath = "/welcome"

	ectx := newTestContext(t, nil)
	rt := buildRuntime(t, ectx, map[string]ast.Node{journey.ID(): journey})

	r := rt.InvokeSync(journey.ID())
	require.False(t, r.IsError())
	m := r.Value.(map[string]any)
	require.Equal(t, "/onboarding", m["path"])
	require.Equal(t, "onboarding", m["code"])
	require.Equal(t, "/welcome", m["entryPath"])
}
