package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
)

func newFactory(t *testing.T) *ast.Factory {
	t.Helper()
	return ast.NewFactory(ids.NewGenerator())
}

func TestLowerValuePassesThroughLiteral(t *testing.T) {
	f := newFactory(t)
	n, err := f.LowerValue("hello")
	require.NoError(t, err)
	lit, ok := n.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "hello", lit.Value)
	assert.Equal(t, "EXPRESSION:LITERAL", lit.Kind())
}

func TestLowerValueLowersNestedMapEntries(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"count": 3.0,
		"ref": map[string]any{
			"expressionType": "REFERENCE",
			"path":           []any{"answers", "email"},
		},
	}
	n, err := f.LowerValue(raw)
	require.NoError(t, err)
	lit := n.(*ast.Literal)
	m := lit.Value.(map[string]any)

	count := m["count"].(*ast.Literal)
	assert.Equal(t, 3.0, count.Value)

	ref := m["ref"].(*ast.Reference)
	assert.Equal(t, []string{"answers", "email"}, ref.Path)
}

func TestLowerConditionalDefaultsMissingBranches(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"expressionType": "CONDITIONAL",
		"predicate": map[string]any{
			"predicateType": "TEST",
			"subject":       map[string]any{"expressionType": "REFERENCE", "path": []any{"answers", "flag"}},
		},
	}
	n, err := f.LowerValue(raw)
	require.NoError(t, err)
	cond := n.(*ast.Conditional)

	thenLit, ok := cond.ThenValue.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, true, thenLit.Value)

	elseLit, ok := cond.ElseValue.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, false, elseLit.Value)
}

func TestLowerFieldBlockSynthesizesSelfValue(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"blockType": "FIELD",
		"variant":   "text",
		"code":      "email",
	}
	n, err := f.LowerValue(raw)
	require.NoError(t, err)
	block := n.(*ast.FieldBlock)

	ref, ok := block.Value.(*ast.Reference)
	require.True(t, ok)
	assert.Equal(t, []string{"@self"}, ref.Path)
}

func TestLowerFieldBlockRejectsMissingCode(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"blockType": "FIELD",
		"variant":   "text",
	}
	_, err := f.LowerValue(raw)
	assert.Error(t, err)
}

func TestLowerSubmitTransitionDefaultsValidateFalse(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"transitionType": "SUBMIT",
		"onAlways": map[string]any{
			"next": []any{
				map[string]any{"outcomeType": "REDIRECT", "goto": "/done"},
			},
		},
	}
	n, err := f.LowerValue(raw)
	require.NoError(t, err)
	submit := n.(*ast.SubmitTransition)
	assert.False(t, submit.Validate)
	require.NotNil(t, submit.OnAlways)
	require.Len(t, submit.OnAlways.Next, 1)
}

func TestLowerSubmitTransitionHonorsExplicitValidateTrue(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"transitionType": "SUBMIT",
		"validate":       true,
	}
	n, err := f.LowerValue(raw)
	require.NoError(t, err)
	submit := n.(*ast.SubmitTransition)
	assert.True(t, submit.Validate)
}

func TestLowerJourneyRecursesIntoStepsAndBlocks(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"path": "/apply",
		"steps": []any{
			map[string]any{
				"path":  "start",
				"title": "Start",
				"blocks": []any{
					map[string]any{"blockType": "BASIC", "variant": "panel"},
				},
			},
		},
	}
	journey, err := f.LowerJourney(raw)
	require.NoError(t, err)
	require.Len(t, journey.Steps, 1)
	require.Len(t, journey.Steps[0].Blocks, 1)
	assert.Equal(t, ast.BlockBasic, journey.Steps[0].Blocks[0].BlockType())
}

func TestLowerNamedTransitionInjectsImpliedKind(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"path":  "start",
		"title": "Start",
		"onLoad": map[string]any{
			"effects": []any{},
		},
	}
	step, err := f.LowerStep(raw)
	require.NoError(t, err)
	require.NotNil(t, step.OnLoad)
	assert.Equal(t, ast.TransitionLoad, (*step.OnLoad).TransitionType())
}

func TestLowerStepRejectsMissingPath(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"title": "Start",
	}
	_, err := f.LowerStep(raw)
	assert.Error(t, err)
}

func TestLowerStepRejectsMissingTitle(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"path": "start",
	}
	_, err := f.LowerStep(raw)
	assert.Error(t, err)
}

func TestLowerStepRejectsDuplicateFieldCode(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"path":  "start",
		"title": "Start",
		"blocks": []any{
			map[string]any{"blockType": "FIELD", "variant": "text", "code": "email"},
			map[string]any{"blockType": "FIELD", "variant": "text", "code": "email"},
		},
	}
	_, err := f.LowerStep(raw)
	assert.Error(t, err)
}

func TestEveryMintedIDIsUnique(t *testing.T) {
	f := newFactory(t)
	raw := map[string]any{
		"expressionType": "PIPELINE",
		"input":          map[string]any{"expressionType": "REFERENCE", "path": []any{"answers", "a"}},
		"steps": []any{
			map[string]any{"expressionType": "FUNCTION", "name": "trim"},
			map[string]any{"expressionType": "FUNCTION", "name": "upper"},
		},
	}
	n, err := f.LowerValue(raw)
	require.NoError(t, err)

	seen := map[string]bool{}
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		require.False(t, seen[node.ID()], "duplicate id %s", node.ID())
		seen[node.ID()] = true
		for _, c := range node.Children() {
			walk(c)
		}
	}
	walk(n)
	assert.GreaterOrEqual(t, len(seen), 3)
}
