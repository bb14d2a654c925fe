package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

type stubComponent struct {
	variant  string
	failWith error
}

func (s stubComponent) Variant() string       { return s.variant }
func (s stubComponent) Schema() any           { return nil }
func (s stubComponent) Validate(ast.Block) error { return s.failWith }

func TestComponentRegistryRegisterAndLookup(t *testing.T) {
	r := registry.NewComponentRegistry()
	require.NoError(t, r.Register(stubComponent{variant: "text"}))

	c, ok := r.Lookup("text")
	require.True(t, ok)
	assert.Equal(t, "text", c.Variant())
}

func TestComponentRegistryRejectsDuplicateVariant(t *testing.T) {
	r := registry.NewComponentRegistry()
	require.NoError(t, r.Register(stubComponent{variant: "text"}))

	err := r.Register(stubComponent{variant: "text"})
	assert.Error(t, err)
}

func TestComponentRegistryRejectsEmptyVariant(t *testing.T) {
	r := registry.NewComponentRegistry()
	err := r.Register(stubComponent{variant: ""})
	assert.Error(t, err)
}

func TestComponentRegistryValidateBlockDelegates(t *testing.T) {
	r := registry.NewComponentRegistry()
	want := assert.AnError
	require.NoError(t, r.Register(stubComponent{variant: "text", failWith: want}))

	err := r.ValidateBlock("text", ast.NewBasicBlock("compile_ast:1", nil))
	assert.ErrorIs(t, err, want)
}

func TestComponentRegistryValidateBlockUnregisteredVariantIsNil(t *testing.T) {
	r := registry.NewComponentRegistry()
	err := r.ValidateBlock("missing", ast.NewBasicBlock("compile_ast:1", nil))
	assert.NoError(t, err)
}
