package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

func TestMetadataRegistrySetAndGet(t *testing.T) {
	m := registry.NewMetadataRegistry()
	m.Set("compile_ast:1", "isCurrentStep", true)

	assert.True(t, m.GetBool("compile_ast:1", "isCurrentStep"))
	assert.Equal(t, "fallback", m.Get("compile_ast:1", "missing", "fallback"))
}

func TestMetadataRegistryGetBoolDefaultsFalse(t *testing.T) {
	m := registry.NewMetadataRegistry()
	assert.False(t, m.GetBool("compile_ast:1", "isAncestorOfStep"))
}

func TestMetadataRegistryFindNodesWhere(t *testing.T) {
	m := registry.NewMetadataRegistry()
	m.Set("compile_ast:1", "isCurrentStep", true)
	m.Set("compile_ast:2", "isCurrentStep", false)
	m.Set("compile_ast:3", "isDescendantOfStep", true)

	found := m.FindNodesWhere(func(key string, value any) bool {
		b, _ := value.(bool)
		return key == "isCurrentStep" && b
	})

	assert.ElementsMatch(t, []string{"compile_ast:1"}, found)
}

func TestMetadataRegistryOverwritesPriorValue(t *testing.T) {
	m := registry.NewMetadataRegistry()
	m.Set("compile_ast:1", "label", "first")
	m.Set("compile_ast:1", "label", "second")

	assert.Equal(t, "second", m.Get("compile_ast:1", "label", ""))
}
