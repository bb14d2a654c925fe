// Package definition holds the author-facing journey definition: a
// data-only, JSON/YAML-serializable tree the compiler's node factories
// (internal/ast) lower into the normalized AST. Any value the factories
// don't recognize as one of the node shapes below passes through literally,
// which is what lets authors write bare strings, numbers, and plain maps
// anywhere an expression is accepted.
package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

// Value is any decoded definition value: a node shape (a map carrying one
// of the discriminator keys below), a primitive, or a collection of either.
// YAML decode into `any` already produces exactly this shape
// (map[string]any / []any / string / int / float64 / bool / nil), so no
// bespoke unmarshaler is required for the general case.
type Value = any

// Document is the top-level YAML file authors write: an engine/schema
// version plus the root journey definition.
type Document struct {
	Version string `yaml:"version"`
	Journey Value  `yaml:"journey"`
}

// discriminatorKeys lists every field name the lowering dispatcher in
// internal/ast/factory.go checks, in priority order, to decide whether a
// map is a node shape and which one.
var discriminatorKeys = []string{
	"type", "expressionType", "blockType", "predicateType",
	"transitionType", "outcomeType", "pseudoType",
}

// LoadYAML decodes raw YAML bytes into a Document.
func LoadYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidNode, "", fmt.Errorf("decode journey document: %w", err))
	}
	return &doc, nil
}

// AsMap returns v as a map[string]any if it is one, mirroring the teacher's
// "decode then type-switch on a discriminator field" idiom
// (config.Step.UnmarshalYAML) generalized from a fixed YAML node to any
// definition value.
func AsMap(v Value) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice returns v as a []any if it is one.
func AsSlice(v Value) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// Discriminator inspects a map-shaped value for one of the known
// discriminator keys and returns (key, value, true) for the first one
// present. A value with no recognized discriminator key is not a node
// shape and must be treated as an opaque primitive/plain object.
func Discriminator(v Value) (key string, tag string, ok bool) {
	m, isMap := AsMap(v)
	if !isMap {
		return "", "", false
	}
	for _, k := range discriminatorKeys {
		if raw, present := m[k]; present {
			if s, isStr := raw.(string); isStr {
				return k, s, true
			}
		}
	}
	return "", "", false
}

// StringField reads a string field with a default.
func StringField(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// BoolField reads a bool field with a default. Per spec.md's edge-case
// policies, several flags (e.g. SUBMIT.validate) must default false unless
// the authored value is exactly `true` — callers that need that stricter
// rule use BoolFieldStrictTrue instead.
func BoolField(m map[string]any, key string, def bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// BoolFieldStrictTrue returns true only when the field is present and
// exactly the boolean true; anything else (absent, false, or a non-bool
// value an author mistakenly supplied) is false.
func BoolFieldStrictTrue(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// SliceField reads a []any field, returning nil (not an error) when absent.
func SliceField(m map[string]any, key string) []any {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// Field reads a raw field value, or nil when absent.
func Field(m map[string]any, key string) Value {
	return m[key]
}
