package registry

import "sync"

type metaKey struct {
	nodeID string
	key    string
}

// MetadataRegistry holds (nodeID, key) -> value facts the traverser
// attaches during compilation: attachedToParentNode, isCurrentStep,
// isAncestorOfStep, isDescendantOfStep, and similar per-node tags consumed
// by wiring and by step-scoped evaluation.
type MetadataRegistry struct {
	mu   sync.RWMutex
	vals map[metaKey]any
	byID map[string]map[string]struct{} // nodeID -> set of keys present, for findNodesWhere
}

func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{
		vals: make(map[metaKey]any),
		byID: make(map[string]map[string]struct{}),
	}
}

// Set records key=value for nodeID, overwriting any prior value.
func (m *MetadataRegistry) Set(nodeID, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[metaKey{nodeID, key}] = value

	keys, ok := m.byID[nodeID]
	if !ok {
		keys = make(map[string]struct{})
		m.byID[nodeID] = keys
	}
	keys[key] = struct{}{}
}

// Get returns the value recorded for (nodeID, key), or def when absent.
func (m *MetadataRegistry) Get(nodeID, key string, def any) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vals[metaKey{nodeID, key}]; ok {
		return v
	}
	return def
}

// GetBool returns the boolean recorded for (nodeID, key), defaulting to
// false when absent or not a bool.
func (m *MetadataRegistry) GetBool(nodeID, key string) bool {
	v := m.Get(nodeID, key, false)
	b, _ := v.(bool)
	return b
}

// FindNodesWhere returns the ids of every node for which predicate(key,
// value) holds true for at least one recorded entry.
func (m *MetadataRegistry) FindNodesWhere(predicate func(key string, value any) bool) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for nodeID, keys := range m.byID {
		for key := range keys {
			if predicate(key, m.vals[metaKey{nodeID, key}]) {
				out = append(out, nodeID)
				break
			}
		}
	}
	return out
}
