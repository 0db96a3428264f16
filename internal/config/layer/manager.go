package layer

import (
	"slices"
	"sync"
)

// Manager holds configuration layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // Sorted by priority (ascending)
	merged map[string]any // Cached merged result
	dirty  bool
}

// NewManager creates an empty layer manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// AddLayer adds a layer. Layers are kept sorted by priority; equal
// priorities keep insertion order.
func (m *Manager) AddLayer(layer *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = append(m.layers, layer)
	slices.SortStableFunc(m.layers, func(a, b *Layer) int {
		return a.Priority - b.Priority
	})
	m.dirty = true
}

// Layers returns the layers sorted by priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.layers)
}

// Merge combines all layers into a single configuration map. The result
// is a copy the caller may modify.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		// Lowest priority first.
		for _, layer := range m.layers {
			result = DeepMerge(result, layer.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return cloneMap(m.merged)
}

// Get returns the effective value for a setting path and the layer that
// provided it.
func (m *Manager) Get(path string) (any, *Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		layer := m.layers[i]
		if val, ok := GetByPath(layer.Data, path); ok {
			return val, layer, true
		}
	}
	return nil, nil, false
}

// WhichLayer returns the name of the layer providing path, or "" if no
// layer sets it.
func (m *Manager) WhichLayer(path string) string {
	_, layer, ok := m.Get(path)
	if !ok {
		return ""
	}
	return layer.Name
}
