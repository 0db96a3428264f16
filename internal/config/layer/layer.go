// Package layer merges configuration sources by priority.
//
// Each source (built-in defaults, a config file, the environment, command
// line flags) becomes a Layer holding a nested map. Higher priority layers
// override lower ones key by key; nested tables merge recursively.
package layer

// Layer is a single configuration source.
type Layer struct {
	// Name identifies the layer in diagnostics.
	Name string

	// Source indicates where the layer was loaded from.
	Source Source

	// Priority determines merge order; higher overrides lower.
	Priority int

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any
}

// NewLayer creates an empty layer with the default priority of source.
func NewLayer(name string, source Source) *Layer {
	return NewLayerWithData(name, source, make(map[string]any))
}

// NewLayerWithData creates a layer holding data.
func NewLayerWithData(name string, source Source, data map[string]any) *Layer {
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceDefaults is the built-in configuration.
	SourceDefaults Source = iota
	// SourceFile is a TOML or YAML config file.
	SourceFile
	// SourceEnv is the USTR_ environment variables.
	SourceEnv
	// SourceArgs is command-line flags.
	SourceArgs
)

// Standard priorities. Higher values override lower values.
const (
	PriorityDefaults = 0
	PriorityFile     = 100
	PriorityEnv      = 500
	PriorityArgs     = 600
)

// Priority returns the standard priority for the source.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityDefaults
	}
}

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// cloneMap creates a deep copy of a map.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

// cloneSlice creates a deep copy of a slice.
func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}
