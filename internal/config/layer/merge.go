package layer

import (
	"maps"
	"slices"
	"strings"
)

// DeepMerge merges src into dst and returns dst. Tables present on both
// sides merge key by key; any other value in src replaces the one in dst.
// Values taken from src are copied, so later edits to src do not leak.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, val := range src {
		if sub, ok := val.(map[string]any); ok {
			if cur, ok := dst[key].(map[string]any); ok {
				dst[key] = DeepMerge(cur, sub)
				continue
			}
		}
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	}
	return val
}

// GetByPath looks up a dotted path such as "inspect.max_items".
func GetByPath(data map[string]any, path string) (any, bool) {
	var cur any = data
	for {
		m, ok := cur.(map[string]any)
		if !ok || m == nil {
			return nil, false
		}
		key, rest, more := strings.Cut(path, ".")
		if cur, ok = m[key]; !ok {
			return nil, false
		}
		if !more {
			return cur, true
		}
		path = rest
	}
}

// SetByPath stores value at a dotted path, creating tables on the way and
// replacing any non-table value that is in the way.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}
	for {
		key, rest, more := strings.Cut(path, ".")
		if !more {
			data[key] = value
			return
		}
		next, ok := data[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			data[key] = next
		}
		data, path = next, rest
	}
}

// FlattenMap turns nested tables into a single map keyed by dotted paths.
func FlattenMap(data map[string]any) map[string]any {
	flat := make(map[string]any)
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for key, val := range m {
			if prefix != "" {
				key = prefix + "." + key
			}
			if sub, ok := val.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			flat[key] = val
		}
	}
	walk("", data)
	return flat
}

// ShapeError reports a value at the wrong depth. Settings live exactly at
// section.setting: the top level holds only section tables and a section
// holds only plain values.
type ShapeError struct {
	Path string

	// WantTable is true when a section table was expected.
	WantTable bool
}

func (e *ShapeError) Error() string {
	return e.Path + ": " + e.Problem()
}

// Problem describes what is wrong with the value at Path.
func (e *ShapeError) Problem() string {
	if e.WantTable {
		return "section must be a table"
	}
	return "setting must not be a table"
}

// CheckShape returns a ShapeError for every entry of data that is not a
// section.setting value, ordered by path. It returns nil for a well-shaped
// layer.
func CheckShape(data map[string]any) []*ShapeError {
	var errs []*ShapeError
	for _, section := range slices.Sorted(maps.Keys(data)) {
		settings, ok := data[section].(map[string]any)
		if !ok {
			errs = append(errs, &ShapeError{Path: section, WantTable: true})
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(settings)) {
			if _, nested := settings[name].(map[string]any); nested {
				errs = append(errs, &ShapeError{Path: section + "." + name})
			}
		}
	}
	return errs
}
