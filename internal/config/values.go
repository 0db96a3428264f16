package config

import (
	"fmt"
	"strconv"
	"time"
)

// The value readers accept every representation the loaders produce:
// TOML yields int64, YAML yields int, environment values arrive parsed
// or as strings.

func toString(path string, val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", typeError(path, "string", val)
	}
	return s, nil
}

func toInt(path string, val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, typeError(path, "integer", val)
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, typeError(path, "integer", val)
		}
		return i, nil
	default:
		return 0, typeError(path, "integer", val)
	}
}

func toBool(path string, val any) (bool, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, typeError(path, "boolean", val)
		}
		return b, nil
	default:
		return false, typeError(path, "boolean", val)
	}
}

// toDuration accepts duration strings ("500ms") and integers, which are
// taken as milliseconds.
func toDuration(path string, val any) (time.Duration, error) {
	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string at %s: %w", path, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	default:
		return 0, typeError(path, "duration", val)
	}
}

func typeError(path, expected string, val any) error {
	return &TypeError{
		Path:     path,
		Expected: expected,
		Actual:   fmt.Sprintf("%T", val),
	}
}
