package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/ustr.toml", `
[inspect]
format = "json"
max_items = 16
graphemes = false

[script]
timeout = "250ms"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/ustr.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	inspect, ok := config["inspect"].(map[string]any)
	if !ok {
		t.Fatal("expected inspect to be a map")
	}
	if inspect["format"] != "json" {
		t.Errorf("format = %v, want json", inspect["format"])
	}
	if inspect["max_items"] != int64(16) {
		t.Errorf("max_items = %v (%T), want 16", inspect["max_items"], inspect["max_items"])
	}
	if inspect["graphemes"] != false {
		t.Errorf("graphemes = %v, want false", inspect["graphemes"])
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/ustr.yaml", `
log:
  level: debug
  format: json
inspect:
  max_items: 3
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/ustr.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	log, ok := config["log"].(map[string]any)
	if !ok {
		t.Fatalf("expected log to be a map, got %T", config["log"])
	}
	if log["level"] != "debug" || log["format"] != "json" {
		t.Errorf("log = %v", log)
	}
	inspect := config["inspect"].(map[string]any)
	if inspect["max_items"] != 3 {
		t.Errorf("max_items = %v (%T), want 3", inspect["max_items"], inspect["max_items"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	memfs := NewMemFS()
	for _, path := range []string{"/none.toml", "/none.yaml"} {
		l, err := ForPath(memfs, path)
		if err != nil {
			t.Fatalf("ForPath(%s) error = %v", path, err)
		}
		config, err := l.Load()
		if err != nil || config != nil {
			t.Errorf("Load(%s) = %v, %v; want nil, nil", path, config, err)
		}
	}
}

func TestForPath(t *testing.T) {
	memfs := NewMemFS()
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"/a.toml", "*loader.TOMLLoader", false},
		{"/a.TOML", "*loader.TOMLLoader", false},
		{"/a.yaml", "*loader.YAMLLoader", false},
		{"/a.yml", "*loader.YAMLLoader", false},
		{"/a.json", "", true},
	}

	for _, tt := range tests {
		l, err := ForPath(memfs, tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForPath(%s) should fail", tt.path)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ForPath(%s) error = %v", tt.path, err)
		}
		switch l.(type) {
		case *TOMLLoader:
			if tt.want != "*loader.TOMLLoader" {
				t.Errorf("ForPath(%s) = TOML loader", tt.path)
			}
		case *YAMLLoader:
			if tt.want != "*loader.YAMLLoader" {
				t.Errorf("ForPath(%s) = YAML loader", tt.path)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[inspect]\nformat = \n")
	memfs.AddFile("/bad.yaml", "log:\n  level: debug\n bad: [\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("TOML error = %v, want *ParseError", err)
	}
	if pe.Line != 2 || pe.Path != "/bad.toml" {
		t.Errorf("TOML ParseError = %+v", pe)
	}

	_, err = NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	if !errors.As(err, &pe) {
		t.Fatalf("YAML error = %v, want *ParseError", err)
	}
	if pe.Line == 0 || !strings.Contains(pe.Error(), "/bad.yaml") {
		t.Errorf("YAML ParseError = %v", pe)
	}
}

func TestLoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[log]\nlevel = \"warn\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["log"].(map[string]any)["level"] != "warn" {
		t.Errorf("config = %v", config)
	}

	_, err = NewYAMLLoader("").LoadFromReader(strings.NewReader("a: [\n"))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Path != "<reader>" {
		t.Errorf("YAML reader error = %v", err)
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string {
		return []string{
			"HOME=/root",
			"USTR_LOG_LEVEL=debug",
			"USTR_INSPECT_MAX_ITEMS=12",
			"USTR_INSPECT_UTF16=false",
			"USTR_SCRIPT_TIMEOUT=2s",
			"USTR_FORMAT=json",
			"USTR_BROKEN",
			"USTR_NOSECTION=1",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"log.level", "debug"},
		{"inspect.max_items", int64(12)},
		{"inspect.utf16", false},
		{"script.timeout", 2 * time.Second},
		{"inspect.format", "json"},
	}
	for _, tt := range tests {
		got, ok := getByPath(config, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := config["nosection"]; ok {
		t.Error("variable without a setting name should be ignored")
	}
	if _, ok := config["home"]; ok {
		t.Error("unprefixed variable was loaded")
	}
}

func TestEnvLoader_parseValue(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"1", int64(1)},
		{"0", int64(0)},
		{"yes", true},
		{"Off", false},
		{"1.5", 1.5},
		{"150ms", 150 * time.Millisecond},
		{"text", "text"},
	}
	for _, tt := range tests {
		if got := l.parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
