package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type harness struct {
	stdin          *bytes.Buffer
	stdout, stderr *bytes.Buffer
	environ        []string
	tty            bool
	dir            string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		stdin:  &bytes.Buffer{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		dir:    t.TempDir(),
	}
}

// execute runs the command line with a config path that does not exist
// unless the arguments name one.
func (h *harness) execute(args ...string) error {
	a := newApp(h.stdin, h.stdout, h.stderr)
	a.environ = func() []string { return h.environ }
	a.isTTY = func() bool { return h.tty }

	root := newRootCmd(a)
	full := append([]string{}, args...)
	if !containsFlag(args, "--config") {
		full = append(full, "--config", filepath.Join(h.dir, "missing.toml"))
	}
	root.SetArgs(full)
	return root.ExecuteContext(context.Background())
}

func containsFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag || strings.HasPrefix(arg, flag+"=") {
			return true
		}
	}
	return false
}

func (h *harness) json(t *testing.T) gjson.Result {
	t.Helper()
	out := h.stdout.String()
	require.True(t, gjson.Valid(out), "not JSON: %q", out)
	return gjson.Parse(out)
}

func TestInspectJSON(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.execute("inspect", "--format", "json", "e\u0301t\u00e9"))

	doc := h.json(t)
	assert.Equal(t, "small", doc.Get("kind").String())
	assert.False(t, doc.Get("ascii").Bool())
	assert.False(t, doc.Get("nfc").Bool())
	assert.Equal(t, int64(3), doc.Get("counts.characters").Int())
	assert.Equal(t, int64(4), doc.Get("counts.scalars").Int())
	assert.Equal(t, int64(6), doc.Get("counts.utf8").Int())
	assert.Equal(t, int64(4), doc.Get("counts.utf16").Int())
	assert.Len(t, doc.Get("hash").String(), 16)

	assert.Equal(t, "U+0301", doc.Get("scalars.1.value").String())
	assert.Equal(t, int64(1), doc.Get("scalars.1.offset").Int())
	assert.Equal(t, []string{"0065", "0301", "0074", "00E9"}, stringsOf(doc.Get("utf16")))
	assert.Equal(t, "e\u0301", doc.Get("characters.0.text").String())
	assert.Equal(t, int64(3), doc.Get("characters.1.offset").Int())
	assert.Equal(t, int64(2), doc.Get("characters.0.scalars.#").Int())
	assert.False(t, doc.Get("truncated").Exists())
}

func stringsOf(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

func TestInspectStdinAndLimits(t *testing.T) {
	h := newHarness(t)
	h.environ = []string{"USTR_INSPECT_MAX_ITEMS=2", "USTR_INSPECT_UTF16=false"}
	h.stdin.WriteString(strings.Repeat("ab", 30))
	require.NoError(t, h.execute("inspect"))

	// Piped output without an explicit format is JSON.
	doc := h.json(t)
	assert.Equal(t, "native", doc.Get("kind").String())
	assert.True(t, doc.Get("ascii").Bool())
	assert.Equal(t, int64(2), doc.Get("scalars.#").Int())
	assert.True(t, doc.Get("truncated.scalars").Bool())
	assert.True(t, doc.Get("truncated.characters").Bool())
	assert.False(t, doc.Get("utf16").Exists())
}

func TestInspectRepairAndStrict(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.execute("inspect", "--format=json", "a\xffb"))
	assert.Equal(t, "a\ufffdb", h.json(t).Get("text").String())

	h = newHarness(t)
	err := h.execute("inspect", "--strict", "a\xffb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid UTF-8")
}

func TestInspectForeign(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.execute("inspect", "--format=json", "--foreign", "e\u0301t\u00e9"))

	doc := h.json(t)
	assert.Equal(t, "foreign", doc.Get("kind").String())
	assert.Equal(t, "e\u0301t\u00e9", doc.Get("text").String())
	assert.Equal(t, int64(3), doc.Get("counts.characters").Int())
	assert.Equal(t, int64(6), doc.Get("counts.utf8").Int())
	assert.Equal(t, int64(4), doc.Get("counts.utf16").Int())
	assert.Equal(t, []string{"0065", "0301", "0074", "00E9"}, stringsOf(doc.Get("utf16")))

	native := newHarness(t)
	require.NoError(t, native.execute("inspect", "--format=json", "\u00e9t\u00e9"))
	assert.Equal(t, native.json(t).Get("hash").String(), doc.Get("hash").String())
}

func TestInspectText(t *testing.T) {
	h := newHarness(t)
	h.tty = true
	require.NoError(t, h.execute("inspect", "e\u0301!"))

	out := h.stdout.String()
	assert.False(t, gjson.Valid(out))
	assert.Contains(t, out, fmt.Sprintf("%-11s small (capacity 15)", "kind"))
	assert.Contains(t, out, fmt.Sprintf("%-11s characters=2 scalars=3 utf8=4 utf16=3", "counts"))
	assert.Contains(t, out, "U+0301")
	assert.Contains(t, out, "\u25cc\u0301")
	assert.Contains(t, out, fmt.Sprintf("%-11s 0065 0301 0021", "utf16"))
}

func TestCompare(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.execute("compare", "--format", "json", "\u00e9", "e\u0301"))
	doc := h.json(t)
	assert.True(t, doc.Get("equal").Bool())
	assert.False(t, doc.Get("identical").Bool())
	assert.Equal(t, int64(0), doc.Get("order").Int())
	assert.Equal(t, doc.Get("a.hash").String(), doc.Get("b.hash").String())
	assert.Equal(t, "\u00e9", doc.Get("b.nfc").String())

	h = newHarness(t)
	h.tty = true
	require.NoError(t, h.execute("compare", "apple", "pear"))
	assert.Contains(t, h.stdout.String(), `"apple" < "pear"`)

	h = newHarness(t)
	h.tty = true
	require.NoError(t, h.execute("compare", "\u00e9", "e\u0301"))
	assert.Contains(t, h.stdout.String(), "canonically equivalent")

	h = newHarness(t)
	assert.Error(t, h.execute("compare", "only-one"))
}

func TestRun(t *testing.T) {
	h := newHarness(t)
	script := filepath.Join(h.dir, "script.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
local s = ustr.new(arg[1])
print(s:count(), s:utf16count(), s:nfc():is_nfc())
`), 0o600))

	require.NoError(t, h.execute("run", script, "e\u0301\U0001F600"))
	assert.Equal(t, "2\t4\ttrue\n", h.stdout.String())
}

func TestRunLimits(t *testing.T) {
	h := newHarness(t)
	cfg := filepath.Join(h.dir, "ustr.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("script:\n  instruction_limit: 5\n"), 0o600))
	script := filepath.Join(h.dir, "loop.lua")
	require.NoError(t, os.WriteFile(script, []byte(`for i = 1, 100 do print(i) end`), 0o600))

	err := h.execute("--config", cfg, "run", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction limit")
	assert.Equal(t, 5, strings.Count(h.stdout.String(), "\n"))
}

func TestConfigErrors(t *testing.T) {
	h := newHarness(t)
	cfg := filepath.Join(h.dir, "ustr.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[inspect]\nformat = \"xml\"\n"), 0o600))

	err := h.execute("--config", cfg, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inspect.format")

	h = newHarness(t)
	err = h.execute("--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLogging(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.execute("--log-level", "debug", "inspect", "--format", "json", "x"))
	assert.Contains(t, h.stderr.String(), "configuration loaded")
	assert.Contains(t, h.stderr.String(), "format_source=arguments")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.execute("version", "--format", "json"))
	assert.Equal(t, "dev", h.json(t).Get("version").String())

	h = newHarness(t)
	h.tty = true
	require.NoError(t, h.execute("version"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "ustr dev\n"))
}
