package lua

import (
	"bytes"
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func newSandboxedState(limit int64, out *bytes.Buffer) (*glua.LState, *Sandbox) {
	L := glua.NewState(glua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	sb := NewSandbox(L, limit, out)
	sb.Install()
	return L, sb
}

func TestSandboxInstall(t *testing.T) {
	L, _ := newSandboxedState(0, nil)
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		if L.GetGlobal(name) != glua.LNil {
			t.Errorf("%s should not be available", name)
		}
	}
	if L.GetGlobal("string") == glua.LNil {
		t.Error("string library should be available")
	}
}

func TestSandboxPrint(t *testing.T) {
	var out bytes.Buffer
	L, sb := newSandboxedState(0, &out)
	defer L.Close()

	if err := L.DoString(`print("a", 1, true)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := out.String(); got != "a\t1\ttrue\n" {
		t.Errorf("print output = %q", got)
	}
	if sb.InstructionCount() != 1 {
		t.Errorf("InstructionCount() = %d, want 1", sb.InstructionCount())
	}
}

func TestSandboxInstructionLimit(t *testing.T) {
	var out bytes.Buffer
	L, sb := newSandboxedState(3, &out)
	defer L.Close()

	err := L.DoString(`for i = 1, 10 do print(i) end`)
	if err == nil {
		t.Fatal("expected instruction limit error")
	}
	if !strings.Contains(err.Error(), ErrInstructionLimit.Error()) {
		t.Errorf("error = %v", err)
	}
	if !sb.Exceeded() {
		t.Error("Exceeded() should be true")
	}
	if got := strings.Count(out.String(), "\n"); got != 3 {
		t.Errorf("printed %d lines before the limit, want 3", got)
	}

	sb.ResetInstructionCount()
	if sb.Exceeded() || sb.InstructionCount() != 0 {
		t.Error("ResetInstructionCount() did not reset")
	}
}

func TestSandboxInstructionLimitDisabled(t *testing.T) {
	sb := NewSandbox(nil, 0, nil)
	for range 1000 {
		if sb.IncrementInstructions(1) {
			t.Fatal("disabled limit should never be exceeded")
		}
	}
	if sb.InstructionCount() != 1000 {
		t.Errorf("InstructionCount() = %d, want 1000", sb.InstructionCount())
	}
}

func TestSandboxSafeRequire(t *testing.T) {
	L, _ := newSandboxedState(0, nil)
	defer L.Close()

	if err := L.DoString(`local s = require("string"); assert(s.upper("a") == "A")`); err != nil {
		t.Errorf("require string: %v", err)
	}
	for _, mod := range []string{"io", "os", "debug", "socket", "../evil"} {
		err := L.DoString(`require("` + mod + `")`)
		if err == nil || !strings.Contains(err.Error(), "not available") {
			t.Errorf("require(%q) error = %v", mod, err)
		}
	}
}
