package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	Debug.Printf("[Controller] hello %d", 1)
	Scanner.Printf("[Cursor] skip")

	out := buf.String()
	if !strings.Contains(out, "[Controller] hello 1") || !strings.Contains(out, "[Cursor] skip") {
		t.Errorf("unexpected log output %q", out)
	}
	if !Enabled {
		t.Error("expected logging to be enabled")
	}
}

func TestSetLevelIgnoresInfo(t *testing.T) {
	SetOutput(io.Discard)
	SetLevel("info")
	if Enabled {
		t.Error("info level must not enable debug output")
	}
}
