package utils

import (
	"bytes"
	"strings"
	"testing"
)

func newTestDiagnostics(t *testing.T, level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.useColors = false
	d.showTime = false
	d.SetOutput(&buf)
	return d, &buf
}

func TestDiagnosticLevels(t *testing.T) {
	d, buf := newTestDiagnostics(t, DiagnosticInfo)

	d.Error("boom: %s", "details")
	d.Warn("careful")
	d.Info("status")
	d.Verbose("hidden at info level")
	d.Debug("also hidden")

	output := buf.String()
	if !strings.Contains(output, "[ERROR] boom: details") {
		t.Errorf("missing error line, got %q", output)
	}
	if !strings.Contains(output, "[WARN] careful") {
		t.Errorf("missing warn line, got %q", output)
	}
	if !strings.Contains(output, "[INFO] status") {
		t.Errorf("missing info line, got %q", output)
	}
	if strings.Contains(output, "hidden") {
		t.Errorf("verbose output leaked at info level: %q", output)
	}
}

func TestQuietDiagnostics(t *testing.T) {
	d, buf := newTestDiagnostics(t, DiagnosticError)

	d.Info("should not appear")
	d.Success("neither should this")
	d.Progress("nor this")
	d.Error("only this")

	output := buf.String()
	if strings.Contains(output, "should not appear") || strings.Contains(output, "neither") || strings.Contains(output, "nor this") {
		t.Errorf("quiet mode leaked non-error output: %q", output)
	}
	if !strings.Contains(output, "only this") {
		t.Errorf("quiet mode swallowed the error: %q", output)
	}
}

func TestVerboseDiagnostics(t *testing.T) {
	d, buf := newTestDiagnostics(t, DiagnosticVerbose)

	d.Verbose("expanding %s", "lib.rs")

	if !strings.Contains(buf.String(), "[VERBOSE] expanding lib.rs") {
		t.Errorf("verbose output missing: %q", buf.String())
	}
}

func TestProgressAndList(t *testing.T) {
	d, buf := newTestDiagnostics(t, DiagnosticInfo)

	d.Progress("Expanded %s", "lib.rs")
	d.List("item %d", 1)

	output := buf.String()
	if !strings.Contains(output, "✓ Expanded lib.rs") {
		t.Errorf("missing progress line: %q", output)
	}
	if !strings.Contains(output, "- item 1") {
		t.Errorf("missing list line: %q", output)
	}
}
