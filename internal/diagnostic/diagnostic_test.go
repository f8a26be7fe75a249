package diagnostic

import (
	"strings"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Category: CategoryResolutionError,
		File:     "com/example/UserResource.class",
		Line:     0,
		Message:  "class com.example.Missing could not be resolved on the class path",
		Hint:     "check the class-path locations passed to the analyzer",
	}

	s := d.String()
	if !strings.Contains(s, "com/example/UserResource.class") {
		t.Errorf("expected file, got %q", s)
	}
	if !strings.Contains(s, "warning") {
		t.Errorf("expected 'warning', got %q", s)
	}
	if !strings.Contains(s, "[resolution-error]") {
		t.Errorf("expected category, got %q", s)
	}
	if !strings.Contains(s, "hint:") {
		t.Errorf("expected hint, got %q", s)
	}
}

func TestCollector_WarnAndError(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryDecodeError, "UserResource.class", 0, "malformed signature on method get")
	c.Error(CategoryConfigInvalid, "", 0, "missing config field")

	if c.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", c.WarningCount())
	}
	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", c.ErrorCount())
	}
	if !c.HasErrors() {
		t.Error("expected HasErrors() = true")
	}
}

func TestCollector_StrictMode(t *testing.T) {
	c := NewCollector(true, false) // strict mode
	c.Warn(CategoryResolutionError, "UserResource.class", 0, "unresolved class")

	// In strict mode, warnings become errors
	if c.ErrorCount() != 1 {
		t.Errorf("expected 1 error (strict mode), got %d", c.ErrorCount())
	}
	if c.WarningCount() != 0 {
		t.Errorf("expected 0 warnings (strict mode), got %d", c.WarningCount())
	}
}

func TestCollector_QuietMode(t *testing.T) {
	c := NewCollector(false, true) // quiet mode
	c.Warn(CategoryResolutionError, "UserResource.class", 0, "unresolved class")
	c.Info(CategorySimulationBudgetExceeded, "UserResource.class", 0, "recursion cap hit")
	c.Error(CategoryConfigInvalid, "", 0, "real error") // errors still show

	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected 1 diagnostic (only error), got %d", len(c.Diagnostics()))
	}
}

func TestCollector_Summary(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryDecodeError, "a.class", 0, "warn1")
	c.Warn(CategoryDecodeError, "b.class", 0, "warn2")
	c.Error(CategoryConfigInvalid, "", 0, "err1")

	summary := c.Summary()
	if !strings.Contains(summary, "1 error") {
		t.Errorf("expected '1 error' in summary, got %q", summary)
	}
	if !strings.Contains(summary, "2 warning") {
		t.Errorf("expected '2 warning' in summary, got %q", summary)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	// Should not panic
	c.Warn(CategoryResolutionError, "", 0, "test")
	c.Error(CategoryConfigInvalid, "", 0, "test")
	if c.HasErrors() {
		t.Error("nil collector should not have errors")
	}
	if c.Summary() != "" {
		t.Error("nil collector should return empty summary")
	}
}

func TestCollector_FormatAll(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryResolutionError, "UserResource.class", 10, "unresolved class")

	formatted := c.FormatAll()
	if !strings.Contains(formatted, "UserResource.class:10") {
		t.Errorf("expected formatted output with file:line, got %q", formatted)
	}
}

func TestCollector_WarnWithHint(t *testing.T) {
	c := NewCollector(false, false)
	c.WarnWithHint(CategoryIOError, "out.json", 0, "could not write output", "check the output path is writable")

	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Hint != "check the output path is writable" {
		t.Errorf("expected hint, got %v", diags)
	}
}
