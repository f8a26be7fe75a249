package config

import (
	"testing"
)

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := DefaultConfig()
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
}

func TestValidateDetailed_InvalidBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "XML"
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Error("expected invalid config for an unrecognized backend")
	}
}

func TestValidateDetailed_EmptyProjectNameWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProjectName = ""
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about an empty projectName")
	}
}

func TestValidateDetailed_UnusualOutputExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputLocation = "out/surface.pdf"
	result := cfg.ValidateDetailed()
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for an unusual output extension")
	}
}
