package config

import (
	"fmt"
	"path/filepath"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions,
// beyond the hard errors Validate reports.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	switch c.Backend {
	case "", BackendSwagger, BackendPlaintext:
		// valid
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("backend: invalid value %q — must be SWAGGER or PLAINTEXT", c.Backend))
	}

	if c.ProjectName == "" {
		result.Warnings = append(result.Warnings, "projectName is empty — the rendered document will use an empty title")
	}

	if c.OutputLocation != "" {
		ext := filepath.Ext(c.OutputLocation)
		if ext != ".json" && ext != ".yaml" && ext != ".yml" && ext != ".txt" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("outputLocation: extension %q is unusual for backend %q", ext, c.Backend))
		}
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
