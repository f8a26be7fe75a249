package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apisurface/apisurface/internal/config"
	"github.com/apisurface/apisurface/internal/diagnostic"
	"github.com/apisurface/apisurface/internal/model"
	"github.com/apisurface/apisurface/internal/render/plaintext"
	"github.com/apisurface/apisurface/internal/render/swagger"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		classPaths []string
		configPath string
		backend    string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "analyze <project-paths...>",
		Short: "Run one analysis pass and write the rendered document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args, classPaths, configPath, backend, outPath)
		},
	}

	cmd.Flags().StringArrayVar(&classPaths, "classpath", nil, "additional class-path locations searched for type resolution")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an apisurface config file (default: discovered in the first project path)")
	cmd.Flags().StringVar(&backend, "backend", "", "override the configured backend: swagger or plaintext")
	cmd.Flags().StringVar(&outPath, "out", "", "override the configured output location (default: standard output)")

	return cmd
}

func loadConfig(configPath string, projectPaths []string) (config.Config, error) {
	if configPath == "" && len(projectPaths) > 0 {
		configPath = config.Discover(projectPaths[0])
	}
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

func runAnalyze(projectPaths, classPaths []string, configPath, backendOverride, outOverride string) error {
	cfg, err := loadConfig(configPath, projectPaths)
	if err != nil {
		return err
	}
	if backendOverride != "" {
		cfg.Backend = config.Backend(strings.ToUpper(backendOverride))
	}
	if outOverride != "" {
		cfg.OutputLocation = outOverride
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	diag := diagnostic.NewCollector(strictMode, quietMode)
	doc, registry, err := analyzeOnce(projectPaths, classPaths, cfg, diag)
	if err != nil {
		return err
	}

	// spec.md §6: an empty resource set emits no document and signals
	// success, not an error.
	if len(doc.Resources) == 0 {
		fmt.Fprintln(os.Stderr, "apisurface: no resources discovered; no document written")
		printDiagnostics(diag)
		return nil
	}

	rendered, err := renderDocument(doc, registry, cfg)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.OutputLocation, rendered); err != nil {
		diag.Error(diagnostic.CategoryIOError, cfg.OutputLocation, 0, err.Error())
		printDiagnostics(diag)
		return err
	}

	printDiagnostics(diag)
	if diag.HasErrors() {
		return fmt.Errorf("analysis completed with errors: %s", diag.Summary())
	}
	return nil
}

// renderDocument dispatches to the backend named by cfg.Backend (spec.md §6:
// SWAGGER default, PLAINTEXT alternative).
func renderDocument(doc *model.Document, registry *model.TypeRegistry, cfg config.Config) (string, error) {
	switch cfg.Backend {
	case config.BackendPlaintext:
		return plaintext.Render(doc, registry, plaintext.Config{}), nil
	case config.BackendSwagger, "":
		out := swagger.Render(doc, registry, swagger.Config{})
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling OpenAPI document: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func printDiagnostics(diag *diagnostic.Collector) {
	if formatted := diag.FormatAll(); formatted != "" {
		fmt.Fprint(os.Stderr, formatted)
	}
	if summary := diag.Summary(); summary != "" && summary != "no issues" {
		fmt.Fprintln(os.Stderr, summary)
	}
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(os.Stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
