package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apisurface/apisurface/internal/diagnostic"
)

func newDumpCmd() *cobra.Command {
	var (
		classPaths []string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "dump <project-paths...>",
		Short: "Dump the extracted resource model as JSON, without rendering a document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args, classPaths, format)
		},
	}

	cmd.Flags().StringArrayVar(&classPaths, "classpath", nil, "additional class-path locations searched for type resolution")
	cmd.Flags().StringVar(&format, "format", "json", "dump format (only json is supported)")

	return cmd
}

func runDump(projectPaths, classPaths []string, format string) error {
	if format != "json" {
		return fmt.Errorf("unsupported dump format %q (only json is supported)", format)
	}

	diag := diagnostic.NewCollector(strictMode, quietMode)
	resolver, resources, err := extractOnce(projectPaths, classPaths, diag)
	if err != nil {
		return err
	}
	defer resolver.Close()

	data, err := json.MarshalIndent(resources, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling resources: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))

	printDiagnostics(diag)
	return nil
}
