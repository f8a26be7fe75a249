package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apisurface/apisurface/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		classPaths []string
		configPath string
		backend    string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "watch <project-paths...>",
		Short: "Re-run analyze whenever a watched project path's class files change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args, classPaths, configPath, backend, outPath)
		},
	}

	cmd.Flags().StringArrayVar(&classPaths, "classpath", nil, "additional class-path locations searched for type resolution")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an apisurface config file (default: discovered in the first project path)")
	cmd.Flags().StringVar(&backend, "backend", "", "override the configured backend: swagger or plaintext")
	cmd.Flags().StringVar(&outPath, "out", "", "override the configured output location (default: standard output)")

	return cmd
}

func runWatch(projectPaths, classPaths []string, configPath, backend, outPath string) error {
	runAndReport := func() {
		if err := runAnalyze(projectPaths, classPaths, configPath, backend, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "apisurface: analysis failed: %v\n", err)
		}
	}

	runAndReport()

	w := watcher.New(projectPaths, []string{".class", ".jar"}, watcher.DefaultDebounce, func(events []watcher.Event) {
		fmt.Fprintf(os.Stderr, "apisurface: detected %d change(s), re-analyzing...\n", len(events))
		runAndReport()
	})
	return w.Watch()
}
