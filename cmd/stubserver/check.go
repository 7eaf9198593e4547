package main

import (
	"context"
	"fmt"
	"io"

	"go_stub_server/app/http_mock_app"

	"github.com/spf13/cobra"
)

var checkStubFiles []string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate stub files without serving them",
	Example: `  stubserver check --stubs 'stubs/**/*.yaml'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := InitializeStubApp(config)
		if err != nil {
			return fmt.Errorf("failed to initialize stub server: %w", err)
		}
		patterns := append(config.Stubs.Files, checkStubFiles...)
		return checkStubs(cmd.Context(), patterns, app.Factory, cmd.OutOrStdout())
	},
}

func init() {
	checkCmd.Flags().StringSliceVarP(&checkStubFiles, "stubs", "s", nil, "Stub file globs, added to stubs.files")
	rootCmd.AddCommand(checkCmd)
}

// checkStubs parses every file on its own so each broken file is reported.
func checkStubs(ctx context.Context, patterns []string, fixtures http_mock_app.FixtureLoader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no stub files given")
	}
	files, err := http_mock_app.ExpandStubFiles(patterns)
	if err != nil {
		return err
	}

	failed := 0
	for _, file := range files {
		rules, err := http_mock_app.LoadStubFiles(ctx, []string{file}, fixtures)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %v\n", err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d stubs)\n", file, len(rules))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d stub files are invalid", failed, len(files))
	}
	return nil
}
