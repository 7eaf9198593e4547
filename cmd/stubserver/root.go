package main

import (
	"fmt"
	"os"

	configs "go_stub_server/internal/infra/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stubserver",
	Short: "Programmable HTTP stub server",
	Long: `stubserver answers HTTP requests from registered stub rules and records
every request it receives, so tests can assert on the traffic afterwards.

Rules come from YAML stub files and, with --admin, from the REST admin API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the server config (default $STUB_CONFIG_PATH or stub.<STUB_ENV>.yaml)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*configs.StubConfig, error) {
	if configPath != "" {
		return configs.LoadStubConfigFrom(configPath)
	}
	return configs.LoadStubConfig()
}
