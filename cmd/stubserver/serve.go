package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go_stub_server/app/http_mock_app"
	model "go_stub_server/internal/domain/model/stub_rule"
	configs "go_stub_server/internal/infra/config"
	"go_stub_server/utils"

	"github.com/go-chassis/go-chassis/v2"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	host              string
	port              int
	connectionFailure string
	stubs             []string
	preload           bool
	admin             bool
	printURL          bool
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stub server",
	Example: `  # Serve the stubs of a directory on a free port and print its URL
  stubserver serve --stubs 'stubs/**/*.yaml' --port 0 --print-url

  # Also expose the admin API (configured in conf/chassis.yaml)
  stubserver serve --admin`,
	RunE: runServe,
}

func init() {
	f := &serveFlagVals

	serveCmd.Flags().StringVar(&f.host, "host", "", "Bind address (overrides server.host)")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", 0, "Stub port, 0 picks a free one (overrides server.port)")
	serveCmd.Flags().StringVar(&f.connectionFailure, "connection-failure", "",
		"How connection error stubs are answered: fatal or drop (overrides server.connectionFailure)")
	serveCmd.Flags().StringSliceVarP(&f.stubs, "stubs", "s", nil, "Stub file globs, added to stubs.files")
	serveCmd.Flags().BoolVar(&f.preload, "preload", false, "Load every fixture before serving")
	serveCmd.Flags().BoolVar(&f.admin, "admin", false, "Serve the REST admin API through go-chassis")
	serveCmd.Flags().BoolVar(&f.printURL, "print-url", false, "Print the stub server URL to stdout once started")

	rootCmd.AddCommand(serveCmd)
}

// applyServeFlags patches config with the flags the user actually set.
func applyServeFlags(cmd *cobra.Command, f *serveFlags, config *configs.StubConfig) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		config.Server.Host = f.host
	}
	if flags.Changed("port") {
		config.Server.Port = f.port
	}
	if flags.Changed("connection-failure") {
		config.Server.ConnectionFailure = f.connectionFailure
	}
	config.Stubs.Files = append(config.Stubs.Files, f.stubs...)
	return config.Validate()
}

func runServe(cmd *cobra.Command, _ []string) error {
	f := &serveFlagVals

	config, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, f, config); err != nil {
		return err
	}

	log, err := utils.InitLogger(config.Log)
	if err != nil {
		return err
	}

	app, err := InitializeStubApp(config)
	if err != nil {
		return fmt.Errorf("failed to initialize stub server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if f.preload {
		if err := app.Fixtures.Preload(ctx); err != nil {
			return fmt.Errorf("failed to preload fixtures: %w", err)
		}
	}

	var rules []model.StubRule
	if len(config.Stubs.Files) > 0 {
		rules, err = http_mock_app.LoadStubFiles(ctx, config.Stubs.Files, app.Factory)
		if err != nil {
			return err
		}
	}

	port, err := app.Server.Start(ctx)
	if err != nil {
		return err
	}
	defer app.Server.Stop()
	app.Server.SetStub(rules...)

	log.WithField("port", port).WithField("stubs", len(rules)).Info("stub server ready")
	if f.printURL {
		fmt.Fprintln(cmd.OutOrStdout(), app.Server.URL())
	}

	if f.admin {
		// go-chassis handles the shutdown signals itself
		return runAdmin(app)
	}

	<-ctx.Done()
	log.Info("shutting down stub server")
	return nil
}

func runAdmin(app *StubApp) error {
	controller := http_mock_app.NewStubAdminController(app.Admin)
	chassis.RegisterSchema("rest", controller)
	if err := chassis.Init(); err != nil {
		return fmt.Errorf("failed to init go-chassis: %w", err)
	}
	if err := http_mock_app.RegisterAdminMetrics(); err != nil {
		return err
	}
	return chassis.Run()
}
