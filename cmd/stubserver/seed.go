package main

import (
	"context"
	"fmt"
	"io"

	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/internal/infra/storage"
	"go_stub_server/utils"

	"github.com/spf13/cobra"
)

var seedFrom string

var seedCmd = &cobra.Command{
	Use:   "seed [fixture...]",
	Short: "Copy fixtures from a directory into the configured redis, s3 or mysql source",
	Example: `  # Upload every fixture of ./fixtures
  STUB_CONFIG_PATH=stub.ci.yaml stubserver seed --from fixtures

  # Upload two fixtures
  stubserver seed --from fixtures orders errors/denied`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := storage.NewFixtureStore(&config.Fixtures)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		n, err := seedFixtures(ctx, storage.NewDirFixtureSourceFromPath(seedFrom), store, args, cmd.OutOrStdout())
		utils.GetLogger().WithField("fixtures", n).Info("seed finished")
		return err
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFrom, "from", "fixtures", "Directory holding <name>.json fixtures")
	rootCmd.AddCommand(seedCmd)
}

// seedFixtures copies names (every fixture when empty) from src to dst. Each
// fixture must parse as JSON before it is written.
func seedFixtures(ctx context.Context, src storage.FixtureSourceIface, dst storage.FixtureStoreIface, names []string, out io.Writer) (int, error) {
	if len(names) == 0 {
		var err error
		names, err = src.ListFixtures(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list fixtures: %w", err)
		}
	}

	for i, name := range names {
		data, err := src.ReadFixture(ctx, name)
		if err != nil {
			return i, fmt.Errorf("failed to read fixture %s: %w", name, err)
		}
		if _, err := model.ParseJSON(data); err != nil {
			return i, fmt.Errorf("fixture %s: %w", name, err)
		}
		if err := dst.SaveFixture(ctx, name, data); err != nil {
			return i, fmt.Errorf("failed to save fixture %s: %w", name, err)
		}
		fmt.Fprintf(out, "seeded %s\n", name)
	}
	return len(names), nil
}
