package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/config"
	"github.com/dep2p/go-conndb/internal/core/codec"
	"github.com/dep2p/go-conndb/internal/core/migration"
	"github.com/dep2p/go-conndb/internal/core/persist"
	"github.com/dep2p/go-conndb/internal/core/storage"
	"github.com/dep2p/go-conndb/pkg/interfaces"
)

// ═══════════════════════════════════════════════════════════════════════════
// migrate 命令
// ═══════════════════════════════════════════════════════════════════════════

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert the legacy gossip.json into the current state file",
		Long: `Read the legacy gossip.json from the data directory and write the
migrated table as the current state file. Entries that cannot be migrated
are skipped and counted. The legacy file is never modified.

An existing state file is only overwritten with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}

			legacy := persist.NewFileGateway(cfg.Storage.DataDir)
			ok, err := legacy.Exists(cfg.Storage.LegacyFile)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no %s in %s", cfg.Storage.LegacyFile, cfg.Storage.DataDir)
			}
			data, err := legacy.ReadAll(cfg.Storage.LegacyFile)
			if err != nil {
				return err
			}

			table, summary := migration.New().Migrate(migration.Decode(data))
			encoded, err := codec.Encode(table)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, string(encoded))
				return nil
			}

			gw, closeGW, err := openGateway(cfg)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeGW) }()

			exists, err := gw.Exists(cfg.Storage.StateFile)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", cfg.Storage.StateFile)
			}
			if err := gw.WriteAll(cfg.Storage.StateFile, encoded); err != nil {
				return err
			}

			fmt.Fprintf(out, "Migrated %d entries, skipped %d\n", summary.Migrated, summary.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the migrated table instead of writing it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing state file")
	return cmd
}

// openGateway 按配置的后端打开状态文件网关
func openGateway(cfg *config.Config) (interfaces.Gateway, func() error, error) {
	if cfg.Storage.Backend != config.BackendBadger {
		return persist.NewFileGateway(cfg.Storage.DataDir), func() error { return nil }, nil
	}

	eng, err := storage.NewEngine(storage.DefaultConfig().WithPath(cfg.Storage.DBPath()))
	if err != nil {
		return nil, nil, err
	}
	gw := persist.NewOwnedKVGateway(eng, storage.FilePrefix)
	return gw, gw.Close, nil
}
