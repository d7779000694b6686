package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/config"
	"github.com/dep2p/go-conndb/internal/core/codec"
	"github.com/dep2p/go-conndb/internal/core/persist"
	"github.com/dep2p/go-conndb/internal/core/storage"
	"github.com/dep2p/go-conndb/pkg/interfaces"
)

// ═══════════════════════════════════════════════════════════════════════════
// stats 命令
// ═══════════════════════════════════════════════════════════════════════════

// storageStats stats 命令的输出
type storageStats struct {
	Backend  string         `json:"backend"`
	Location string         `json:"location"`
	Exists   bool           `json:"exists"`
	Bytes    int            `json:"bytes"`
	Entries  int            `json:"entries"`
	Health   string         `json:"health"`
	Files    []string       `json:"files,omitempty"`
	Engine   *storage.Stats `json:"engine,omitempty"`
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics for the state file",
		Long: `Report where the state file lives, its size and entry count, and
whether it decodes cleanly. The badger backend also reports the stored
files and the on-disk size of the database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}

			gw, closeGW, err := openGateway(cfg)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeGW) }()

			st, err := collectStats(cfg, gw)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			return writeStats(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

// collectStats 读取状态文件并汇总统计
func collectStats(cfg *config.Config, gw interfaces.Gateway) (*storageStats, error) {
	st := &storageStats{
		Backend:  cfg.Storage.Backend,
		Location: cfg.Storage.StatePath(),
		Health:   "missing",
	}

	kvgw, isKV := gw.(*persist.KVGateway)
	if isKV {
		st.Location = cfg.Storage.DBPath()
		names, err := kvgw.Names()
		if err != nil {
			return nil, err
		}
		st.Files = names
	}

	exists, err := gw.Exists(cfg.Storage.StateFile)
	if err != nil {
		return nil, err
	}
	st.Exists = exists
	if exists {
		data, err := gw.ReadAll(cfg.Storage.StateFile)
		if err != nil {
			return nil, err
		}
		table, report := codec.Decode(data)
		st.Bytes = len(data)
		st.Entries = len(table)
		switch {
		case report.Failed():
			st.Health = "unrecoverable"
		case report.Clean():
			st.Health = "clean"
		default:
			st.Health = "healed"
		}
	}

	// 引擎统计最后读取，包含本次读取
	if isKV {
		st.Engine = kvgw.Stats()
	}
	return st, nil
}

func writeStats(w io.Writer, st *storageStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Backend:\t%s\n", st.Backend)
	fmt.Fprintf(tw, "Location:\t%s\n", st.Location)
	fmt.Fprintf(tw, "State:\t%s\n", st.Health)
	fmt.Fprintf(tw, "Entries:\t%d\n", st.Entries)
	fmt.Fprintf(tw, "Bytes:\t%d\n", st.Bytes)
	if st.Engine != nil {
		fmt.Fprintf(tw, "Files:\t%s\n", orDash(strings.Join(st.Files, ", ")))
		fmt.Fprintf(tw, "LSM size:\t%d\n", st.Engine.LSMSize)
		fmt.Fprintf(tw, "Vlog size:\t%d\n", st.Engine.VlogSize)
		fmt.Fprintf(tw, "Disk size:\t%d\n", st.Engine.DiskSize())
	}
	return tw.Flush()
}
