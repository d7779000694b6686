package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/internal/core/codec"
)

// ═══════════════════════════════════════════════════════════════════════════
// check 命令
// ═══════════════════════════════════════════════════════════════════════════

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report what self-healing decode would do with a state file",
		Long: `Decode a state file the way the database does at startup and report
the outcome without changing the file.

Exit codes:
  0 - the file is clean, or can be healed
  1 - the file cannot be recovered and would load as an empty table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) //nolint:gosec // 用户指定的文件路径是预期行为
			if err != nil {
				return err
			}

			table, report := codec.Decode(data)
			out := cmd.OutOrStdout()
			switch {
			case report.Failed():
				return fmt.Errorf("%s: unrecoverable, would load as an empty table", args[0])
			case report.Clean():
				fmt.Fprintf(out, "%s: clean, %d entries\n", args[0], len(table))
			default:
				fmt.Fprintf(out, "%s: healed, %d entries\n", args[0], len(table))
				if report.Healed {
					fmt.Fprintf(out, "  trimmed %d trailing bytes\n", report.Trimmed)
				}
				if len(report.Dropped) > 0 {
					fmt.Fprintf(out, "  dropped %d invalid records: %s\n",
						len(report.Dropped), strings.Join(report.Dropped, ", "))
				}
			}
			return nil
		},
	}
}
