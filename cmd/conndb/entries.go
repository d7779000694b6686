package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/pkg/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// 查询命令
// ═══════════════════════════════════════════════════════════════════════════

func newListCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all addresses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, closeDB, err := openDB(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeDB) }()

			entries, err := db.Entries()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entriesMap(entries))
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No addresses stored.")
				return nil
			}
			return writeTable(out, entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

func newGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get ADDR",
		Short: "Print the record stored for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, closeDB, err := openDB(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeDB) }()

			rec, err := db.Get(args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("address %q not found", args[0])
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func newFindCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "find ID",
		Short: "Print the address whose key equals ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, closeDB, err := openDB(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeDB) }()

			addr, err := db.GetAddressForID(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				return fmt.Errorf("no address for %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 输出辅助
// ═══════════════════════════════════════════════════════════════════════════

func writeTable(w io.Writer, entries []types.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tKEY\tSOURCE\tFAILURE\tBIRTH")
	for _, e := range entries {
		failure := "-"
		if e.Record.Failure != nil {
			failure = fmt.Sprint(*e.Record.Failure)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			e.Address,
			orDash(e.Record.Key),
			orDash(e.Record.Source),
			failure,
			e.Record.Birth,
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func entriesMap(entries []types.Entry) map[string]types.AddressRecord {
	m := make(map[string]types.AddressRecord, len(entries))
	for _, e := range entries {
		m[e.Address] = e.Record
	}
	return m
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// closeAfter 关闭地址库，命令本身的错误优先
func closeAfter(err error, closeDB func() error) error {
	if cerr := closeDB(); err == nil {
		return cerr
	}
	return err
}
