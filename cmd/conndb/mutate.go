package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/pkg/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// 变更命令
// ═══════════════════════════════════════════════════════════════════════════

func newSetCmd(flags *globalFlags) *cobra.Command {
	var replace, onlyExisting bool

	cmd := &cobra.Command{
		Use:   "set ADDR [FIELD=VALUE...]",
		Short: "Merge fields into the record for an address",
		Long: `Merge fields into the record for an address, creating it if needed.

VALUE is parsed as JSON when it is valid JSON and used as a plain string
otherwise. FIELD=null removes the field.

Examples:
  conndb set net:host:8008~noauth source=local failure=0
  conndb set net:host:8008~noauth 'ping={"mean":12.5}'
  conndb set --replace net:host:8008~noauth key=@abc.ed25519`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if replace && onlyExisting {
				return fmt.Errorf("--replace and --update are mutually exclusive")
			}
			patch, err := parsePatch(args[1:])
			if err != nil {
				return err
			}

			db, closeDB, err := openDB(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeDB) }()

			addr := args[0]
			var opErr error
			switch {
			case replace:
				rec, applyErr := patch.Apply(types.AddressRecord{})
				if applyErr != nil {
					return applyErr
				}
				opErr = db.Replace(addr, rec)
			case onlyExisting:
				opErr = db.Update(addr, patch)
			default:
				opErr = db.Set(addr, patch)
			}
			if opErr != nil {
				return opErr
			}

			rec, err := db.Get(addr)
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s not found, nothing updated\n", addr)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole record instead of merging (birth is kept)")
	cmd.Flags().BoolVar(&onlyExisting, "update", false, "only update an existing address")
	return cmd
}

func newRmCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ADDR...",
		Aliases: []string{"delete"},
		Short:   "Remove addresses",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, closeDB, err := openDB(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { err = closeAfter(err, closeDB) }()

			out := cmd.OutOrStdout()
			for _, addr := range args {
				removed, err := db.Delete(addr)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Removed %s\n", addr)
				} else {
					fmt.Fprintf(out, "%s not found\n", addr)
				}
			}
			return nil
		},
	}
}

// parsePatch 把 FIELD=VALUE 参数解析为 Patch
func parsePatch(args []string) (types.Patch, error) {
	patch := make(types.Patch, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid field assignment %q, want FIELD=VALUE", arg)
		}
		if json.Valid([]byte(value)) {
			patch[field] = json.RawMessage(value)
		} else {
			patch[field] = value
		}
	}
	return patch, nil
}
