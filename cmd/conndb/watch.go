package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/config"
	"github.com/dep2p/go-conndb/internal/core/codec"
	"github.com/dep2p/go-conndb/internal/core/persist"
	"github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// watch 命令
// ═══════════════════════════════════════════════════════════════════════════

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var (
		interval time.Duration
		initial  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print change events as the state file changes",
		Long: `Poll the state file and print one line per changed address:

  insert net:host:8008~noauth
  update net:host:8008~noauth
  delete net:host:8008~noauth

Another process owning the database keeps writing the file; watch only
reads it. Only the file backend can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Storage.Backend != config.BackendFile {
				return fmt.Errorf("watch requires the %s backend, got %q", config.BackendFile, cfg.Storage.Backend)
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			w := &watcher{
				gw:    persist.NewFileGateway(cfg.Storage.DataDir),
				name:  cfg.Storage.StateFile,
				clock: clock.New(),
			}
			out := cmd.OutOrStdout()
			return w.run(cmd.Context(), interval, initial, func(ev types.ChangeEvent) {
				fmt.Fprintln(out, ev)
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval")
	cmd.Flags().BoolVar(&initial, "initial", false, "print an insert event for every existing address first")
	return cmd
}

// watcher 轮询状态文件并计算差异
type watcher struct {
	gw    interfaces.Gateway
	name  string
	clock clock.Clock

	prev map[string][]byte
}

// run 轮询直到 ctx 结束
func (w *watcher) run(ctx context.Context, interval time.Duration, initial bool, emit func(types.ChangeEvent)) error {
	first, err := w.read()
	if err != nil {
		return err
	}
	if initial {
		w.prev = map[string][]byte{}
		w.diff(first, emit)
	} else {
		w.prev = first
	}

	ticker := w.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur, err := w.read()
			if err != nil {
				logger.Warn("读取状态文件失败", "file", w.name, "error", err)
				continue
			}
			w.diff(cur, emit)
		}
	}
}

// read 读取并解码状态文件，文件不存在视为空表
func (w *watcher) read() (map[string][]byte, error) {
	ok, err := w.gw.Exists(w.name)
	if err != nil || !ok {
		return map[string][]byte{}, err
	}
	data, err := w.gw.ReadAll(w.name)
	if err != nil {
		return nil, err
	}

	table, _ := codec.Decode(data)
	out := make(map[string][]byte, len(table))
	for addr, rec := range table {
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		out[addr] = raw
	}
	return out, nil
}

// diff 按地址顺序发出差异事件并记住当前表
func (w *watcher) diff(cur map[string][]byte, emit func(types.ChangeEvent)) {
	addrs := make([]string, 0, len(cur)+len(w.prev))
	for addr := range cur {
		addrs = append(addrs, addr)
	}
	for addr := range w.prev {
		if _, ok := cur[addr]; !ok {
			addrs = append(addrs, addr)
		}
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		before, had := w.prev[addr]
		after, has := cur[addr]
		switch {
		case had && !has:
			emit(types.ChangeEvent{Kind: types.ChangeDelete, Address: addr})
		case !had && has:
			emit(types.ChangeEvent{Kind: types.ChangeInsert, Address: addr})
		case !bytes.Equal(before, after):
			emit(types.ChangeEvent{Kind: types.ChangeUpdate, Address: addr})
		}
	}
	w.prev = cur
}
