// Package main 提供 conndb 命令行入口
//
// 用法：
//
//	conndb ls                          # 列出全部地址
//	conndb get ADDR                    # 查看一条记录
//	conndb set ADDR key=@x source=pub  # 合并字段
//	conndb rm ADDR                     # 删除地址
//	conndb find ID                     # 按身份查找地址
//	conndb watch                       # 跟踪状态文件变化
//	conndb migrate                     # 从 gossip.json 迁移
//	conndb check FILE                  # 检查状态文件能否自愈
//	conndb config init FILE            # 写出默认配置
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-conndb/pkg/lib/log"
)

var logger = log.Logger("conndb/cmd")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 根命令
// ═══════════════════════════════════════════════════════════════════════════

// globalFlags 所有子命令共享的参数
//
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
type globalFlags struct {
	configFile   string
	dataDir      string
	backend      string
	logLevel     string
	writeTimeout string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "conndb",
		Short: "Inspect and edit the peer address database",
		Long: `conndb manages the durable peer address database (conn.json).

Each entry maps a multiserver address to a connection record. The state file
lives in the data directory (default ~/.ssb, or $SSB_HOME) and is migrated
from the legacy gossip.json on first use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file (.json, .yaml or .toml)")
	pf.StringVarP(&flags.dataDir, "dir", "d", "", "data directory (overrides config)")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: file or badger")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level, e.g. debug or core/conndb=debug,warn")
	pf.StringVar(&flags.writeTimeout, "write-timeout", "", "debounce delay before writes, e.g. 500ms")

	root.AddCommand(
		newListCmd(flags),
		newGetCmd(flags),
		newFindCmd(flags),
		newSetCmd(flags),
		newRmCmd(flags),
		newWatchCmd(flags),
		newMigrateCmd(flags),
		newCheckCmd(),
		newStatsCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}
