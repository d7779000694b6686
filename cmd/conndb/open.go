package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	conndb "github.com/dep2p/go-conndb"
	"github.com/dep2p/go-conndb/config"
)

// loadTimeout 等待启动加载的上限
const loadTimeout = 30 * time.Second

// resolveConfig 合并配置文件、环境变量与命令行参数
func resolveConfig(flags *globalFlags) (*config.Config, error) {
	cfg := config.NewConfig()
	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if flags.dataDir != "" {
		cfg.Storage.DataDir = flags.dataDir
	}
	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.writeTimeout != "" {
		d, err := time.ParseDuration(flags.writeTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --write-timeout: %w", err)
		}
		cfg.SetWriteTimeout(d)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Log.Apply()
	return cfg, nil
}

// openDB 打开地址库并等待加载完成
//
// 返回的 close 函数执行最终写入，命令结束时必须调用。
func openDB(cmd *cobra.Command, flags *globalFlags) (*conndb.DB, func() error, error) {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return nil, nil, err
	}

	db, err := conndb.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()
	if err := db.Loaded(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("load %s: %w", cfg.Storage.DataDir, err)
	}

	logger.Debug("地址库已打开", "dir", cfg.Storage.DataDir, "state", db.State())
	return db, db.Close, nil
}
