package conndb

import (
	"github.com/dep2p/go-conndb/config"
	core "github.com/dep2p/go-conndb/internal/core/conndb"
	"github.com/dep2p/go-conndb/internal/core/migration"
	"github.com/dep2p/go-conndb/internal/core/persist"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 操作错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrClosed 地址库已关闭
	ErrClosed = core.ErrClosed

	// ErrInvalidAddress 地址语法无效
	ErrInvalidAddress = core.ErrInvalidAddress

	// ErrInvalidRecord 记录形状无效
	ErrInvalidRecord = core.ErrInvalidRecord

	// ────────────────────────────────────────────────────────────────────────
	// 持久化与配置错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrIO 持久化读写失败
	ErrIO = persist.ErrIO

	// ErrMigration 旧格式条目无法迁移
	ErrMigration = migration.ErrMigration

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = config.ErrInvalidConfig
)
