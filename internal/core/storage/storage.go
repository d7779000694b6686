package storage

import (
	"github.com/dep2p/go-conndb/internal/core/storage/engine"
	"github.com/dep2p/go-conndb/internal/core/storage/engine/badger"
	"github.com/dep2p/go-conndb/internal/core/storage/kv"
	"github.com/dep2p/go-conndb/pkg/lib/log"
)

var logger = log.Logger("core/storage")

// FilePrefix 命名文件所在的键前缀
var FilePrefix = []byte("f/")

// NewEngine 根据配置创建存储引擎
func NewEngine(cfg Config) (engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("创建存储引擎", "path", cfg.Path)
	eng, err := badger.New(cfg.ToEngineConfig())
	if err != nil {
		logger.Error("创建存储引擎失败", "path", cfg.Path, "error", err)
		return nil, err
	}
	return eng, nil
}

// NewKVStore 创建带前缀的 KVStore
func NewKVStore(eng engine.Engine, prefix []byte) *kv.Store {
	return kv.New(eng, prefix)
}

// New 以默认配置在 path 创建存储引擎
func New(path string) (engine.Engine, error) {
	return NewEngine(DefaultConfig().WithPath(path))
}

// Engine 是 engine.Engine 的类型别名
type Engine = engine.Engine

// KVStore 是 kv.Store 的类型别名
type KVStore = kv.Store

// Stats 是 engine.Stats 的类型别名
type Stats = engine.Stats
