package conndb

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/dep2p/go-conndb/config"
	core "github.com/dep2p/go-conndb/internal/core/conndb"
	"github.com/dep2p/go-conndb/internal/core/metrics"
	"github.com/dep2p/go-conndb/internal/core/persist"
	"github.com/dep2p/go-conndb/internal/core/storage"
	"github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/lib/log"
)

var logger = log.Logger("conndb")

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// DB 地址库
//
// 方法集见 interfaces.ConnDB；额外提供 State 与 Config。
type DB = core.Store

// LoadState 启动状态
type LoadState = core.LoadState

var _ interfaces.ConnDB = (*DB)(nil)

// ════════════════════════════════════════════════════════════════════════════
//                              构造
// ════════════════════════════════════════════════════════════════════════════

// New 按配置创建地址库并在后台开始加载
//
// cfg 为 nil 时使用 config.NewConfig()。返回前不等待加载，
// 调用方通过 Loaded 等待加载结果。
func New(cfg *config.Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	c := s.apply(*cfg)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	storeOpts := append([]core.Option{}, s.storeOpts...)
	if s.registerer != nil {
		storeOpts = append(storeOpts, core.WithMetrics(metrics.New(s.registerer)))
	}

	var gw *persist.KVGateway
	if c.Storage.Backend == config.BackendBadger && !s.customGateway {
		eng, err := storage.NewEngine(storage.DefaultConfig().WithPath(c.Storage.DBPath()))
		if err != nil {
			return nil, fmt.Errorf("open badger backend: %w", err)
		}
		gw = persist.NewOwnedKVGateway(eng, storage.FilePrefix)
		storeOpts = append(storeOpts, core.WithGateway(gw))
	}

	db, err := core.New(StoreConfig(&c), storeOpts...)
	if err != nil {
		if gw != nil {
			err = multierr.Append(err, gw.Close())
		}
		return nil, err
	}

	logger.Debug("地址库已创建", "dir", c.Storage.DataDir, "backend", c.Storage.Backend)
	return db, nil
}

// Open 以默认配置在 dir 打开地址库
func Open(dir string, opts ...Option) (*DB, error) {
	return New(nil, append([]Option{WithDataDir(dir)}, opts...)...)
}

// StoreConfig 把统一配置转换为存储配置
func StoreConfig(cfg *config.Config) core.Config {
	return core.Config{
		Dir:          cfg.Storage.DataDir,
		StateFile:    cfg.Storage.StateFile,
		LegacyFile:   cfg.Storage.LegacyFile,
		WriteTimeout: cfg.EffectiveWriteTimeout(),
	}
}
