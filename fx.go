package conndb

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-conndb/config"
	"github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/lib/log"
)

var fxLogger = log.Logger("conndb/fx")

// Params 模块依赖参数
type Params struct {
	fx.In

	Config     *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
	Options    []Option              `group:"conndb_options"`
	Lifecycle  fx.Lifecycle
}

// Output 模块输出
type Output struct {
	fx.Out

	DB     *DB
	ConnDB interfaces.ConnDB
}

// Module 返回地址库的 fx 模块
//
// 启动时等待加载完成（加载失败则启动失败），停止时关闭地址库。
func Module() fx.Option {
	return fx.Module("conndb",
		fx.Provide(provide),
	)
}

// provide 构造地址库并注册生命周期钩子
func provide(p Params) (Output, error) {
	opts := append([]Option{}, p.Options...)
	if p.Registerer != nil {
		opts = append(opts, WithRegisterer(p.Registerer))
	}

	db, err := New(p.Config, opts...)
	if err != nil {
		return Output{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Loaded(ctx); err != nil {
				return fmt.Errorf("load conndb: %w", err)
			}
			fxLogger.Debug("地址库已就绪", "state", db.State())
			return nil
		},
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})

	return Output{DB: db, ConnDB: db}, nil
}

// NewApp 构建只包含地址库模块的 fx 应用
//
// extra 可追加调用方自己的模块或 fx.Invoke。
func NewApp(cfg *config.Config, extra ...fx.Option) *fx.App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	modules := []fx.Option{
		fx.Supply(cfg),
		Module(),
	}
	modules = append(modules, extra...)
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	return fx.New(modules...)
}

// AsOption 以 fx 值组的形式提供额外的地址库选项
func AsOption(opt Option) fx.Option {
	return fx.Provide(fx.Annotate(
		func() Option { return opt },
		fx.ResultTags(`group:"conndb_options"`),
	))
}
