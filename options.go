package conndb

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-conndb/config"
	core "github.com/dep2p/go-conndb/internal/core/conndb"
	"github.com/dep2p/go-conndb/pkg/interfaces"
)

// Option 地址库选项
type Option func(*settings)

// settings 构造时的可选参数
type settings struct {
	dataDir    string
	backend    string
	registerer prometheus.Registerer
	storeOpts  []core.Option

	// customGateway 为 true 时不按后端创建网关
	customGateway bool
}

// WithDataDir 覆盖配置中的数据目录
func WithDataDir(dir string) Option {
	return func(s *settings) {
		s.dataDir = dir
	}
}

// WithBackend 覆盖配置中的存储后端（config.BackendFile / config.BackendBadger）
func WithBackend(backend string) Option {
	return func(s *settings) {
		s.backend = backend
	}
}

// WithRegisterer 在 reg 上注册地址库指标
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *settings) {
		s.registerer = reg
	}
}

// WithClock 设置时钟（测试中使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		s.storeOpts = append(s.storeOpts, core.WithClock(c))
	}
}

// WithGateway 使用自定义的状态文件网关，忽略配置中的存储后端
func WithGateway(g interfaces.Gateway) Option {
	return func(s *settings) {
		s.customGateway = true
		s.storeOpts = append(s.storeOpts, core.WithGateway(g))
	}
}

// WithAddressValidator 替换默认的多服务地址校验
func WithAddressValidator(fn func(string) bool) Option {
	return func(s *settings) {
		s.storeOpts = append(s.storeOpts, core.WithAddressValidator(fn))
	}
}

// apply 把覆盖项写入配置副本
func (s *settings) apply(cfg config.Config) config.Config {
	if s.dataDir != "" {
		cfg.Storage.DataDir = s.dataDir
	}
	if s.backend != "" {
		cfg.Storage.Backend = s.backend
	}
	return cfg
}
