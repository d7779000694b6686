package conndb

import (
	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-conndb/internal/core/metrics"
	"github.com/dep2p/go-conndb/internal/core/migration"
	"github.com/dep2p/go-conndb/pkg/interfaces"
)

// Option 存储选项
type Option func(*options)

type options struct {
	gateway  interfaces.Gateway
	legacy   interfaces.Gateway
	clock    clock.Clock
	metrics  *metrics.Metrics
	validate func(string) bool
	migrator *migration.Migrator
}

// WithGateway 设置状态文件的持久化网关（默认为数据目录上的 FileGateway）
func WithGateway(g interfaces.Gateway) Option {
	return func(o *options) {
		o.gateway = g
	}
}

// WithLegacyGateway 设置旧格式文件的读取网关（默认为数据目录上的 FileGateway）
func WithLegacyGateway(g interfaces.Gateway) Option {
	return func(o *options) {
		o.legacy = g
	}
}

// WithClock 设置时钟（防抖定时器与 birth 时间戳）
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithAddressValidator 设置地址语法校验（默认 msaddr.Check）
func WithAddressValidator(fn func(string) bool) Option {
	return func(o *options) {
		o.validate = fn
	}
}

// WithMigrator 设置旧格式迁移器
func WithMigrator(m *migration.Migrator) Option {
	return func(o *options) {
		o.migrator = m
	}
}
