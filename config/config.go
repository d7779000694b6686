// Package config 提供地址库的配置管理
//
// 配置按功能分组：
//   - Storage: 数据目录、存储后端与文件名
//   - WriteTimeout: 防抖写入延迟
//   - Log: 日志级别与格式
//
// 支持从 JSON、YAML、TOML 文件加载，并可由环境变量覆盖。
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Storage.Backend = config.BackendBadger
//
//	// 从文件加载（按扩展名选择格式）
//	cfg, err := config.Load("conndb.yaml")
//
//	// 环境变量覆盖
//	err = config.ApplyEnv(cfg)
package config

import (
	"errors"
	"fmt"
	"time"
)

// DefaultWriteTimeout 未配置时的防抖写入延迟
const DefaultWriteTimeout = 2 * time.Second

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = errors.New("invalid config")

// Config 地址库的完整配置
type Config struct {
	// Storage 存储配置
	Storage StorageConfig `json:"storage" yaml:"storage" toml:"storage"`

	// WriteTimeout 防抖写入延迟
	//
	// nil 表示使用默认值 2s，显式的 0 表示每次变更立即写入。
	WriteTimeout *Duration `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty" toml:"write_timeout,omitempty"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log" toml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Storage: DefaultStorageConfig(),
		Log:     DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.WriteTimeout != nil && *c.WriteTimeout < 0 {
		return fmt.Errorf("%w: write_timeout cannot be negative", ErrInvalidConfig)
	}
	return c.Log.Validate()
}

// EffectiveWriteTimeout 返回实际生效的防抖延迟
func (c *Config) EffectiveWriteTimeout() time.Duration {
	if c.WriteTimeout == nil {
		return DefaultWriteTimeout
	}
	return c.WriteTimeout.Duration()
}

// SetWriteTimeout 设置防抖延迟
func (c *Config) SetWriteTimeout(d time.Duration) {
	v := Duration(d)
	c.WriteTimeout = &v
}
