package conndb

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	// DefaultStateFile 当前格式的状态文件名
	DefaultStateFile = "conn.json"

	// DefaultLegacyFile 旧格式的状态文件名
	DefaultLegacyFile = "gossip.json"

	// DefaultWriteTimeout 默认防抖写入延迟
	DefaultWriteTimeout = 2 * time.Second
)

// Config 存储配置
type Config struct {
	// Dir 数据目录（必需）
	Dir string

	// StateFile 当前格式的状态文件名
	StateFile string

	// LegacyFile 旧格式的状态文件名（只读）
	LegacyFile string

	// WriteTimeout 防抖写入延迟，0 表示立即写入
	WriteTimeout time.Duration
}

// DefaultConfig 返回 dir 下的默认配置
func DefaultConfig(dir string) Config {
	return Config{
		Dir:          dir,
		StateFile:    DefaultStateFile,
		LegacyFile:   DefaultLegacyFile,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: dir is required", ErrInvalidConfig)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("%w: negative write timeout %s", ErrInvalidConfig, c.WriteTimeout)
	}
	for _, name := range []string{c.StateFile, c.LegacyFile} {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("%w: file name %q must be a plain name", ErrInvalidConfig, name)
		}
	}
	if c.StateFile == c.LegacyFile {
		return fmt.Errorf("%w: state and legacy file are both %q", ErrInvalidConfig, c.StateFile)
	}
	return nil
}

// withDefaults 补全未设置的文件名
func (c Config) withDefaults() Config {
	if c.StateFile == "" {
		c.StateFile = DefaultStateFile
	}
	if c.LegacyFile == "" {
		c.LegacyFile = DefaultLegacyFile
	}
	return c
}
