package config

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-conndb/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，格式同 CONNDB_LOG_LEVEL
	// 例如 "info" 或 "core/conndb=debug,warn"
	Level string `json:"level" yaml:"level" toml:"level"`

	// Format 输出格式: text | json
	Format string `json:"format" yaml:"format" toml:"format"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	for _, part := range strings.Split(c.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, name, ok := strings.Cut(part, "="); ok {
			part = strings.TrimSpace(name)
		}
		if _, ok := log.ParseLevel(part); !ok {
			return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, part)
		}
	}
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}

// Apply 把日志配置应用到全局 logger
func (c *LogConfig) Apply() {
	log.Configure(c.Level, c.Format)
}
