package storage

import (
	"github.com/dep2p/go-conndb/internal/core/storage/engine"
)

// ErrInvalidConfig 无效配置
var ErrInvalidConfig = engine.ErrInvalidConfig

// IsNotFound 检查是否为 key not found 错误
var IsNotFound = engine.IsNotFound
