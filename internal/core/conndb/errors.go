package conndb

import (
	"errors"

	"github.com/dep2p/go-conndb/pkg/types"
)

var (
	// ErrClosed 存储已关闭
	ErrClosed = errors.New("instance is closed")

	// ErrInvalidAddress 地址语法无效
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidRecord 记录形状无效
	ErrInvalidRecord = types.ErrInvalidRecord

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid conndb configuration")
)
