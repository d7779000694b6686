package types

import "errors"

var (
	// ErrInvalidRecord 记录形状无效（不是开放的键值记录，或字段类型不匹配）
	ErrInvalidRecord = errors.New("invalid address record")

	// ErrInvalidChangeKind 无效的变更类型
	ErrInvalidChangeKind = errors.New("invalid change kind")
)
