package msaddr

import "errors"

// 通用错误
var (
	ErrEmptyAddress    = errors.New("empty address")
	ErrInvalidAddress  = errors.New("invalid multiserver address")
	ErrInvalidProtocol = errors.New("invalid protocol name")
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidKey      = errors.New("invalid identity key")
)
