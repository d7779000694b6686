package persist

import (
	"errors"
	"fmt"
)

// ErrIO 持久化 I/O 失败
var ErrIO = errors.New("persistence I/O failure")

// IOError 持久化操作错误
type IOError struct {
	// Op 操作名（exists / read / write / list）
	Op string

	// Name 命名文件
	Name string

	// Err 底层错误
	Err error
}

// Error 实现 error 接口
func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("persist %s %s: %v", e.Op, e.Name, ErrIO)
	}
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap 返回底层错误
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, ErrIO) 对所有 IOError 成立
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioErr(op, name string, err error) error {
	return &IOError{Op: op, Name: name, Err: err}
}
