package migration

import (
	"errors"
	"fmt"
)

// ErrMigration 旧记录无法迁移
var ErrMigration = errors.New("cannot migrate legacy entry")

// Error 单条旧记录的迁移错误
type Error struct {
	// Reason 失败原因
	Reason string

	// Cause 底层错误（可为 nil）
	Cause error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", ErrMigration, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%v: %s", ErrMigration, e.Reason)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 使 errors.Is(err, ErrMigration) 成立
func (e *Error) Is(target error) bool {
	return target == ErrMigration
}

func newError(reason string, cause error) *Error {
	return &Error{Reason: reason, Cause: cause}
}
