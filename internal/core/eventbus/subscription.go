package eventbus

import (
	"sync"

	pkgif "github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/types"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	out       chan types.ChangeEvent
	closeOnce sync.Once
}

// Out 返回事件通道
func (s *Subscription) Out() <-chan types.ChangeEvent {
	return s.out
}

// Close 取消订阅
//
// 先从总线移除再关闭通道，发射方不会向已关闭的通道发送。
// 已缓冲的事件仍可读出。可以多次调用。
func (s *Subscription) Close() error {
	s.bus.removeSub(s)
	s.shutdown()
	return nil
}

func (s *Subscription) shutdown() {
	s.closeOnce.Do(func() {
		close(s.out)
	})
}

var _ pkgif.Subscription = (*Subscription)(nil)
