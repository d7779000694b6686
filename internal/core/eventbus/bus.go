package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/lib/log"
	"github.com/dep2p/go-conndb/pkg/types"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")
)

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 变更事件总线
type Bus struct {
	mu     sync.RWMutex
	sinks  []*Subscription
	closed bool

	// dropCount 丢弃事件计数（用于慢消费者警告）
	dropCount atomic.Int64
	onDrop    func()
}

// NewBus 创建新的事件总线
func NewBus(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe 订阅变更事件
func (b *Bus) Subscribe(opts ...pkgif.SubscriptionOpt) (*Subscription, error) {
	settings := &pkgif.SubscriptionSettings{
		Buffer: DefaultBufSize,
	}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.Buffer <= 0 {
		settings.Buffer = DefaultBufSize
	}

	sub := &Subscription{
		bus: b,
		out: make(chan types.ChangeEvent, settings.Buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	b.sinks = append(b.sinks, sub)
	return sub, nil
}

// Emit 发射事件到所有订阅者
//
// 发送是非阻塞的：订阅者缓冲区满时对该订阅者丢弃事件。
func (b *Bus) Emit(ev types.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	for _, sub := range b.sinks {
		select {
		case sub.out <- ev:
		default:
			dropped := b.dropCount.Add(1)
			if b.onDrop != nil {
				b.onDrop()
			}

			// 每丢弃 100 个事件警告一次，避免日志泛滥
			if dropped%100 == 1 {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"address", ev.Address,
					"reason", "subscriber buffer full")
			}
		}
	}
	return nil
}

// Dropped 返回累计丢弃的事件数
func (b *Bus) Dropped() int64 {
	return b.dropCount.Load()
}

// Subscribers 返回当前订阅者数量
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sinks)
}

// Close 关闭总线及全部订阅，多次调用是安全的
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	sinks := b.sinks
	b.sinks = nil
	b.mu.Unlock()

	for _, sub := range sinks {
		sub.shutdown()
	}
	return nil
}

// removeSub 移除订阅
func (b *Bus) removeSub(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.sinks {
		if s == sub {
			b.sinks = append(b.sinks[:i], b.sinks[i+1:]...)
			return
		}
	}
}
