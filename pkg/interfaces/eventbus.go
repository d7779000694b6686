package interfaces

import "github.com/dep2p/go-conndb/pkg/types"

// Subscription 变更事件订阅
//
// 事件按发生顺序投递。订阅者消费过慢、缓冲区已满时，
// 新事件对该订阅者丢弃，不会阻塞写入方。
type Subscription interface {
	// Out 返回事件通道，订阅关闭后通道关闭
	Out() <-chan types.ChangeEvent

	// Close 取消订阅，可以多次调用
	Close() error
}

// SubscriptionSettings 订阅设置
type SubscriptionSettings struct {
	// Buffer 事件通道缓冲区大小
	Buffer int
}

// SubscriptionOpt 订阅选项
type SubscriptionOpt func(*SubscriptionSettings)
