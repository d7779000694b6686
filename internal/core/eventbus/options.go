package eventbus

import pkgif "github.com/dep2p/go-conndb/pkg/interfaces"

// DefaultBufSize 默认订阅缓冲区大小
const DefaultBufSize = 64

// BufSize 设置订阅缓冲区大小，n <= 0 时使用默认值
func BufSize(n int) pkgif.SubscriptionOpt {
	return func(s *pkgif.SubscriptionSettings) {
		s.Buffer = n
	}
}

// Option 总线选项
type Option func(*Bus)

// OnDrop 设置丢弃事件时的回调（在发射锁内调用，必须快速返回）
func OnDrop(fn func()) Option {
	return func(b *Bus) {
		b.onDrop = fn
	}
}
