// Package eventbus 实现地址表变更事件的广播
//
// 每个订阅者拥有独立的缓冲通道，事件按发射顺序投递：
//   - 多订阅者
//   - 缓冲区配置（BufSize）
//   - 非阻塞发送：订阅者缓冲区满时对其丢弃事件，并累计丢弃计数
//   - 关闭总线时关闭全部订阅通道，订阅者的 range 循环随之结束
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(eventbus.BufSize(128))
//	defer sub.Close()
//
//	go func() {
//	    for ev := range sub.Out() {
//	        // 处理 ev.Kind / ev.Address
//	    }
//	}()
//
//	bus.Emit(types.ChangeEvent{Kind: types.ChangeInsert, Address: addr})
//
// # 并发安全
//
// 订阅、取消订阅与发射由同一把 RWMutex 保护；
// 通道关闭由 closeOnce 防止重复。
package eventbus
