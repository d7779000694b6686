// Package conndb 实现地址库存储引擎
//
// Store 持有地址 → 记录的内存表，提供变更与查询 API，
// 每次成功变更都会广播一个 ChangeEvent 并重新启动防抖写入定时器。
//
// # 启动状态机
//
//	Start ─┬─ NoFileFound ─ 写入 {} ──────────────────┐
//	       ├─ LegacyOnly  ─ 读旧文件 → 迁移 → 写新文件 ─┼─→ Ready
//	       └─ ModernFound ─ 读新文件 → 自愈解码 ───────┘
//	                      └─ I/O 失败 ─→ Failed
//
// 构造立即返回，加载在后台进行；Loaded / Ready 用于等待加载完成。
// 加载完成前的变更作用于当前内存表，加载时文件中的条目覆盖同名条目。
//
// # 持久化
//
//   - 写入经防抖合并：窗口内的多次变更只产生一次写入，内容为定时器触发时的快照
//   - 写入按快照顺序串行执行；过期的定时器（已被重置或取消）不会写入
//   - 后台写入失败只记录日志和指标，由下一次变更的写入重试
//   - Flush 取消待执行的定时器并同步写入
//   - Close 执行一次最终写入，之后所有操作返回 ErrClosed
//
// # 并发
//
// 一把互斥锁串行化所有表操作，事件在锁内以非阻塞方式发射，
// 事件顺序与变更顺序一致。UpdateFunc 的回调在锁内执行，不得回调存储。
package conndb
