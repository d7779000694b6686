// Package metrics 提供地址库的 Prometheus 指标
//
// 指标通过注入的 prometheus.Registerer 注册，传 nil 时创建但不注册。
// *Metrics 为 nil 时所有记录方法都是空操作，调用方无需判空。
//
// # 指标
//
//	conndb_ops_total{op,result}            变更/查询调用次数
//	conndb_writes_total{result}            状态文件写入次数
//	conndb_write_duration_seconds          单次写入耗时
//	conndb_write_bytes                     最近一次写入的字节数
//	conndb_entries                         当前条目数
//	conndb_heal_total{result}              自愈解码结果（clean/healed/failed）
//	conndb_dropped_records_total           解码时丢弃的记录数
//	conndb_migrated_entries_total{result}  迁移条目数（ok/skipped）
//	conndb_load_total{state}               启动加载路径
//	conndb_dropped_events_total            因订阅者过慢丢弃的事件数
//
// # 使用示例
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	m.ObserveOp("set", nil)
package metrics
