// Package types 定义 go-conndb 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
//
// # 文件组织
//
//   - record.go - AddressRecord 地址记录（开放记录：已知字段 + 扩展字段）
//   - stats.go  - Stats 统计量（mean/stdev/count/sum/sqsum，保留未知嵌套字段）
//   - patch.go  - Patch 部分记录与浅合并
//   - events.go - ChangeEvent 变更事件
//   - errors.go - 公共错误定义
package types
