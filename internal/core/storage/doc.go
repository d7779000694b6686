// Package storage 提供可选的 BadgerDB 持久化后端
//
// 默认后端直接读写数据目录中的 JSON 文件；选择 badger 后端时，
// 状态文件以命名键的形式保存在数据目录下的 BadgerDB 中。
//
//	┌──────────────────────────────┐
//	│     persist.KVGateway        │
//	└──────────────────────────────┘
//	              │
//	              ▼
//	┌──────────────────────────────┐
//	│  kv.Store（前缀 f/）         │
//	├──────────────────────────────┤
//	│  engine/badger               │
//	└──────────────────────────────┘
//
// # 使用示例
//
//	eng, err := storage.NewEngine(storage.DefaultConfig().WithPath("/data/conn.db"))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	files := storage.NewKVStore(eng, storage.FilePrefix)
package storage
