// Package kv 提供带前缀隔离的 KV 存储抽象层
//
// Store 在存储引擎之上为所有键自动添加前缀，
// 同一引擎可以承载多个互不干扰的命名空间。
//
// # 键空间约定
//
//   - f/ - 持久化网关的命名文件（conn.json 等）
//
// # 使用示例
//
//	files := kv.New(eng, []byte("f/"))
//	files.Put([]byte("conn.json"), data) // 实际键: f/conn.json
package kv
