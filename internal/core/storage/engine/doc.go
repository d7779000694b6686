// Package engine 定义存储引擎接口
//
// engine 提供键值存储引擎的抽象，允许替换底层实现。
//
// # 实现
//
//   - badger: BadgerDB 实现（默认）
//
// # 使用示例
//
//	eng, err := badger.New(engine.DefaultConfig(path))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
package engine
