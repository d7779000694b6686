// Package badger 提供基于 BadgerDB 的存储引擎实现
//
// 每次 Put 在独立的读写事务中提交，写入要么完整可见，要么不可见。
//
// # 使用示例
//
//	db, err := badger.New(engine.DefaultConfig("/data/conn.db"))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Put([]byte("key"), []byte("value")); err != nil {
//	    return err
//	}
package badger
