package engine

// Engine 存储引擎接口
//
// 线程安全：实现必须保证所有方法的线程安全性。
type Engine interface {
	// Get 获取指定键的值
	//
	// 返回值的副本；键不存在时返回 ErrNotFound。
	Get(key []byte) ([]byte, error)

	// Put 设置键值对（单事务原子写入）
	Put(key, value []byte) error

	// Has 检查键是否存在
	Has(key []byte) (bool, error)

	// Keys 返回具有指定前缀的全部键
	Keys(prefix []byte) ([][]byte, error)

	// Stats 返回引擎统计信息
	Stats() *Stats

	// Close 关闭存储引擎，多次调用是安全的
	Close() error
}

// Stats 引擎统计信息
type Stats struct {
	LSMSize   int64 `json:"lsm_size"`
	VlogSize  int64 `json:"vlog_size"`
	NumReads  int64 `json:"num_reads"`
	NumWrites int64 `json:"num_writes"`
}

// DiskSize 返回磁盘占用总量
func (s *Stats) DiskSize() int64 {
	return s.LSMSize + s.VlogSize
}
