package interfaces

// Gateway 持久化网关
//
// 以整文件为单位读写命名文件。name 是数据目录内的文件名，
// 例如 "conn.json"。
//
// 实现要求：
//   - WriteAll 必须原子替换，读者只能看到旧内容或新内容
//   - 所有失败都应满足 errors.Is(err, persist.ErrIO)
//   - 方法必须线程安全
type Gateway interface {
	// Exists 检查命名文件是否存在
	Exists(name string) (bool, error)

	// ReadAll 读取命名文件的全部内容
	ReadAll(name string) ([]byte, error)

	// WriteAll 以 data 原子替换命名文件
	WriteAll(name string, data []byte) error
}
