package conndb

// LoadState 启动状态
type LoadState int32

const (
	// StateStart 尚未检查文件
	StateStart LoadState = iota
	// StateNoFileFound 两种文件都不存在
	StateNoFileFound
	// StateLegacyOnly 只有旧格式文件
	StateLegacyOnly
	// StateModernFound 存在当前格式文件
	StateModernFound
	// StateReady 加载完成
	StateReady
	// StateFailed 加载时发生 I/O 错误
	StateFailed
)

// String 返回状态名
func (s LoadState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateNoFileFound:
		return "no-file"
	case StateLegacyOnly:
		return "legacy-only"
	case StateModernFound:
		return "modern-found"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
