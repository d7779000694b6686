package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dep2p/go-conndb/pkg/lib/log"
	"github.com/dep2p/go-conndb/pkg/types"
)

var logger = log.Logger("core/codec")

// MaxTrim 自愈时尝试的最大截断次数（含不截断的一次）
const MaxTrim = 10

// ErrCorrupted 持久化内容无法按 JSON 对象解析
var ErrCorrupted = errors.New("persisted state corrupted")

// Report 解码报告
type Report struct {
	// Corrupted 整体解析首次失败
	Corrupted bool

	// Healed 截断末尾字节后解析成功
	Healed bool

	// Trimmed 成功解析前去掉的末尾字节数
	Trimmed int

	// Dropped 因记录无效而被丢弃的地址（已排序）
	Dropped []string
}

// Failed 报告是否无法恢复（结果为空表）
func (r Report) Failed() bool {
	return r.Corrupted && !r.Healed
}

// Clean 报告内容是否完好无损
func (r Report) Clean() bool {
	return !r.Corrupted && len(r.Dropped) == 0
}

// ============================================================================
//                              编码
// ============================================================================

// Encode 编码地址表
func Encode(m map[string]types.AddressRecord) ([]byte, error) {
	if m == nil {
		m = map[string]types.AddressRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ============================================================================
//                              解码
// ============================================================================

// Decode 自愈解码地址表
func Decode(data []byte) (map[string]types.AddressRecord, Report) {
	var report Report
	out := make(map[string]types.AddressRecord)

	if len(bytes.TrimSpace(data)) == 0 {
		return out, report
	}

	raw, err := parseObject(data)
	if err != nil {
		report.Corrupted = true
		logger.Warn("状态文件损坏，尝试自愈", "bytes", len(data), "error", err)

		for i := 1; i < MaxTrim && i < len(data); i++ {
			if raw, err = parseObject(data[:len(data)-i]); err == nil {
				report.Healed = true
				report.Trimmed = i
				break
			}
		}
		if !report.Healed {
			logger.Error("状态文件自愈失败，使用空表", "bytes", len(data))
			return out, report
		}
		logger.Info("状态文件自愈成功", "trimmed", report.Trimmed)
	}

	for addr, rec := range raw {
		var r types.AddressRecord
		if err := json.Unmarshal(rec, &r); err != nil {
			logger.Warn("丢弃无效记录", "address", log.Truncate(addr, 64), "error", err)
			report.Dropped = append(report.Dropped, addr)
			continue
		}
		out[addr] = r
	}
	sort.Strings(report.Dropped)
	return out, report
}

// parseObject 解析顶层 JSON 对象；null 视为空对象
func parseObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrCorrupted)
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrCorrupted)
	}
	switch trimmed[0] {
	case 'n':
		return map[string]json.RawMessage{}, nil
	case '{':
	default:
		return nil, fmt.Errorf("%w: top level is not an object", ErrCorrupted)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return raw, nil
}
