package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// 已知字段名（与持久化文件中的键一致）
const (
	FieldBirth       = "birth"
	FieldKey         = "key"
	FieldSource      = "source"
	FieldFailure     = "failure"
	FieldStateChange = "stateChange"
	FieldDuration    = "duration"
	FieldPing        = "ping"
)

// knownFields 已知字段集合
var knownFields = map[string]struct{}{
	FieldBirth:       {},
	FieldKey:         {},
	FieldSource:      {},
	FieldFailure:     {},
	FieldStateChange: {},
	FieldDuration:    {},
	FieldPing:        {},
}

// IsKnownField 报告字段名是否为已知字段
func IsKnownField(name string) bool {
	_, ok := knownFields[name]
	return ok
}

// ============================================================================
//                              AddressRecord
// ============================================================================

// AddressRecord 地址记录
//
// 开放记录：已知字段以类型化字段保存，其余字段原样保存在 Extra 中，
// 保证未知字段在编解码往返中不丢失。零值（0 / "" / nil）表示字段缺失。
type AddressRecord struct {
	// Birth 创建时间（毫秒），一经设置不会被合并覆盖
	Birth int64

	// Key 远端节点身份指纹
	Key string

	// Source 来源标记
	Source string

	// Failure 连续失败次数（nil 表示缺失，0 是有效值）
	Failure *int64

	// StateChange 最近状态变化时间（毫秒）
	StateChange int64

	// Duration 连接时长统计
	Duration *Stats

	// Ping 往返时延统计
	Ping *Stats

	// Extra 扩展字段（原始 JSON）
	Extra map[string]json.RawMessage
}

// Entry 地址与记录的组合
type Entry struct {
	Address string
	Record  AddressRecord
}

// Int64 返回指向 v 的指针，便于设置 Failure
func Int64(v int64) *int64 {
	return &v
}

// Clone 返回深拷贝
func (r AddressRecord) Clone() AddressRecord {
	c := r
	if r.Failure != nil {
		c.Failure = Int64(*r.Failure)
	}
	c.Duration = r.Duration.Clone()
	c.Ping = r.Ping.Clone()
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// Validate 校验记录形状
//
// 扩展字段不能与已知字段重名，且必须是合法 JSON。
func (r AddressRecord) Validate() error {
	for k, v := range r.Extra {
		if k == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidRecord)
		}
		if IsKnownField(k) {
			return fmt.Errorf("%w: extra field %q shadows a known field", ErrInvalidRecord, k)
		}
		if !json.Valid(v) {
			return fmt.Errorf("%w: extra field %q is not valid JSON", ErrInvalidRecord, k)
		}
	}
	return nil
}

// Has 报告字段是否存在
func (r AddressRecord) Has(name string) bool {
	switch name {
	case FieldBirth:
		return r.Birth != 0
	case FieldKey:
		return r.Key != ""
	case FieldSource:
		return r.Source != ""
	case FieldFailure:
		return r.Failure != nil
	case FieldStateChange:
		return r.StateChange != 0
	case FieldDuration:
		return r.Duration != nil
	case FieldPing:
		return r.Ping != nil
	}
	_, ok := r.Extra[name]
	return ok
}

// Names 返回所有存在的字段名（已排序）
func (r AddressRecord) Names() []string {
	names := make([]string, 0, len(knownFields)+len(r.Extra))
	for k := range knownFields {
		if r.Has(k) {
			names = append(names, k)
		}
	}
	for k := range r.Extra {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Fields 以通用 map 形式返回记录
func (r AddressRecord) Fields() map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	out := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

// ============================================================================
//                              JSON 编解码
// ============================================================================

// MarshalJSON 实现 json.Marshaler
func (r AddressRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+len(knownFields))
	for k, v := range r.Extra {
		if IsKnownField(k) {
			continue
		}
		out[k] = v
	}

	put := func(name string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		out[name] = raw
		return nil
	}

	if r.Birth != 0 {
		if err := put(FieldBirth, r.Birth); err != nil {
			return nil, err
		}
	}
	if r.Key != "" {
		if err := put(FieldKey, r.Key); err != nil {
			return nil, err
		}
	}
	if r.Source != "" {
		if err := put(FieldSource, r.Source); err != nil {
			return nil, err
		}
	}
	if r.Failure != nil {
		if err := put(FieldFailure, *r.Failure); err != nil {
			return nil, err
		}
	}
	if r.StateChange != 0 {
		if err := put(FieldStateChange, r.StateChange); err != nil {
			return nil, err
		}
	}
	if r.Duration != nil {
		if err := put(FieldDuration, r.Duration); err != nil {
			return nil, err
		}
	}
	if r.Ping != nil {
		if err := put(FieldPing, r.Ping); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON 实现 json.Unmarshaler
func (r *AddressRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: null record", ErrInvalidRecord)
	}

	var rec AddressRecord
	for k, v := range raw {
		if err := rec.setRaw(k, v); err != nil {
			return err
		}
	}
	*r = rec
	return nil
}

// setRaw 以原始 JSON 设置单个字段；null 视为缺失
func (r *AddressRecord) setRaw(name string, v json.RawMessage) error {
	if isNull(v) {
		r.clear(name)
		return nil
	}

	var err error
	switch name {
	case FieldBirth:
		r.Birth, err = decodeInt(v)
	case FieldKey:
		err = json.Unmarshal(v, &r.Key)
	case FieldSource:
		err = json.Unmarshal(v, &r.Source)
	case FieldFailure:
		var n int64
		if n, err = decodeInt(v); err == nil {
			r.Failure = &n
		}
	case FieldStateChange:
		r.StateChange, err = decodeInt(v)
	case FieldDuration:
		r.Duration = &Stats{}
		err = json.Unmarshal(v, r.Duration)
	case FieldPing:
		r.Ping = &Stats{}
		err = json.Unmarshal(v, r.Ping)
	default:
		if !json.Valid(v) {
			return fmt.Errorf("%w: field %q is not valid JSON", ErrInvalidRecord, name)
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[name] = append(json.RawMessage(nil), v...)
	}
	if err != nil {
		r.clear(name)
		return fmt.Errorf("%w: field %q: %v", ErrInvalidRecord, name, err)
	}
	return nil
}

// clear 移除单个字段
func (r *AddressRecord) clear(name string) {
	switch name {
	case FieldBirth:
		r.Birth = 0
	case FieldKey:
		r.Key = ""
	case FieldSource:
		r.Source = ""
	case FieldFailure:
		r.Failure = nil
	case FieldStateChange:
		r.StateChange = 0
	case FieldDuration:
		r.Duration = nil
	case FieldPing:
		r.Ping = nil
	default:
		delete(r.Extra, name)
		if len(r.Extra) == 0 {
			r.Extra = nil
		}
	}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeInt 解码整数，容忍浮点写法（如 1.5e12）
//
// 字符串形式的数字（如 "3"）不接受。
func decodeInt(v json.RawMessage) (int64, error) {
	if t := bytes.TrimSpace(v); len(t) > 0 && t[0] == '"' {
		return 0, fmt.Errorf("expected number, got string %s", t)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("number %s out of range", n)
	}
	return int64(f), nil
}
