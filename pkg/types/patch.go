package types

import (
	"encoding/json"
	"fmt"
)

// absentValue 字段移除标记的类型
type absentValue struct{}

// MarshalJSON 使标记在日志和调试输出中可读
func (absentValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Absent 字段移除标记
//
// Patch 中某个键取值为 Absent（或 nil）时，合并结果中移除该字段。
var Absent any = absentValue{}

// IsAbsent 报告值是否表示"移除该字段"
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(absentValue)
	return ok
}

// ============================================================================
//                              Patch
// ============================================================================

// Patch 部分记录，用于 set / update 的浅合并
//
// 已知字段的值会被转换为对应的类型化字段，无法转换时返回 ErrInvalidRecord；
// 其余字段必须能编码为 JSON，存入 Extra。nil Patch 不是有效记录。
type Patch map[string]any

// Validate 校验 Patch 是否可以被合并
func (p Patch) Validate() error {
	_, err := p.Apply(AddressRecord{})
	return err
}

// Apply 将 Patch 浅合并到 base 上，返回新记录（base 不被修改）
func (p Patch) Apply(base AddressRecord) (AddressRecord, error) {
	if p == nil {
		return AddressRecord{}, fmt.Errorf("%w: nil patch", ErrInvalidRecord)
	}
	out := base.Clone()
	for k, v := range p {
		if k == "" {
			return AddressRecord{}, fmt.Errorf("%w: empty field name", ErrInvalidRecord)
		}
		if IsAbsent(v) {
			out.clear(k)
			continue
		}
		raw, err := encodeValue(v)
		if err != nil {
			return AddressRecord{}, fmt.Errorf("%w: field %q: %v", ErrInvalidRecord, k, err)
		}
		if isNull(raw) {
			out.clear(k)
			continue
		}
		if err := out.setRaw(k, raw); err != nil {
			return AddressRecord{}, err
		}
	}
	return out, nil
}

// encodeValue 把任意值编码为 JSON；RawMessage 原样使用
func encodeValue(v any) (json.RawMessage, error) {
	switch x := v.(type) {
	case json.RawMessage:
		if !json.Valid(x) {
			return nil, fmt.Errorf("invalid raw JSON")
		}
		return x, nil
	case *Stats:
		if x == nil {
			return json.RawMessage("null"), nil
		}
	case *int64:
		if x == nil {
			return json.RawMessage("null"), nil
		}
	}
	return json.Marshal(v)
}

// PatchOf 返回与记录等价的 Patch（每个存在的字段一项）
func PatchOf(r AddressRecord) Patch {
	fields := r.Fields()
	p := make(Patch, len(fields))
	for k, v := range fields {
		p[k] = v
	}
	return p
}
