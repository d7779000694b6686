package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// 统计量的已知字段名
const (
	statMean  = "mean"
	statStdev = "stdev"
	statCount = "count"
	statSum   = "sum"
	statSqsum = "sqsum"
)

var statNames = [...]string{statMean, statStdev, statCount, statSum, statSqsum}

// Stats 往返时延等数值的统计量
//
// 已知字段以 float64 保存；其余嵌套字段（例如 rtt、skew）原样保存在 Extra 中，
// 编解码往返不丢失。解码时未出现且为零的已知字段不会被写回。
type Stats struct {
	Mean  float64
	Stdev float64
	Count float64
	Sum   float64
	Sqsum float64

	// Extra 未知的嵌套字段（原始 JSON）
	Extra map[string]json.RawMessage

	// present 解码时出现过的已知字段（按 statNames 下标）
	present uint8
}

// Observe 纳入一个新的样本并重新计算均值与标准差
func (s *Stats) Observe(v float64) {
	s.Count++
	s.Sum += v
	s.Sqsum += v * v
	s.Mean = s.Sum / s.Count
	variance := s.Sqsum/s.Count - s.Mean*s.Mean
	if variance < 0 {
		variance = 0
	}
	s.Stdev = math.Sqrt(variance)
	s.present = 1<<len(statNames) - 1
}

// Clone 返回深拷贝（nil 安全）
func (s *Stats) Clone() *Stats {
	if s == nil {
		return nil
	}
	c := *s
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// field 返回已知字段的指针
func (s *Stats) field(i int) *float64 {
	switch statNames[i] {
	case statMean:
		return &s.Mean
	case statStdev:
		return &s.Stdev
	case statCount:
		return &s.Count
	case statSum:
		return &s.Sum
	default:
		return &s.Sqsum
	}
}

func statIndex(name string) int {
	for i, n := range statNames {
		if n == name {
			return i
		}
	}
	return -1
}

// MarshalJSON 实现 json.Marshaler
func (s Stats) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+len(statNames))
	for k, v := range s.Extra {
		if statIndex(k) >= 0 {
			continue
		}
		out[k] = v
	}
	for i, name := range statNames {
		v := *s.field(i)
		if v != 0 || s.present&(1<<i) != 0 {
			out[name] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON 实现 json.Unmarshaler
//
// 已知字段必须是数字；null 视为缺失。
func (s *Stats) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("stats must be an object")
	}

	var st Stats
	for k, v := range raw {
		i := statIndex(k)
		if i < 0 {
			if st.Extra == nil {
				st.Extra = make(map[string]json.RawMessage)
			}
			st.Extra[k] = append(json.RawMessage(nil), v...)
			continue
		}
		if isNull(v) {
			continue
		}
		if err := json.Unmarshal(v, st.field(i)); err != nil {
			return fmt.Errorf("stats field %q: %w", k, err)
		}
		st.present |= 1 << i
	}
	*s = st
	return nil
}
