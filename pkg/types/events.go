package types

import "fmt"

// ChangeKind 变更类型
type ChangeKind int

const (
	// ChangeInsert 新增地址
	ChangeInsert ChangeKind = iota + 1
	// ChangeUpdate 更新已有地址
	ChangeUpdate
	// ChangeDelete 删除地址
	ChangeDelete
)

// String 返回变更类型的文本形式
func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// MarshalText 实现 encoding.TextMarshaler
func (k ChangeKind) MarshalText() ([]byte, error) {
	switch k {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidChangeKind, int(k))
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (k *ChangeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "insert":
		*k = ChangeInsert
	case "update":
		*k = ChangeUpdate
	case "delete":
		*k = ChangeDelete
	default:
		return fmt.Errorf("%w: %q", ErrInvalidChangeKind, text)
	}
	return nil
}

// ChangeEvent 地址表变更事件
//
// 每次成功改变地址表的调用恰好产生一个事件。
type ChangeEvent struct {
	Kind    ChangeKind `json:"type"`
	Address string     `json:"address"`
}

// String 返回事件的简短描述
func (e ChangeEvent) String() string {
	return e.Kind.String() + " " + e.Address
}
