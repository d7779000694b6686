package msaddr

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	// AltSeparator 备选地址分隔符
	AltSeparator = ";"
	// PartSeparator 传输/变换段分隔符
	PartSeparator = "~"
	// FieldSeparator 段内字段分隔符
	FieldSeparator = ":"

	// keySuffix 旧格式身份密钥后缀
	keySuffix = ".ed25519"
	// keyLen ed25519 公钥长度
	keyLen = 32
)

// Part 地址中的一个段（传输或变换）
type Part struct {
	Name string
	Data []string
}

// String 返回段的文本形式
func (p Part) String() string {
	if len(p.Data) == 0 {
		return p.Name
	}
	return p.Name + FieldSeparator + strings.Join(p.Data, FieldSeparator)
}

// Address 单个备选地址：Parts[0] 为传输段，其余为变换段
type Address struct {
	Parts []Part
}

// Transport 返回传输段
func (a Address) Transport() Part {
	return a.Parts[0]
}

// Transforms 返回变换段
func (a Address) Transforms() []Part {
	return a.Parts[1:]
}

// String 返回备选地址的文本形式
func (a Address) String() string {
	parts := make([]string, len(a.Parts))
	for i, p := range a.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, PartSeparator)
}

// Check 检查字符串是否为合法的多服务地址
func Check(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse 解析多服务地址，返回所有备选地址
func Parse(s string) ([]Address, error) {
	if s == "" {
		return nil, ErrEmptyAddress
	}

	alts := strings.Split(s, AltSeparator)
	out := make([]Address, 0, len(alts))
	for _, alt := range alts {
		addr, err := parseAlt(alt)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, s, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// parseAlt 解析单个备选地址
func parseAlt(s string) (Address, error) {
	if s == "" {
		return Address{}, ErrEmptyAddress
	}

	segments := strings.Split(s, PartSeparator)
	if len(segments) < 2 {
		return Address{}, fmt.Errorf("missing transform in %q", s)
	}

	addr := Address{Parts: make([]Part, 0, len(segments))}
	for _, seg := range segments {
		part, err := parsePart(seg)
		if err != nil {
			return Address{}, err
		}
		addr.Parts = append(addr.Parts, part)
	}
	return addr, nil
}

// parsePart 解析并校验一个段
func parsePart(s string) (Part, error) {
	if s == "" {
		return Part{}, fmt.Errorf("empty segment")
	}

	fields := strings.Split(s, FieldSeparator)
	part := Part{Name: fields[0], Data: fields[1:]}

	if !validName(part.Name) {
		return Part{}, fmt.Errorf("%w: %q", ErrInvalidProtocol, part.Name)
	}
	for _, d := range part.Data {
		if d == "" || strings.ContainsAny(d, " \t\r\n") {
			return Part{}, fmt.Errorf("invalid data field in %q", s)
		}
	}

	switch part.Name {
	case "net", "ws", "wss", "onion":
		if len(part.Data) != 2 {
			return Part{}, fmt.Errorf("%s expects host:port, got %q", part.Name, s)
		}
		if _, err := parsePort(part.Data[1]); err != nil {
			return Part{}, err
		}
	case "shs":
		if len(part.Data) != 1 {
			return Part{}, fmt.Errorf("shs expects one key, got %q", s)
		}
		if err := checkKey(part.Data[0]); err != nil {
			return Part{}, err
		}
	case "noauth":
		if len(part.Data) != 0 {
			return Part{}, fmt.Errorf("noauth takes no data, got %q", s)
		}
	}
	return part, nil
}

// validName 协议名仅允许字母、数字、- 和 _
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	return port, nil
}

func checkKey(b64 string) error {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil || len(raw) != keyLen {
		return fmt.Errorf("%w: %q", ErrInvalidKey, b64)
	}
	return nil
}

// ============================================================================
//                              旧格式转换
// ============================================================================

// KeyToBase64 将 "@<base64>.ed25519" 形式的身份 ID 转为裸 base64 公钥
func KeyToBase64(key string) (string, error) {
	if !strings.HasPrefix(key, "@") || !strings.HasSuffix(key, keySuffix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	b64 := strings.TrimSuffix(strings.TrimPrefix(key, "@"), keySuffix)
	if err := checkKey(b64); err != nil {
		return "", err
	}
	return b64, nil
}

// FromLegacy 由旧格式记录的 host/port/key 合成地址
//
// 结果形如 net:<host>:<port>~shs:<base64>。
func FromLegacy(host string, port int, key string) (string, error) {
	if host == "" || strings.ContainsAny(host, AltSeparator+PartSeparator+FieldSeparator) {
		return "", fmt.Errorf("%w: host %q", ErrInvalidAddress, host)
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	b64, err := KeyToBase64(key)
	if err != nil {
		return "", err
	}

	addr := Address{Parts: []Part{
		{Name: "net", Data: []string{host, strconv.Itoa(port)}},
		{Name: "shs", Data: []string{b64}},
	}}
	return addr.String(), nil
}
