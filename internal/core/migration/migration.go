package migration

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/dep2p/go-conndb/pkg/lib/log"
	"github.com/dep2p/go-conndb/pkg/lib/msaddr"
	"github.com/dep2p/go-conndb/pkg/types"
)

var logger = log.Logger("core/migration")

// 旧记录中用于确定地址的字段
const (
	fieldAddress = "address"
	fieldHost    = "host"
	fieldPort    = "port"
	fieldKey     = "key"
)

// Migrator 旧格式迁移器
type Migrator struct {
	// Validate 地址语法校验
	Validate func(addr string) bool

	// Build 由 host / port / key 合成地址
	Build func(host string, port int, key string) (string, error)
}

// New 创建使用默认地址校验与合成规则的迁移器
func New() *Migrator {
	return &Migrator{
		Validate: msaddr.Check,
		Build:    msaddr.FromLegacy,
	}
}

// Summary 批量迁移统计
type Summary struct {
	Migrated int
	Skipped  int
}

// ============================================================================
//                              单条迁移
// ============================================================================

// MigrateOne 迁移单条旧记录
//
// 返回规范地址和去掉 address 字段后的记录。失败时返回 *Error。
func (m *Migrator) MigrateOne(entry any) (string, types.AddressRecord, error) {
	if entry == nil {
		return "", types.AddressRecord{}, newError("entry is undefined", nil)
	}

	// 经 JSON 往返做深拷贝，同时拒绝函数、通道、循环引用等非纯数据
	data, err := json.Marshal(entry)
	if err != nil {
		return "", types.AddressRecord{}, newError("entry is not serializable", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return "", types.AddressRecord{}, newError("entry is not an object", err)
	}

	addr, err := m.deriveAddress(fields)
	if err != nil {
		return "", types.AddressRecord{}, err
	}
	if m.Validate != nil && !m.Validate(addr) {
		return "", types.AddressRecord{}, newError("derived address "+strconv.Quote(addr)+" is invalid", nil)
	}

	delete(fields, fieldAddress)
	rest, err := json.Marshal(fields)
	if err != nil {
		return "", types.AddressRecord{}, newError("entry is not serializable", err)
	}

	var rec types.AddressRecord
	if err := json.Unmarshal(rest, &rec); err != nil {
		return "", types.AddressRecord{}, newError("entry has invalid fields", err)
	}
	return addr, rec, nil
}

// deriveAddress 取 address 字段，缺失时由 host / port / key 合成
func (m *Migrator) deriveAddress(fields map[string]json.RawMessage) (string, error) {
	var addr string
	if raw, ok := fields[fieldAddress]; ok {
		_ = json.Unmarshal(raw, &addr)
	}
	if addr != "" {
		return addr, nil
	}

	host, hasHost := stringField(fields, fieldHost)
	key, hasKey := stringField(fields, fieldKey)
	port, hasPort := portField(fields)
	if !hasHost || !hasKey || !hasPort {
		return "", newError(`entry has no field "address" and cannot synthesize one`, nil)
	}
	if m.Build == nil {
		return "", newError("no address builder configured", nil)
	}

	addr, err := m.Build(host, port, key)
	if err != nil {
		return "", newError("cannot synthesize address", err)
	}
	return addr, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// portField 端口可以是数字或数字字符串
func portField(fields map[string]json.RawMessage) (int, bool) {
	raw, ok := fields[fieldPort]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if p, err := strconv.Atoi(n.String()); err == nil {
			return p, true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if p, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return p, true
		}
	}
	return 0, false
}

// ============================================================================
//                              批量迁移
// ============================================================================

// MigrateMany 迁移旧记录序列，非序列输入返回空表
func (m *Migrator) MigrateMany(input any) map[string]types.AddressRecord {
	out, _ := m.Migrate(input)
	return out
}

// Migrate 迁移旧记录序列并返回统计
//
// 单条失败被记录并跳过；地址重复时后出现的记录生效。
func (m *Migrator) Migrate(input any) (map[string]types.AddressRecord, Summary) {
	out := make(map[string]types.AddressRecord)
	var summary Summary

	entries, ok := asSequence(input)
	if !ok {
		if input != nil {
			logger.Warn("旧格式内容不是数组，跳过迁移", "type", reflect.TypeOf(input).String())
		}
		return out, summary
	}

	for i, entry := range entries {
		addr, rec, err := m.MigrateOne(entry)
		if err != nil {
			summary.Skipped++
			logger.Warn("跳过无法迁移的旧记录", "index", i, "error", err)
			continue
		}
		if _, dup := out[addr]; dup {
			logger.Debug("旧记录地址重复，后者覆盖前者", "index", i, "address", addr)
		}
		out[addr] = rec
		summary.Migrated++
	}

	logger.Info("旧格式迁移完成", "migrated", summary.Migrated, "skipped", summary.Skipped, "entries", len(out))
	return out, summary
}

// asSequence 把切片或数组转换为 []any（字节切片不算序列）
func asSequence(input any) ([]any, bool) {
	switch v := input.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []byte, json.RawMessage:
		return nil, false
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ============================================================================
//                              旧文件解析
// ============================================================================

// Decode 解析旧格式文件内容，无法解析时返回 nil
func Decode(data []byte) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		logger.Warn("旧格式文件无法解析，视为空", "bytes", len(data), "error", err)
		return nil
	}
	return v
}
