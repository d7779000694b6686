package persist

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/dep2p/go-conndb/internal/core/storage"
	"github.com/dep2p/go-conndb/internal/core/storage/engine"
	"github.com/dep2p/go-conndb/internal/core/storage/kv"
	"github.com/dep2p/go-conndb/pkg/interfaces"
)

// ============================================================================
//                              KVGateway
// ============================================================================

// KVGateway 基于 KV 存储的持久化网关
//
// 每个命名文件对应一个键，Put 在单个事务中提交。
// owner 非 nil 时，Close 会一并关闭底层引擎。
type KVGateway struct {
	store *kv.Store
	owner engine.Engine
}

// NewKVGateway 创建 KV 网关（不接管引擎的生命周期）
func NewKVGateway(store *kv.Store) *KVGateway {
	return &KVGateway{store: store}
}

// NewOwnedKVGateway 创建接管引擎生命周期的 KV 网关
func NewOwnedKVGateway(eng engine.Engine, prefix []byte) *KVGateway {
	return &KVGateway{
		store: kv.New(eng, prefix),
		owner: eng,
	}
}

// Exists 检查命名文件是否存在
func (g *KVGateway) Exists(name string) (bool, error) {
	if err := checkName("exists", name); err != nil {
		return false, err
	}

	ok, err := g.store.Has([]byte(name))
	if err != nil {
		return false, ioErr("exists", name, err)
	}
	return ok, nil
}

// ReadAll 读取命名文件的全部内容
//
// 键不存在时错误同时匹配 fs.ErrNotExist，与 FileGateway 一致。
func (g *KVGateway) ReadAll(name string) ([]byte, error) {
	if err := checkName("read", name); err != nil {
		return nil, err
	}

	data, err := g.store.Get([]byte(name))
	if err != nil {
		if storage.IsNotFound(err) {
			err = fmt.Errorf("%w: %w", fs.ErrNotExist, err)
		}
		return nil, ioErr("read", name, err)
	}
	return data, nil
}

// WriteAll 原子替换命名文件
func (g *KVGateway) WriteAll(name string, data []byte) error {
	if err := checkName("write", name); err != nil {
		return err
	}

	if err := g.store.Put([]byte(name), data); err != nil {
		return ioErr("write", name, err)
	}
	logger.Debug("已写入键", "name", name, "bytes", len(data))
	return nil
}

// Names 返回已保存的命名文件（已排序）
func (g *KVGateway) Names() ([]string, error) {
	keys, err := g.store.Keys()
	if err != nil {
		return nil, ioErr("list", "*", err)
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	sort.Strings(names)
	return names, nil
}

// Stats 返回底层引擎的统计信息
func (g *KVGateway) Stats() *engine.Stats {
	return g.store.Stats()
}

// Close 关闭接管的引擎
func (g *KVGateway) Close() error {
	if g.owner == nil {
		return nil
	}
	return g.owner.Close()
}

var _ interfaces.Gateway = (*KVGateway)(nil)
