package interfaces

import (
	"context"

	"github.com/dep2p/go-conndb/pkg/types"
)

// ConnDB 地址库接口
//
// 地址 → 连接元数据的持久化键值表。所有变更先作用于内存，
// 再经防抖合并写回数据目录中的状态文件。
//
// 关闭后所有方法返回 ErrClosed。
type ConnDB interface {
	// Replace 以 rec 整体替换地址记录，保留已有的 birth
	Replace(addr string, rec types.AddressRecord) error

	// Set 把 p 浅合并到已有记录上，地址不存在时新建
	Set(addr string, p types.Patch) error

	// Update 把 p 浅合并到已有记录上，地址不存在时什么都不做
	Update(addr string, p types.Patch) error

	// UpdateFunc 以 fn(旧记录) 的返回值作为 Patch 执行 Update
	//
	// fn 在存储锁内执行，不得回调存储。
	UpdateFunc(addr string, fn func(prev types.AddressRecord) types.Patch) error

	// Get 返回地址记录副本，不存在时返回 nil
	Get(addr string) (*types.AddressRecord, error)

	// Has 检查地址是否存在
	Has(addr string) (bool, error)

	// GetAddressForID 返回 key 等于 id 的第一个地址，不存在时返回 ""
	GetAddressForID(id string) (string, error)

	// Delete 删除地址，返回是否确实删除
	Delete(addr string) (bool, error)

	// Entries 返回当前全部条目的快照
	Entries() ([]types.Entry, error)

	// Size 返回条目数
	Size() (int, error)

	// Listen 订阅变更事件
	Listen(opts ...SubscriptionOpt) (Subscription, error)

	// Loaded 阻塞直到启动加载完成，返回加载错误
	Loaded(ctx context.Context) error

	// Ready 返回加载完成时关闭的通道
	Ready() <-chan struct{}

	// Flush 取消待执行的防抖写入并立即同步写入
	Flush() error

	// Close 执行最终写入并释放资源，可以多次调用
	Close() error
}
