// Package interfaces 定义 go-conndb 的公共接口
//
// 文件组织：
//   - conndb.go     - ConnDB 地址库门面接口
//   - gateway.go    - Gateway 持久化网关（整文件读写）
//   - eventbus.go   - Subscription 变更事件订阅
//
// # 依赖方向
//
//	conndb（门面） → internal/core/conndb → Gateway / eventbus
//
// 本包只依赖 pkg/types，禁止反向依赖。
package interfaces

//go:generate mockgen -destination=mocks/gateway.go -package=mocks github.com/dep2p/go-conndb/pkg/interfaces Gateway
