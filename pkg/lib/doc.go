// Package lib 包含基础设施工具库
//
// 本目录包含与存储组件无关的通用工具库：
//
//   - log: 按组件分级的 slog 日志封装
//   - msaddr: 多服务地址（multiserver address）解析与校验
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含三类内容：
//
//   - interfaces/: 组件公共接口
//   - types/: 公共类型定义
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-conndb/pkg/lib/log"
//	    "github.com/dep2p/go-conndb/pkg/lib/msaddr"
//	)
package lib
