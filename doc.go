// Package conndb 提供持久化的节点地址库
//
// 地址库以多服务地址为键，保存每个远端节点的连接记录（身份指纹、来源、
// 失败次数、时延统计以及任意扩展字段），并在数据目录中以 JSON 文件持久化。
//
// # 快速开始
//
//	db, err := conndb.New(nil, conndb.WithDataDir("/tmp/ssb"))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Loaded(ctx); err != nil {
//	    return err
//	}
//	_ = db.Set("net:1.2.3.4:8008~noauth", types.Patch{"source": "local"})
//
// # 存储后端
//
//   - file: 数据目录下的 conn.json（默认）
//   - badger: 数据目录下的 conn.db，状态文件作为单个值保存
//
// 两种后端都会在首次启动时读取旧格式的 gossip.json 并迁移，旧文件不会被修改。
//
// # 依赖注入
//
// Module 提供 fx 模块，启动时等待加载完成，停止时关闭地址库。
package conndb
