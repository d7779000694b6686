// Package codec 实现持久化状态的编解码
//
// 编码输出 2 空格缩进、键有序的 JSON 对象，空表编码为 {}。
//
// 解码是自愈的：
//   - 整体解析失败时，依次去掉末尾 1..MaxTrim-1 个字节重试
//   - 顶层为 null 视为空表；非对象视为损坏
//   - 每条记录独立解码，解码失败的记录被丢弃，其余记录保留
//   - 无法恢复时返回空表
//
// Decode 从不返回错误，发生了什么由 Report 描述。
package codec
