// Package msaddr 提供多服务地址（multiserver address）的解析与校验
//
// 多服务地址是一种以文本描述的节点连接方式：
//
//	net:example.com:8008~shs:dABVXEERk+yJSzdrDRUfF8R6FlXG7h9PaXKXlt8ma78=
//	└─ 传输层 ──────────┘ └─ 变换层（握手/认证）───────────────────────┘
//
// # 地址格式
//
//   - 一个地址可以包含多个备选地址，以 ";" 分隔
//   - 每个备选地址由传输段 + 至少一个变换段组成，以 "~" 分隔
//   - 每个段由协议名与数据字段组成，以 ":" 分隔
//
// 已知协议会额外校验数据字段：
//
//   - net / ws / wss / onion: host:port，port 为 1-65535
//   - shs: 32 字节 ed25519 公钥的 base64
//   - noauth: 无数据字段
//
// 未知协议只校验语法（协议名与非空数据字段）。
//
// # 使用示例
//
//	if !msaddr.Check("net:host:8008~noauth") {
//	    return ErrInvalidAddress
//	}
//
//	// 从旧格式记录合成地址
//	addr, err := msaddr.FromLegacy("host", 8008, "@dABV...=.ed25519")
package msaddr
