// Package migration 把旧格式的地址列表迁移为地址表
//
// 旧格式（gossip.json）是记录数组，每条记录带 address 字段，
// 或带可以合成地址的 host / port / key 字段。
// 迁移结果以地址为键，记录中去掉 address 字段。
//
// 单条记录迁移失败只记录日志并跳过，不影响其余记录。
package migration
