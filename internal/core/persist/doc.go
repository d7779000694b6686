// Package persist 实现持久化网关
//
// 网关以整文件为单位读写数据目录中的命名文件：
//   - FileGateway: 直接读写文件系统，写入经临时文件 + fsync + rename 原子替换
//   - KVGateway:   把命名文件保存为 BadgerDB 中带前缀的键，写入由事务保证原子性
//
// 所有失败都包装为 *IOError，可以用 errors.Is(err, ErrIO) 判断。
package persist
