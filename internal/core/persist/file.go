package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/lib/log"
)

var logger = log.Logger("core/persist")

const (
	dirPerm  = 0755
	filePerm = 0600
)

// ============================================================================
//                              FileGateway
// ============================================================================

// FileGateway 基于文件系统的持久化网关
type FileGateway struct {
	dir string
}

// NewFileGateway 创建文件网关，dir 不存在时在首次写入时创建
func NewFileGateway(dir string) *FileGateway {
	return &FileGateway{dir: dir}
}

// Dir 返回数据目录
func (g *FileGateway) Dir() string {
	return g.dir
}

// Path 返回命名文件的完整路径
func (g *FileGateway) Path(name string) string {
	return filepath.Join(g.dir, name)
}

// checkName 命名文件必须是数据目录内的单层文件名
func checkName(op, name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ioErr(op, name, fmt.Errorf("invalid file name %q", name))
	}
	return nil
}

// Exists 检查命名文件是否存在
func (g *FileGateway) Exists(name string) (bool, error) {
	if err := checkName("exists", name); err != nil {
		return false, err
	}

	info, err := os.Stat(g.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, ioErr("exists", name, err)
	}
	if info.IsDir() {
		return false, ioErr("exists", name, fmt.Errorf("%s is a directory", g.Path(name)))
	}
	return true, nil
}

// ReadAll 读取命名文件的全部内容
func (g *FileGateway) ReadAll(name string) ([]byte, error) {
	if err := checkName("read", name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(g.Path(name))
	if err != nil {
		return nil, ioErr("read", name, err)
	}
	return data, nil
}

// WriteAll 原子替换命名文件
//
// 先写入同目录下的唯一临时文件并 fsync，再 rename 覆盖目标，
// 最后尽力 fsync 目录。任一步失败都会清理临时文件。
func (g *FileGateway) WriteAll(name string, data []byte) error {
	if err := checkName("write", name); err != nil {
		return err
	}

	if err := os.MkdirAll(g.dir, dirPerm); err != nil {
		return ioErr("write", name, fmt.Errorf("create dir: %w", err))
	}

	target := g.Path(name)
	tmpPath := fmt.Sprintf("%s.%s.tmp", target, uuid.NewString())

	if err := writeSync(tmpPath, data); err != nil {
		_ = os.Remove(tmpPath)
		return ioErr("write", name, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return ioErr("write", name, fmt.Errorf("rename: %w", err))
	}

	if err := syncDir(g.dir); err != nil {
		logger.Debug("同步数据目录失败", "dir", g.dir, "error", err)
	}

	logger.Debug("已写入文件", "name", name, "bytes", len(data))
	return nil
}

// writeSync 写入文件并 fsync
func writeSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

// syncDir fsync 目录，使 rename 持久化（部分平台不支持，失败只记录日志）
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

var _ interfaces.Gateway = (*FileGateway)(nil)
