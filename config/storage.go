package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// 存储后端
const (
	// BackendFile 数据目录下的普通 JSON 文件（默认）
	BackendFile = "file"

	// BackendBadger 数据目录下的 BadgerDB，状态以单个值保存
	BackendBadger = "badger"
)

// 默认文件名
const (
	DefaultStateFile  = "conn.json"
	DefaultLegacyFile = "gossip.json"
	defaultDBName     = "conn.db"
	defaultDirName    = ".ssb"
)

// EnvHome 覆盖默认数据目录的环境变量
const EnvHome = "SSB_HOME"

// StorageConfig 存储配置
//
// 数据目录结构：
//
//	${DataDir}/
//	├── conn.json      # 当前格式状态文件（file 后端）
//	├── conn.db/       # BadgerDB（badger 后端）
//	└── gossip.json    # 旧格式状态文件（只读）
type StorageConfig struct {
	// DataDir 数据目录路径
	// 默认值: ~/.ssb
	DataDir string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`

	// Backend 存储后端: file | badger
	Backend string `json:"backend" yaml:"backend" toml:"backend"`

	// StateFile 当前格式状态文件名
	StateFile string `json:"state_file" yaml:"state_file" toml:"state_file"`

	// LegacyFile 旧格式状态文件名
	LegacyFile string `json:"legacy_file" yaml:"legacy_file" toml:"legacy_file"`
}

// DefaultStorageConfig 返回默认的存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir:    DefaultDir(),
		Backend:    BackendFile,
		StateFile:  DefaultStateFile,
		LegacyFile: DefaultLegacyFile,
	}
}

// DefaultDir 返回默认数据目录
//
// 优先使用 SSB_HOME，其次 ~/.ssb；无法确定主目录时退回当前目录下的 .ssb。
func DefaultDir() string {
	if env := os.Getenv(EnvHome); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

// Validate 验证存储配置的有效性
func (c *StorageConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: storage.data_dir cannot be empty", ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalidConfig, c.Backend)
	}
	for _, name := range []string{c.StateFile, c.LegacyFile} {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("%w: file name %q must be a plain name", ErrInvalidConfig, name)
		}
	}
	if c.StateFile == c.LegacyFile {
		return fmt.Errorf("%w: state_file and legacy_file are both %q", ErrInvalidConfig, c.StateFile)
	}
	return nil
}

// DBPath 返回 BadgerDB 数据库路径
func (c *StorageConfig) DBPath() string {
	return filepath.Join(c.DataDir, defaultDBName)
}

// StatePath 返回状态文件路径（file 后端）
func (c *StorageConfig) StatePath() string {
	return filepath.Join(c.DataDir, c.StateFile)
}
