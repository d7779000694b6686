package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, DefaultStateFile, cfg.Storage.StateFile)
	assert.Equal(t, DefaultLegacyFile, cfg.Storage.LegacyFile)
	assert.Equal(t, DefaultWriteTimeout, cfg.EffectiveWriteTimeout())
}

// TestDefaultDir 测试默认数据目录
func TestDefaultDir(t *testing.T) {
	t.Run("SSB_HOME", func(t *testing.T) {
		t.Setenv(EnvHome, "/srv/ssb")
		assert.Equal(t, "/srv/ssb", DefaultDir())
	})

	t.Run("Home", func(t *testing.T) {
		t.Setenv(EnvHome, "")
		t.Setenv("HOME", "/home/alice")
		assert.Equal(t, filepath.Join("/home/alice", ".ssb"), DefaultDir())
	})
}

// TestConfig_Validate 测试配置验证
func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"EmptyDataDir":    func(c *Config) { c.Storage.DataDir = "" },
		"UnknownBackend":  func(c *Config) { c.Storage.Backend = "sqlite" },
		"NestedStateFile": func(c *Config) { c.Storage.StateFile = "../conn.json" },
		"SameFiles":       func(c *Config) { c.Storage.LegacyFile = c.Storage.StateFile },
		"NegativeTimeout": func(c *Config) { c.SetWriteTimeout(-time.Second) },
		"BadLogLevel":     func(c *Config) { c.Log.Level = "core/conndb=loud" },
		"BadLogFormat":    func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrInvalidConfig)
}

// TestConfig_ZeroWriteTimeout 显式 0 表示立即写入
func TestConfig_ZeroWriteTimeout(t *testing.T) {
	cfg := NewConfig()
	cfg.SetWriteTimeout(0)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.Duration(0), cfg.EffectiveWriteTimeout())
}

// TestLoad_AllFormatsAgree 三种格式得到相同的配置
func TestLoad_AllFormatsAgree(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"conndb.json": `{
  "storage": {"data_dir": "/data/ssb", "backend": "badger"},
  "write_timeout": "500ms",
  "log": {"level": "debug", "format": "json"}
}`,
		"conndb.yaml": `
storage:
  data_dir: /data/ssb
  backend: badger
write_timeout: 500ms
log:
  level: debug
  format: json
`,
		"conndb.toml": `
write_timeout = "500ms"

[storage]
data_dir = "/data/ssb"
backend = "badger"

[log]
level = "debug"
format = "json"
`,
	}

	want := NewConfig()
	want.Storage.DataDir = "/data/ssb"
	want.Storage.Backend = BackendBadger
	want.SetWriteTimeout(500 * time.Millisecond)
	want.Log = LogConfig{Level: "debug", Format: "json"}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

// TestLoad_Errors 测试加载失败
func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "conndb.ini"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour = \"red\"\n"), 0600))
	_, err = Load(unknown)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("storage:\n  backend: sqlite\n"), 0600))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	badDuration := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badDuration, []byte(`{"write_timeout": "soon"}`), 0600))
	_, err = Load(badDuration)
	assert.Error(t, err)
}

// TestLoad_EmptyYAMLKeepsDefaults 空文件保留默认值
func TestLoad_EmptyYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

// TestSave_RoundTrip 测试写出后再加载
func TestSave_RoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.DataDir = "/data/ssb"
	cfg.SetWriteTimeout(time.Second)

	for _, name := range []string{"out.json", "out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cfg))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

// TestApplyEnv 测试环境变量覆盖
func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/env/dir")
	t.Setenv(EnvBackend, " Badger ")
	t.Setenv(EnvWriteTimeout, "250ms")
	t.Setenv(EnvLogLevel, "warn")

	cfg := NewConfig()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, "/env/dir", cfg.Storage.DataDir)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.EffectiveWriteTimeout())
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv(EnvWriteTimeout, "later")
	assert.ErrorIs(t, ApplyEnv(NewConfig()), ErrInvalidConfig)
}

// TestDuration_JSONNumber 纳秒数形式
func TestDuration_JSONNumber(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte("1500000000")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1.5s"`, string(data))
}
