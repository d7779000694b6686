package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg := ParseConfig("core/conndb=debug, core/codec=warn,error", "json")

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/conndb"))
	assert.Equal(t, slog.LevelWarn, cfg.LevelFor("core/codec"))
	assert.Equal(t, slog.LevelError, cfg.LevelFor("core/persist"))
	assert.Equal(t, slog.LevelDebug, cfg.MinLevel())
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestParseConfig_IgnoresUnknownLevels(t *testing.T) {
	cfg := ParseConfig("core/conndb=loud,verbose", "")

	assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
	assert.Empty(t, cfg.ComponentLevels)
	assert.Equal(t, FormatText, cfg.Format)
}

func TestLazyLogger_ComponentLevel(t *testing.T) {
	t.Cleanup(ResetConfig)
	Configure("core/noisy=error,debug", "text")

	var buf bytes.Buffer
	SetOutput(&buf)

	Logger("core/noisy").Warn("should be filtered")
	Logger("core/quiet").Debug("should pass", "k", "v")

	out := buf.String()
	require.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should pass")
	assert.Contains(t, out, "component=core/quiet")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "net:a", Truncate("net:a", 10))
	assert.Equal(t, "net:…", Truncate("net:abcdef", 4))
}
