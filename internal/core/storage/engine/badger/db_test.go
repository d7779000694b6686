package badger

import (
	"path/filepath"
	"testing"

	"github.com/dep2p/go-conndb/internal/core/storage/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine 创建测试用引擎
func testEngine(t *testing.T) (*Engine, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(engine.DefaultConfig(dbPath))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, e.Close())
	})
	return e, dbPath
}

func TestEngine_PutGet(t *testing.T) {
	e, _ := testEngine(t)

	require.NoError(t, e.Put([]byte("k"), []byte("v")))

	got, err := e.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := e.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngine_GetNotFound(t *testing.T) {
	e, _ := testEngine(t)

	_, err := e.Get([]byte("missing"))
	assert.ErrorIs(t, err, engine.ErrNotFound)

	ok, err := e.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_EmptyKey(t *testing.T) {
	e, _ := testEngine(t)

	assert.ErrorIs(t, e.Put(nil, []byte("v")), engine.ErrEmptyKey)
	_, err := e.Get(nil)
	assert.ErrorIs(t, err, engine.ErrEmptyKey)
}

func TestEngine_Keys(t *testing.T) {
	e, _ := testEngine(t)

	require.NoError(t, e.Put([]byte("a/1"), []byte("x")))
	require.NoError(t, e.Put([]byte("a/2"), []byte("y")))
	require.NoError(t, e.Put([]byte("b/1"), []byte("z")))

	keys, err := e.Keys([]byte("a/"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a/1"), []byte("a/2")}, keys)
}

func TestEngine_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	e, err := New(engine.DefaultConfig(dbPath))
	require.NoError(t, err)
	require.NoError(t, e.Put([]byte("k"), []byte("v1")))
	require.NoError(t, e.Close())

	e2, err := New(engine.DefaultConfig(dbPath))
	require.NoError(t, err)
	defer e2.Close()

	got, err := e2.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestEngine_Closed(t *testing.T) {
	e, err := New(engine.DefaultConfig(filepath.Join(t.TempDir(), "c.db")))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	// 重复关闭安全
	require.NoError(t, e.Close())

	assert.ErrorIs(t, e.Put([]byte("k"), []byte("v")), engine.ErrClosed)
	_, err = e.Get([]byte("k"))
	assert.ErrorIs(t, err, engine.ErrClosed)
}

func TestEngine_Stats(t *testing.T) {
	e, _ := testEngine(t)

	require.NoError(t, e.Put([]byte("k"), []byte("v")))
	_, _ = e.Get([]byte("k"))
	_, _ = e.Get([]byte("missing"))

	stats := e.Stats()
	assert.Equal(t, int64(1), stats.NumWrites)
	assert.Equal(t, int64(2), stats.NumReads)
	assert.Equal(t, stats.LSMSize+stats.VlogSize, stats.DiskSize())
}

func TestEngine_StatsAfterClose(t *testing.T) {
	e, err := New(engine.DefaultConfig(filepath.Join(t.TempDir(), "s.db")))
	require.NoError(t, err)
	require.NoError(t, e.Put([]byte("k"), []byte("v")))
	require.NoError(t, e.Close())

	stats := e.Stats()
	assert.Equal(t, int64(1), stats.NumWrites)
	assert.Zero(t, stats.DiskSize())
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, engine.DefaultConfig("").Validate(), engine.ErrInvalidConfig)

	cfg := engine.DefaultConfig("/tmp/x")
	cfg.GCDiscardRatio = 0
	assert.ErrorIs(t, cfg.Validate(), engine.ErrInvalidConfig)

	_, err := New(nil)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}
