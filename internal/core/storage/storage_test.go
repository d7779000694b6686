package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FilesNamespace(t *testing.T) {
	eng, err := New(filepath.Join(t.TempDir(), "conn.db"))
	require.NoError(t, err)
	defer eng.Close()

	files := NewKVStore(eng, FilePrefix)
	require.NoError(t, files.Put([]byte("conn.json"), []byte("{}")))

	raw, err := eng.Get([]byte("f/conn.json"))
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), raw)

	_, err = files.Get([]byte("gossip.json"))
	assert.True(t, IsNotFound(err))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig().WithPath("/tmp/x")
	cfg.GCInterval = time.Second
	cfg.GCDiscardRatio = 2
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Minute, cfg.GCInterval)
	assert.Equal(t, 0.5, cfg.GCDiscardRatio)

	cfg.SyncWrites = false
	ec := cfg.ToEngineConfig()
	assert.False(t, ec.SyncWrites)
	assert.Equal(t, "/tmp/x", ec.Path)
}
