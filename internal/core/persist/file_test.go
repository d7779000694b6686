package persist

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileGateway_WriteReadExists(t *testing.T) {
	g := NewFileGateway(t.TempDir())

	ok, err := g.Exists("conn.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.WriteAll("conn.json", []byte("{}")))

	ok, err = g.Exists("conn.json")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := g.ReadAll("conn.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	info, err := os.Stat(g.Path("conn.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}

func TestFileGateway_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "ssb")
	g := NewFileGateway(dir)

	require.NoError(t, g.WriteAll("conn.json", []byte("{}")))
	assert.FileExists(t, filepath.Join(dir, "conn.json"))
}

func TestFileGateway_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGateway(dir)

	for i := 0; i < 5; i++ {
		require.NoError(t, g.WriteAll("conn.json", []byte(`{"a":1}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "conn.json", entries[0].Name())
}

// TestFileGateway_ConcurrentWritesNeverTorn 并发写入后内容必须是某一次完整写入
func TestFileGateway_ConcurrentWritesNeverTorn(t *testing.T) {
	g := NewFileGateway(t.TempDir())
	payloads := []string{`{"a":1}`, `{"bb":22}`, `{"ccc":333}`}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, g.WriteAll("conn.json", []byte(p)))
		}(payloads[i%len(payloads)])
	}
	wg.Wait()

	data, err := g.ReadAll("conn.json")
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data))
}

func TestFileGateway_Errors(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGateway(dir)

	_, err := g.ReadAll("missing.json")
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "read", ioe.Op)
	assert.Equal(t, "missing.json", ioe.Name)

	assert.ErrorIs(t, g.WriteAll("../escape.json", nil), ErrIO)

	// 目标是目录
	require.NoError(t, os.Mkdir(filepath.Join(dir, "conn.json"), 0755))
	_, err = g.Exists("conn.json")
	assert.ErrorIs(t, err, ErrIO)
}
