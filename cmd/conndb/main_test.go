package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-conndb/config"
	"github.com/dep2p/go-conndb/pkg/types"
)

const (
	addrA   = "net:1.2.3.4:8008~noauth"
	addrB   = "net:5.6.7.8:8008~noauth"
	testKey = "dABVXEERk+yJSzdrDRUfF8R6FlXG7h9PaXKXlt8ma78="
)

// syncBuffer 可并发读写的输出缓冲
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// execute 以给定参数运行根命令并返回输出
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvWriteTimeout, "")

	out := &syncBuffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// ═══════════════════════════════════════════════════════════════════════════
// 查询与变更
// ═══════════════════════════════════════════════════════════════════════════

func TestCLI_SetGetListRemove(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "-d", dir, "set", addrA, "source=local", "failure=0", `ping={"mean":12.5}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "local"`)

	out, err = execute(t, "-d", dir, "get", addrA)
	require.NoError(t, err)
	var rec types.AddressRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "local", rec.Source)
	require.NotNil(t, rec.Failure)
	assert.Zero(t, *rec.Failure)
	require.NotNil(t, rec.Ping)
	assert.NotZero(t, rec.Birth)

	// null 移除字段，birth 保持不变
	_, err = execute(t, "-d", dir, "set", addrA, "source=null")
	require.NoError(t, err)
	out, err = execute(t, "-d", dir, "get", addrA)
	require.NoError(t, err)
	var after types.AddressRecord
	require.NoError(t, json.Unmarshal([]byte(out), &after))
	assert.Empty(t, after.Source)
	assert.Equal(t, rec.Birth, after.Birth)

	_, err = execute(t, "-d", dir, "set", addrB, "key=@"+testKey+".ed25519")
	require.NoError(t, err)

	out, err = execute(t, "-d", dir, "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ADDRESS"))
	assert.True(t, strings.HasPrefix(lines[1], addrA))
	assert.True(t, strings.HasPrefix(lines[2], addrB))

	out, err = execute(t, "-d", dir, "ls", "--json")
	require.NoError(t, err)
	var table map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Len(t, table, 2)

	out, err = execute(t, "-d", dir, "find", "@"+testKey+".ed25519")
	require.NoError(t, err)
	assert.Equal(t, addrB, strings.TrimSpace(out))

	out, err = execute(t, "-d", dir, "rm", addrA, addrA)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+addrA)
	assert.Contains(t, out, addrA+" not found")

	_, err = execute(t, "-d", dir, "get", addrA)
	assert.ErrorContains(t, err, "not found")
}

func TestCLI_SetModes(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "-d", dir, "set", "--update", addrA, "source=x")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing updated")

	_, err = execute(t, "-d", dir, "set", addrA, "source=x", "key=@k")
	require.NoError(t, err)
	out, err = execute(t, "-d", dir, "set", "--replace", addrA, "source=y")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "y"`)
	assert.NotContains(t, out, `"key"`)

	_, err = execute(t, "-d", dir, "set", "--replace", "--update", addrA)
	assert.Error(t, err)
	_, err = execute(t, "-d", dir, "set", addrA, "noequals")
	assert.Error(t, err)
	_, err = execute(t, "-d", dir, "set", "bogus", "source=x")
	assert.ErrorContains(t, err, "invalid address")
}

func TestCLI_BadgerBackend(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "-d", dir, "--backend", "badger", "set", addrA, "source=db")
	require.NoError(t, err)

	out, err := execute(t, "-d", dir, "--backend", "badger", "get", addrA)
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "db"`)

	_, err = os.Stat(filepath.Join(dir, config.DefaultStateFile))
	assert.True(t, os.IsNotExist(err))

	_, err = execute(t, "-d", dir, "--backend", "badger", "watch")
	assert.ErrorContains(t, err, "file backend")
}

func TestParsePatch(t *testing.T) {
	p, err := parsePatch([]string{"source=local", "failure=3", "flag=true", "note=a=b", "gone=null"})
	require.NoError(t, err)
	assert.Equal(t, "local", p["source"])
	assert.Equal(t, json.RawMessage("3"), p["failure"])
	assert.Equal(t, json.RawMessage("true"), p["flag"])
	assert.Equal(t, "a=b", p["note"])
	assert.Equal(t, json.RawMessage("null"), p["gone"])

	_, err = parsePatch([]string{"=x"})
	assert.Error(t, err)
}

// ═══════════════════════════════════════════════════════════════════════════
// migrate / check
// ═══════════════════════════════════════════════════════════════════════════

func TestCLI_Migrate(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "-d", dir, "migrate")
	assert.ErrorContains(t, err, "no gossip.json")

	legacy := `[{"address": "` + addrA + `", "source": "local"}, {"address": "bad"}]`
	legacyPath := filepath.Join(dir, config.DefaultLegacyFile)
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacy), 0600))

	out, err := execute(t, "-d", dir, "migrate", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, addrA)
	_, err = os.Stat(filepath.Join(dir, config.DefaultStateFile))
	assert.True(t, os.IsNotExist(err))

	out, err = execute(t, "-d", dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated 1 entries, skipped 1")

	_, err = execute(t, "-d", dir, "migrate")
	assert.ErrorContains(t, err, "--force")
	_, err = execute(t, "-d", dir, "migrate", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(legacyPath)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data))

	out, err = execute(t, "-d", dir, "get", addrA)
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "local"`)
}

func TestCLI_Stats(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "-d", dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "missing")

	_, err = execute(t, "-d", dir, "set", addrA, "source=local")
	require.NoError(t, err)

	out, err = execute(t, "-d", dir, "stats", "--json")
	require.NoError(t, err)
	var st storageStats
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, config.BackendFile, st.Backend)
	assert.Equal(t, filepath.Join(dir, config.DefaultStateFile), st.Location)
	assert.True(t, st.Exists)
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, "clean", st.Health)
	assert.Positive(t, st.Bytes)
	assert.Nil(t, st.Engine)
}

func TestCLI_StatsBadger(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "-d", dir, "--backend", "badger", "set", addrA, "source=db")
	require.NoError(t, err)

	out, err := execute(t, "-d", dir, "--backend", "badger", "stats", "--json")
	require.NoError(t, err)
	var st storageStats
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, filepath.Join(dir, "conn.db"), st.Location)
	assert.Equal(t, []string{config.DefaultStateFile}, st.Files)
	assert.Equal(t, 1, st.Entries)
	require.NotNil(t, st.Engine)
	assert.Positive(t, st.Engine.NumReads)

	out, err = execute(t, "-d", dir, "--backend", "badger", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Disk size:")
	assert.Contains(t, out, config.DefaultStateFile)
}

func TestCLI_Check(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	out, err := execute(t, "check", write("clean.json", `{"`+addrA+`": {}}`))
	require.NoError(t, err)
	assert.Contains(t, out, "clean, 1 entries")

	out, err = execute(t, "check", write("healed.json", `{"`+addrA+`": {}}xx`))
	require.NoError(t, err)
	assert.Contains(t, out, "trimmed 2 trailing bytes")

	out, err = execute(t, "check", write("dropped.json", `{"`+addrA+`": {}, "`+addrB+`": 5}`))
	require.NoError(t, err)
	assert.Contains(t, out, "dropped 1 invalid records: "+addrB)

	_, err = execute(t, "check", write("broken.json", `{"`+addrA+`": {"source": "`))
	assert.ErrorContains(t, err, "unrecoverable")
}

// ═══════════════════════════════════════════════════════════════════════════
// config / version
// ═══════════════════════════════════════════════════════════════════════════

func TestCLI_ConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conndb.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	out, err = execute(t, "-c", path, "-d", dir, "--write-timeout", "250ms", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "data_dir: "+dir)
	assert.Contains(t, out, "write_timeout: 250ms")

	_, err = execute(t, "-d", dir, "--write-timeout", "soon", "config", "show")
	assert.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "conndb v")
}

// ═══════════════════════════════════════════════════════════════════════════
// watch
// ═══════════════════════════════════════════════════════════════════════════

func TestCLI_Watch(t *testing.T) {
	dir := t.TempDir()
	state := filepath.Join(dir, config.DefaultStateFile)
	require.NoError(t, os.WriteFile(state, []byte(`{"`+addrA+`": {}}`), 0600))
	t.Setenv(config.EnvDataDir, "")

	out := &syncBuffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetArgs([]string{"-d", dir, "watch", "--interval", "10ms", "--initial"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "insert "+addrA)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(state, []byte(`{"`+addrA+`": {"source": "x"}, "`+addrB+`": {}}`), 0600))
	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "update "+addrA) && strings.Contains(s, "insert "+addrB)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(state, []byte(`{"`+addrB+`": {}}`), 0600))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "delete "+addrA)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatcher_Diff(t *testing.T) {
	w := &watcher{prev: map[string][]byte{
		addrA: []byte(`{}`),
		addrB: []byte(`{"source":"x"}`),
	}}

	var events []string
	w.diff(map[string][]byte{
		addrB:                  []byte(`{"source":"y"}`),
		"net:9.9.9.9:1~noauth": []byte(`{}`),
	}, func(ev types.ChangeEvent) {
		events = append(events, ev.String())
	})

	assert.Equal(t, []string{
		"delete " + addrA,
		"update " + addrB,
		"insert net:9.9.9.9:1~noauth",
	}, events)
	assert.Len(t, w.prev, 2)
}
