package conndb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-conndb/internal/core/persist"
	"github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/types"
)

const (
	addrA   = "net:1.2.3.4:8008~noauth"
	addrB   = "net:5.6.7.8:8008~noauth"
	testKey = "dABVXEERk+yJSzdrDRUfF8R6FlXG7h9PaXKXlt8ma78="
)

// testNow 固定的模拟时间
var testNow = time.UnixMilli(1_700_000_000_000)

// countingGateway 记录写入次数与内容的文件网关
type countingGateway struct {
	*persist.FileGateway

	mu     sync.Mutex
	writes []string
}

func newCountingGateway(dir string) *countingGateway {
	return &countingGateway{FileGateway: persist.NewFileGateway(dir)}
}

func (g *countingGateway) WriteAll(name string, data []byte) error {
	if err := g.FileGateway.WriteAll(name, data); err != nil {
		return err
	}
	g.mu.Lock()
	g.writes = append(g.writes, string(data))
	g.mu.Unlock()
	return nil
}

func (g *countingGateway) Writes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.writes)
}

func (g *countingGateway) Last() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.writes) == 0 {
		return ""
	}
	return g.writes[len(g.writes)-1]
}

// blockingGateway 在 release 关闭前阻塞 Exists，用于构造加载前的变更
type blockingGateway struct {
	interfaces.Gateway
	release chan struct{}
}

func (g *blockingGateway) Exists(name string) (bool, error) {
	<-g.release
	return g.Gateway.Exists(name)
}

// failingReadGateway 的 ReadAll 总是失败
type failingReadGateway struct {
	interfaces.Gateway
	err error
}

func (g *failingReadGateway) ReadAll(string) ([]byte, error) {
	return nil, g.err
}

// newMockClock 返回设置为 testNow 的模拟时钟
func newMockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(testNow)
	return mock
}

// newTestStore 创建使用模拟时钟与计数网关的存储，并等待加载完成
func newTestStore(t *testing.T, dir string) (*Store, *countingGateway, *clock.Mock) {
	t.Helper()

	gw := newCountingGateway(dir)
	mock := newMockClock()

	s, err := New(DefaultConfig(dir), WithGateway(gw), WithClock(mock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	waitLoaded(t, s)
	return s, gw, mock
}

func waitLoaded(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Loaded(ctx))
}

// recvEvent 在超时前读取一个事件
func recvEvent(t *testing.T, sub interfaces.Subscription) types.ChangeEvent {
	t.Helper()
	select {
	case ev := <-sub.Out():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for change event")
		return types.ChangeEvent{}
	}
}

// noEvent 断言没有待读事件
func noEvent(t *testing.T, sub interfaces.Subscription) {
	t.Helper()
	select {
	case ev := <-sub.Out():
		t.Fatalf("unexpected event %s", ev)
	default:
	}
}
