package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-conndb/pkg/types"
	"github.com/stretchr/testify/assert"
)

// ============================================================================
// 并发测试
// ============================================================================

// TestConcurrent_MultipleEmitters 多个 goroutine 并发发射
func TestConcurrent_MultipleEmitters(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(BufSize(100))
	defer sub.Close()

	numEmitters := 10
	eventsPerEmitter := 10

	var wg sync.WaitGroup
	wg.Add(numEmitters)
	for i := 0; i < numEmitters; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerEmitter; j++ {
				_ = bus.Emit(types.ChangeEvent{Kind: types.ChangeUpdate, Address: "a"})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, sub.Out(), numEmitters*eventsPerEmitter)
	assert.Equal(t, int64(0), bus.Dropped())
}

// TestConcurrent_SubscribeCloseWhileEmitting 发射期间订阅与取消订阅不会 panic
func TestConcurrent_SubscribeCloseWhileEmitting(t *testing.T) {
	bus := NewBus()
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = bus.Emit(types.ChangeEvent{Kind: types.ChangeInsert, Address: "a"})
			}
		}
	}()

	for i := 0; i < 100; i++ {
		sub, err := bus.Subscribe(BufSize(1))
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		_ = sub.Close()
	}

	close(stop)
	wg.Wait()
	_ = bus.Close()
}

// TestConcurrent_CloseWhileEmitting 关闭与发射竞争
func TestConcurrent_CloseWhileEmitting(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(BufSize(1))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = bus.Emit(types.ChangeEvent{Kind: types.ChangeDelete, Address: "a"})
		}
	}()
	go func() {
		defer wg.Done()
		time.Sleep(time.Millisecond)
		_ = bus.Close()
	}()
	wg.Wait()

	// 通道最终关闭
	for range sub.Out() {
	}
}
