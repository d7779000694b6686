package conndb

import (
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/dep2p/go-conndb/internal/core/codec"
	"github.com/dep2p/go-conndb/pkg/types"
)

// ============================================================================
//                              防抖写入
// ============================================================================

// scheduleWriteLocked 重置防抖定时器
//
// 每次重置都会递增代数，旧定时器触发时发现代数不符即放弃写入。
func (s *Store) scheduleWriteLocked() {
	s.cancelTimerLocked()
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.cfg.WriteTimeout, func() {
		s.fire(gen)
	})
}

// cancelTimerLocked 取消待执行的定时器
func (s *Store) cancelTimerLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire 定时器触发：等待加载完成后写入当时的快照
func (s *Store) fire(gen uint64) {
	<-s.ready

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if !s.persistOK {
		s.mu.Unlock()
		s.skipWrite("debounce")
		return
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	// 后台写入失败只记录，由下一次变更重试
	_ = s.write(snapshot)
}

// skipWrite 加载失败时放弃写入，保留磁盘上未能解码的状态
func (s *Store) skipWrite(reason string) {
	logger.Warn("加载失败，跳过写入以保留持久状态", "reason", reason, "file", s.cfg.StateFile, "error", s.loadErr)
}

// Flush 取消待执行的定时器并同步写入当前状态
//
// 加载尚未完成时先等待加载，避免用不完整的表覆盖状态文件。
// 加载失败时不写入，返回加载错误。
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.cancelTimerLocked()
	s.mu.Unlock()

	<-s.ready
	if !s.persistOK {
		s.skipWrite("flush")
		return s.done("flush", fmt.Errorf("state not persisted, load failed: %w", s.loadErr))
	}
	return s.done("flush", s.writeCurrent())
}

// writeCurrent 在写入锁内取快照并写入
func (s *Store) writeCurrent() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.write(snapshot)
}

// write 编码并写入状态文件
func (s *Store) write(snapshot map[string]types.AddressRecord) error {
	start := s.clock.Now()

	data, err := codec.Encode(snapshot)
	if err == nil {
		err = s.gw.WriteAll(s.cfg.StateFile, data)
	}
	s.metrics.ObserveWrite(len(data), s.clock.Since(start), err)

	if err != nil {
		logger.Warn("写入状态文件失败", "file", s.cfg.StateFile, "entries", len(snapshot), "error", err)
		return err
	}
	logger.Debug("已写入状态文件", "file", s.cfg.StateFile, "entries", len(snapshot), "bytes", len(data))
	return nil
}

// ============================================================================
//                              关闭
// ============================================================================

// Close 取消待执行的写入，执行一次最终写入并释放资源
//
// 之后所有操作返回 ErrClosed。重复调用返回 nil。
// 加载失败时不做最终写入。网关实现 io.Closer 时一并关闭。
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelTimerLocked()
	s.mu.Unlock()

	<-s.ready

	var err error
	if s.persistOK {
		err = s.writeCurrent()
	} else {
		s.skipWrite("close")
	}
	err = multierr.Append(err, s.bus.Close())

	closers := []io.Closer{}
	if c, ok := s.gw.(io.Closer); ok {
		closers = append(closers, c)
	}
	if c, ok := s.legacy.(io.Closer); ok && s.legacy != s.gw {
		closers = append(closers, c)
	}
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}

	s.metrics.ObserveOp("close", err)
	if err != nil {
		logger.Warn("关闭地址库时出错", "error", err)
	} else {
		logger.Debug("地址库已关闭", "dir", s.cfg.Dir)
	}
	return err
}
