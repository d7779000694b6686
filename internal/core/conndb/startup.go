package conndb

import (
	"github.com/dep2p/go-conndb/internal/core/codec"
	"github.com/dep2p/go-conndb/internal/core/metrics"
	"github.com/dep2p/go-conndb/internal/core/migration"
	"github.com/dep2p/go-conndb/pkg/types"
)

// ============================================================================
//                              启动加载
// ============================================================================

// load 执行一次启动状态机，结束时关闭 ready
func (s *Store) load() {
	defer close(s.ready)

	loaded, err := s.readInitial()
	if err != nil {
		s.loadErr = err
		s.setState(StateFailed)
		logger.Error("加载地址库失败", "dir", s.cfg.Dir, "error", err)
		return
	}

	s.mu.Lock()
	for addr, rec := range loaded {
		s.entries[addr] = rec
	}
	size := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetEntries(size)
	s.persistOK = true
	s.setState(StateReady)
	logger.Info("地址库加载完成", "dir", s.cfg.Dir, "entries", size)
}

// readInitial 按 ModernFound → LegacyOnly → NoFileFound 的顺序确定初始表
func (s *Store) readInitial() (map[string]types.AddressRecord, error) {
	hasModern, err := s.gw.Exists(s.cfg.StateFile)
	if err != nil {
		s.setState(StateModernFound)
		return nil, err
	}
	if hasModern {
		s.setState(StateModernFound)
		return s.readModern()
	}

	hasLegacy, err := s.legacy.Exists(s.cfg.LegacyFile)
	if err != nil {
		s.setState(StateLegacyOnly)
		return nil, err
	}
	if hasLegacy {
		s.setState(StateLegacyOnly)
		return s.migrateLegacy()
	}

	s.setState(StateNoFileFound)
	s.writeEmpty()
	return nil, nil
}

// readModern 读取并自愈解码当前格式文件
func (s *Store) readModern() (map[string]types.AddressRecord, error) {
	data, err := s.gw.ReadAll(s.cfg.StateFile)
	if err != nil {
		return nil, err
	}

	loaded, report := codec.Decode(data)
	switch {
	case report.Failed():
		s.metrics.ObserveHeal(metrics.ResultFailed, len(report.Dropped))
	case report.Corrupted || len(report.Dropped) > 0:
		s.metrics.ObserveHeal(metrics.ResultHealed, len(report.Dropped))
	default:
		s.metrics.ObserveHeal(metrics.ResultClean, 0)
	}
	return loaded, nil
}

// migrateLegacy 读取旧格式文件、迁移并立即写出当前格式文件
//
// 旧文件不会被修改。
func (s *Store) migrateLegacy() (map[string]types.AddressRecord, error) {
	data, err := s.legacy.ReadAll(s.cfg.LegacyFile)
	if err != nil {
		return nil, err
	}

	loaded, summary := s.migrator.Migrate(migration.Decode(data))
	s.metrics.ObserveMigration(summary.Migrated, summary.Skipped)

	s.writeMu.Lock()
	err = s.write(loaded)
	s.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	logger.Info("已从旧格式迁移", "legacy", s.cfg.LegacyFile, "entries", len(loaded), "skipped", summary.Skipped)
	return loaded, nil
}

// writeEmpty 写出空表，失败只记录日志
func (s *Store) writeEmpty() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.write(nil); err != nil {
		logger.Warn("写入空状态文件失败，继续运行", "error", err)
	}
}

func (s *Store) setState(st LoadState) {
	s.state.Store(int32(st))
	s.metrics.ObserveLoad(st.String())
}
