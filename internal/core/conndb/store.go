package conndb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-conndb/internal/core/eventbus"
	"github.com/dep2p/go-conndb/internal/core/metrics"
	"github.com/dep2p/go-conndb/internal/core/migration"
	"github.com/dep2p/go-conndb/internal/core/persist"
	"github.com/dep2p/go-conndb/pkg/interfaces"
	"github.com/dep2p/go-conndb/pkg/lib/log"
	"github.com/dep2p/go-conndb/pkg/lib/msaddr"
	"github.com/dep2p/go-conndb/pkg/types"
)

var logger = log.Logger("core/conndb")

// ============================================================================
//                              Store
// ============================================================================

// Store 地址库存储
type Store struct {
	cfg      Config
	gw       interfaces.Gateway
	legacy   interfaces.Gateway
	clock    clock.Clock
	metrics  *metrics.Metrics
	validate func(string) bool
	migrator *migration.Migrator
	bus      *eventbus.Bus

	mu      sync.Mutex
	entries map[string]types.AddressRecord
	closed  bool

	// 防抖写入（受 mu 保护）
	timer *clock.Timer
	gen   uint64

	// writeMu 串行化写入，保证写入顺序与快照顺序一致
	writeMu sync.Mutex

	// 启动加载（ready 关闭后只读）
	ready   chan struct{}
	loadErr error
	// persistOK 加载成功后才允许写回，避免覆盖未解码的持久状态
	persistOK bool
	state     atomic.Int32
}

var _ interfaces.ConnDB = (*Store)(nil)

// New 创建存储并在后台开始加载
func New(cfg Config, opts ...Option) (*Store, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.gateway == nil {
		o.gateway = persist.NewFileGateway(cfg.Dir)
	}
	if o.legacy == nil {
		o.legacy = persist.NewFileGateway(cfg.Dir)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.validate == nil {
		o.validate = msaddr.Check
	}
	if o.migrator == nil {
		o.migrator = migration.New()
	}

	s := &Store{
		cfg:      cfg,
		gw:       o.gateway,
		legacy:   o.legacy,
		clock:    o.clock,
		metrics:  o.metrics,
		validate: o.validate,
		migrator: o.migrator,
		bus:      eventbus.NewBus(eventbus.OnDrop(o.metrics.IncDroppedEvents)),
		entries:  make(map[string]types.AddressRecord),
		ready:    make(chan struct{}),
	}

	go s.load()

	logger.Debug("地址库已创建", "dir", cfg.Dir, "writeTimeout", cfg.WriteTimeout)
	return s, nil
}

// Config 返回存储配置
func (s *Store) Config() Config {
	return s.cfg
}

// State 返回启动状态
func (s *Store) State() LoadState {
	return LoadState(s.state.Load())
}

// ============================================================================
//                              变更操作
// ============================================================================

// Replace 以 rec 整体替换地址记录，只保留已有记录的 birth
func (s *Store) Replace(addr string, rec types.AddressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(addr); err != nil {
		return s.done("replace", err)
	}
	if err := rec.Validate(); err != nil {
		return s.done("replace", err)
	}

	prev, existed := s.entries[addr]
	next := rec.Clone()
	next.Birth = s.birthFor(prev, existed, next.Birth)
	s.putLocked(addr, next, existed)
	return s.done("replace", nil)
}

// Set 把 p 浅合并到已有记录上，地址不存在时新建
func (s *Store) Set(addr string, p types.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(addr); err != nil {
		return s.done("set", err)
	}

	prev, existed := s.entries[addr]
	next, err := p.Apply(prev)
	if err != nil {
		return s.done("set", err)
	}
	next.Birth = s.birthFor(prev, existed, next.Birth)
	s.putLocked(addr, next, existed)
	return s.done("set", nil)
}

// Update 把 p 浅合并到已有记录上，地址不存在时什么都不做
func (s *Store) Update(addr string, p types.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(addr); err != nil {
		return s.done("update", err)
	}
	if err := p.Validate(); err != nil {
		return s.done("update", err)
	}
	return s.done("update", s.updateLocked(addr, p))
}

// UpdateFunc 以 fn(旧记录副本) 的返回值作为 Patch 执行 Update
//
// 地址不存在时 fn 不会被调用。
func (s *Store) UpdateFunc(addr string, fn func(prev types.AddressRecord) types.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(addr); err != nil {
		return s.done("update", err)
	}
	if fn == nil {
		return s.done("update", fmt.Errorf("%w: nil update function", ErrInvalidRecord))
	}

	prev, existed := s.entries[addr]
	if !existed {
		return s.done("update", nil)
	}
	return s.done("update", s.updateLocked(addr, fn(prev.Clone())))
}

func (s *Store) updateLocked(addr string, p types.Patch) error {
	prev, existed := s.entries[addr]
	if !existed {
		return nil
	}
	next, err := p.Apply(prev)
	if err != nil {
		return err
	}
	next.Birth = s.birthFor(prev, true, next.Birth)
	s.putLocked(addr, next, true)
	return nil
}

// Delete 删除地址，返回是否确实删除
func (s *Store) Delete(addr string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(addr); err != nil {
		return false, s.done("delete", err)
	}
	if _, ok := s.entries[addr]; !ok {
		return false, s.done("delete", nil)
	}

	delete(s.entries, addr)
	s.changedLocked(types.ChangeDelete, addr)
	return true, s.done("delete", nil)
}

// putLocked 写入记录并发出对应事件
func (s *Store) putLocked(addr string, rec types.AddressRecord, existed bool) {
	s.entries[addr] = rec
	if existed {
		s.changedLocked(types.ChangeUpdate, addr)
	} else {
		s.changedLocked(types.ChangeInsert, addr)
	}
}

// changedLocked 表发生变化：发事件、更新指标、重置防抖定时器
func (s *Store) changedLocked(kind types.ChangeKind, addr string) {
	if err := s.bus.Emit(types.ChangeEvent{Kind: kind, Address: addr}); err != nil {
		logger.Debug("发射变更事件失败", "kind", kind, "error", err)
	}
	s.metrics.SetEntries(len(s.entries))
	s.scheduleWriteLocked()
}

// birthFor 已有 birth 优先，其次保留调用方给出的值，否则取当前时间
func (s *Store) birthFor(prev types.AddressRecord, existed bool, proposed int64) int64 {
	if existed && prev.Birth != 0 {
		return prev.Birth
	}
	if proposed != 0 {
		return proposed
	}
	return s.clock.Now().UnixMilli()
}

// checkLocked 依次检查关闭状态与地址语法
func (s *Store) checkLocked(addr string) error {
	if s.closed {
		return ErrClosed
	}
	if !s.validate(addr) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, log.Truncate(addr, 128))
	}
	return nil
}

// done 记录操作指标并原样返回错误
func (s *Store) done(op string, err error) error {
	s.metrics.ObserveOp(op, err)
	return err
}

// ============================================================================
//                              查询操作
// ============================================================================

// Get 返回地址记录副本，不存在时返回 nil
func (s *Store) Get(addr string) (*types.AddressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.entries[addr]
	if !ok {
		return nil, nil
	}
	c := rec.Clone()
	return &c, nil
}

// Has 检查地址是否存在
func (s *Store) Has(addr string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}
	_, ok := s.entries[addr]
	return ok, nil
}

// GetAddressForID 返回 key 等于 id 的地址，不存在时返回 ""
//
// 线性扫描；多个地址匹配时返回字典序最小的一个。
func (s *Store) GetAddressForID(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}
	if id == "" {
		return "", nil
	}

	found := ""
	for addr, rec := range s.entries {
		if rec.Key == id && (found == "" || addr < found) {
			found = addr
		}
	}
	return found, nil
}

// Entries 返回按地址排序的全部条目快照
func (s *Store) Entries() ([]types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	out := make([]types.Entry, 0, len(s.entries))
	for addr, rec := range s.entries {
		out = append(out, types.Entry{Address: addr, Record: rec.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

// Size 返回条目数
func (s *Store) Size() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	return len(s.entries), nil
}

// snapshotLocked 复制当前表用于写入
func (s *Store) snapshotLocked() map[string]types.AddressRecord {
	out := make(map[string]types.AddressRecord, len(s.entries))
	for addr, rec := range s.entries {
		out[addr] = rec.Clone()
	}
	return out
}

// ============================================================================
//                              订阅与生命周期
// ============================================================================

// Listen 订阅变更事件
func (s *Store) Listen(opts ...interfaces.SubscriptionOpt) (interfaces.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	sub, err := s.bus.Subscribe(opts...)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Ready 返回加载完成（成功或失败）时关闭的通道
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Loaded 阻塞直到启动加载完成，返回加载错误
func (s *Store) Loaded(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return s.loadErr
}
