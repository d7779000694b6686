package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace 指标命名空间
const Namespace = "conndb"

// 结果标签取值
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultClean   = "clean"
	ResultHealed  = "healed"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Metrics 地址库指标集合
type Metrics struct {
	ops           *prometheus.CounterVec
	writes        *prometheus.CounterVec
	writeDuration prometheus.Histogram
	writeBytes    prometheus.Gauge
	entries       prometheus.Gauge
	heals         *prometheus.CounterVec
	droppedRecs   prometheus.Counter
	migrated      *prometheus.CounterVec
	loads         *prometheus.CounterVec
	droppedEvents prometheus.Counter
}

// New 创建并向 reg 注册指标（reg 为 nil 时不注册）
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ops_total",
			Help:      "Store API calls by operation and result",
		}, []string{"op", "result"}),

		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "writes_total",
			Help:      "State file writes by result",
		}, []string{"result"}),

		writeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "write_duration_seconds",
			Help:      "Time to encode and write the state file",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		writeBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "write_bytes",
			Help:      "Size of the most recent state file write",
		}),

		entries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "entries",
			Help:      "Number of addresses in the store",
		}),

		heals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "heal_total",
			Help:      "Decode outcomes of the persisted state",
		}, []string{"result"}),

		droppedRecs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dropped_records_total",
			Help:      "Records dropped while decoding the persisted state",
		}),

		migrated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "migrated_entries_total",
			Help:      "Legacy entries processed by migration",
		}, []string{"result"}),

		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "load_total",
			Help:      "Startup load paths taken",
		}, []string{"state"}),

		droppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "dropped_events_total",
			Help:      "Change events dropped for slow listeners",
		}),
	}
}

// ObserveOp 记录一次 API 调用
func (m *Metrics) ObserveOp(op string, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, result(err)).Inc()
}

// ObserveWrite 记录一次状态文件写入
func (m *Metrics) ObserveWrite(size int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(result(err)).Inc()
	m.writeDuration.Observe(elapsed.Seconds())
	if err == nil {
		m.writeBytes.Set(float64(size))
	}
}

// SetEntries 设置当前条目数
func (m *Metrics) SetEntries(n int) {
	if m == nil {
		return
	}
	m.entries.Set(float64(n))
}

// ObserveHeal 记录一次自愈解码的结果
func (m *Metrics) ObserveHeal(result string, droppedRecords int) {
	if m == nil {
		return
	}
	m.heals.WithLabelValues(result).Inc()
	if droppedRecords > 0 {
		m.droppedRecs.Add(float64(droppedRecords))
	}
}

// ObserveMigration 记录迁移结果
func (m *Metrics) ObserveMigration(migrated, skipped int) {
	if m == nil {
		return
	}
	m.migrated.WithLabelValues(ResultOK).Add(float64(migrated))
	m.migrated.WithLabelValues(ResultSkipped).Add(float64(skipped))
}

// ObserveLoad 记录启动加载路径
func (m *Metrics) ObserveLoad(state string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(state).Inc()
}

// IncDroppedEvents 记录一次事件丢弃
func (m *Metrics) IncDroppedEvents() {
	if m == nil {
		return
	}
	m.droppedEvents.Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
