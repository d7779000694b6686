package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOp("set", nil)
	m.ObserveOp("set", nil)
	m.ObserveOp("set", errors.New("boom"))
	m.ObserveWrite(42, 5*time.Millisecond, nil)
	m.ObserveWrite(0, time.Millisecond, errors.New("disk full"))
	m.SetEntries(3)
	m.ObserveHeal(ResultHealed, 2)
	m.ObserveMigration(4, 1)
	m.ObserveLoad("legacy")
	m.IncDroppedEvents()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ops.WithLabelValues("set", ResultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ops.WithLabelValues("set", ResultError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.writes.WithLabelValues(ResultError)))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.writeBytes))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.entries))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.droppedRecs))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.migrated.WithLabelValues(ResultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.droppedEvents))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOp("get", nil)
		m.ObserveWrite(1, time.Second, nil)
		m.SetEntries(1)
		m.ObserveHeal(ResultClean, 0)
		m.ObserveMigration(1, 1)
		m.ObserveLoad("fresh")
		m.IncDroppedEvents()
	})
}

func TestNew_NilRegisterer(t *testing.T) {
	// 不注册时可重复创建
	assert.NotNil(t, New(nil))
	assert.NotNil(t, New(nil))
}
