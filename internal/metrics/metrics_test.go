package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/serroba/fixed-window-go/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("registers all collectors", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)

		m.Decisions.WithLabelValues(metrics.DecisionAllowed).Inc()
		m.LimiterDuration.Observe(0.01)
		m.AuditPublishes.WithLabelValues("ok").Inc()

		families, err := reg.Gather()

		require.NoError(t, err)
		assert.Len(t, families, 3)
	})

	t.Run("counts decisions per label", func(t *testing.T) {
		m := metrics.NewNop()

		m.Decisions.WithLabelValues(metrics.DecisionAllowed).Inc()
		m.Decisions.WithLabelValues(metrics.DecisionAllowed).Inc()
		m.Decisions.WithLabelValues(metrics.DecisionDenied).Inc()

		assert.InDelta(t, 2, testutil.ToFloat64(m.Decisions.WithLabelValues(metrics.DecisionAllowed)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.Decisions.WithLabelValues(metrics.DecisionDenied)), 0)
	})

	t.Run("panics on duplicate registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_ = metrics.New(reg)

		assert.Panics(t, func() { metrics.New(reg) })
	})
}
