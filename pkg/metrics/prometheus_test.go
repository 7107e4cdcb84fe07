package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordRun("AAPL", "ok")
	r.RecordRun("AAPL", "ok")
	r.RecordRows("price", 7)
	r.RecordRows("price", 12)
	r.RecordDegraded("trend")
	r.RecordError("source")
	r.RecordLatency("pipeline_run", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("AAPL", "ok")))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.rowsProduced.WithLabelValues("price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.degradedTotal.WithLabelValues("trend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("source")))

	n, err := testutil.GatherAndCount(reg, "insidernet_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
