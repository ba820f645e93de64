package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsAndWritesTextfile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m := New()
	path := filepath.Join(t.TempDir(), "irgen.prom")

	// --- Act ---
	m.ObserveConversion("1685-2014", "ok", 20*time.Millisecond)
	m.ObserveConversion("1685-2014", "AddressOverlap", time.Millisecond)
	m.AddRegisters("1685-2014", 3)
	m.AddReserved(2)
	err := m.WriteTextfile(path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversions.WithLabelValues("1685-2014", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Registers.WithLabelValues("1685-2014")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservedFields))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `irgen_conversions_total{result="AddressOverlap",version="1685-2014"} 1`)
	assert.Contains(t, string(data), "irgen_convert_duration_seconds_count 2")
}

func TestMetrics_InstancesAreIndependent(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.AddReserved(5)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.ReservedFields))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveConversion("1685-2009", "ok", time.Second)
		m.AddRegisters("1685-2009", 1)
		m.AddReserved(1)
	})
}
