package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIsolated(t *testing.T) {
	a := New()
	b := New()

	a.Checks.WithLabelValues("smoke", "passed").Inc()
	a.Checks.WithLabelValues("smoke", "passed").Inc()
	a.Comparisons.WithLabelValues("emi", "mismatch").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.Checks.WithLabelValues("smoke", "passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Comparisons.WithLabelValues("emi", "mismatch")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Checks.WithLabelValues("smoke", "passed")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.BrowserActions.WithLabelValues("fill", "success").Inc()
	m.CheckDuration.Observe(1.5)

	path := filepath.Join(t.TempDir(), "emi.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `emi_browser_actions_total{action="fill",status="success"} 1`)
	assert.Contains(t, string(data), "emi_check_duration_seconds_count 1")
}
