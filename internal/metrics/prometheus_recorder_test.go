package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("enhance", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("enhance", ResultSuccess)
	pr.IncRunOutcome(ResultSuccess)
	pr.IncProbe("root_readme", 200)
	pr.IncProbe("root_readme", 200)
	pr.IncProbe("docs_folder", 404)
	pr.IncRepositoryDecision("fork")
	pr.ObserveCheckoutDuration("site", time.Second, true)
	pr.IncCheckoutResult(true)
	pr.IncCheckoutResult(false)
	pr.IncCheckoutRetry("site")
	pr.SetCheckoutConcurrency(4)

	require.InDelta(t, 2, testutil.ToFloat64(pr.probes.WithLabelValues("root_readme", "200")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.probes.WithLabelValues("docs_folder", "404")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.decisions.WithLabelValues("fork")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.checkoutResults.WithLabelValues("failed")), 0)
	require.InDelta(t, 4, testutil.ToFloat64(pr.checkoutInflight), 0)
	require.Equal(t, 1, testutil.CollectAndCount(pr.checkoutDuration))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(ResultWarning)

	path := filepath.Join(t.TempDir(), "nested", "docpress.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `docpress_run_outcomes_total{outcome="warning"} 1`)
}

func TestOrNoop(t *testing.T) {
	require.Equal(t, NoopRecorder{}, OrNoop(nil))
	pr := NewPrometheusRecorder(nil)
	require.Same(t, pr, OrNoop(pr))
}
