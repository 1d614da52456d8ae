package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docpress"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration    *prom.HistogramVec
	runDuration      prom.Histogram
	stageResults     *prom.CounterVec
	runOutcome       *prom.CounterVec
	probes           *prom.CounterVec
	decisions        *prom.CounterVec
	checkoutDuration *prom.HistogramVec
	checkoutResults  *prom.CounterVec
	checkoutRetries  *prom.CounterVec
	checkoutInflight prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Pipeline runs by final status",
		}, []string{"outcome"}),
		probes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "probe_total",
			Help:      "Documentation probes by location and returned status",
		}, []string{"location", "status"}),
		decisions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "repository_decisions_total",
			Help:      "Repository filter decisions by reason",
		}, []string{"reason"}),
		checkoutDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_seconds",
			Help:      "Duration of individual sparse checkouts",
			Buckets:   prom.DefBuckets,
		}, []string{"repo", "result"}),
		checkoutResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_results_total",
			Help:      "Sparse checkout results by success/failure",
		}, []string{"result"}),
		checkoutRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_retries_total",
			Help:      "Sparse checkout retries after transient failures",
		}, []string{"repo"}),
		checkoutInflight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "checkout_concurrency",
			Help:      "Checkout concurrency limit of the last fetch stage",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcome, pr.probes,
		pr.decisions, pr.checkoutDuration, pr.checkoutResults, pr.checkoutRetries, pr.checkoutInflight)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome ResultLabel) {
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncProbe(location string, status int) {
	p.probes.WithLabelValues(location, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) IncRepositoryDecision(reason string) {
	p.decisions.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) ObserveCheckoutDuration(repo string, d time.Duration, success bool) {
	p.checkoutDuration.WithLabelValues(repo, resultLabel(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCheckoutResult(success bool) {
	p.checkoutResults.WithLabelValues(resultLabel(success)).Inc()
}

func (p *PrometheusRecorder) IncCheckoutRetry(repo string) {
	p.checkoutRetries.WithLabelValues(repo).Inc()
}

func (p *PrometheusRecorder) SetCheckoutConcurrency(n int) {
	p.checkoutInflight.Set(float64(n))
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
