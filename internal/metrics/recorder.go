package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for pipeline runs. Implementations
// may forward to Prometheus or any other backend.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome ResultLabel)
	IncProbe(location string, status int)
	IncRepositoryDecision(reason string) // reason is "allowed" or a filter reason code
	ObserveCheckoutDuration(repo string, d time.Duration, success bool)
	IncCheckoutResult(success bool)
	IncCheckoutRetry(repo string)
	SetCheckoutConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)          {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                  {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                           {}
func (NoopRecorder) IncProbe(string, int)                                {}
func (NoopRecorder) IncRepositoryDecision(string)                        {}
func (NoopRecorder) ObserveCheckoutDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncCheckoutResult(bool)                              {}
func (NoopRecorder) IncCheckoutRetry(string)                             {}
func (NoopRecorder) SetCheckoutConcurrency(int)                          {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
