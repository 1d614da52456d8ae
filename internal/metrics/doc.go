// Package metrics provides the observability hooks of a docpress run.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	fetcher := fetch.New(client, fetch.WithRecorder(recorder))
//
// PrometheusRecorder registers its collectors on a caller supplied registry.
// Command line runs are short lived, so instead of serving an endpoint the
// registry is written to a node_exporter textfile with WriteTextfile when
// metrics.textfile is configured.
package metrics
