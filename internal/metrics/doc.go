// Package metrics records build metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	builder := site.NewBuilder(cfg) // NoopRecorder
//	builder = builder.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The preview server exposes the registry through HTTPHandler when
// serve.metrics is enabled.
package metrics
