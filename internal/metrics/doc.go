// Package metrics defines the Recorder abstraction for build observability
// and a Prometheus-backed implementation. The NoopRecorder keeps metrics
// strictly optional for one-shot CLI builds.
package metrics
