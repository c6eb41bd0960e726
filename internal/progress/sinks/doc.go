// Package sinks implements concrete progress consumers: Prometheus metrics,
// repository-backed import history, and structured logging. Each sink
// satisfies progress.Sink and is safe for repeated Consume/Close cycles.
package sinks
