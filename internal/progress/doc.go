// Package progress implements the job progress channel: a single server-push
// subscription per import job, the pure message-to-transition function that
// interprets each status message, and a non-blocking hub that fans the
// resulting events out to pluggable sinks such as logs, Prometheus metrics or
// the in-memory snapshot store.
package progress
