// Package events defines the authentication notifications emitted by the OTP
// manager, the orchestrator and the session guard, and the sinks that observe them.
//
// Events are fire-and-observe: a Sink never returns an error and never changes
// the outcome of the operation that emitted the event. Use them for audit trails
// and metrics only.
//
// # Sinks
//
//   - LogSink writes one structured line per event through slog.
//   - MetricsSink increments the OpenTelemetry counter "frontdoor.events".
//   - OpenSearchSink indexes events asynchronously into "frontdoor-events".
//   - Recorder keeps events in memory for tests.
//   - Multi fans out to several sinks; Discard drops everything.
//
//	sink := events.Multi(
//		events.NewLogSink(log),
//		metricsSink,
//	)
//	sink.Emit(ctx, events.New(events.LoginFailed,
//		events.WithEmail(email),
//		events.WithReason(events.ReasonExpired),
//	))
//
// Plain email addresses are never serialized: Event.Email is excluded from JSON,
// LogSink logs a short digest and OpenSearchSink stores a SHA-256 digest.
package events
