// Package telemetry records operational events for dicetray.
//
// Operational events describe what the program did (a die was added, the
// tray was rolled) for debugging and tracing. They are written to a sink
// and never read back, so they are not a roll history: the tray state is
// the only source of truth for current results.
//
// Events carry the trace and span identifiers of the active OpenTelemetry
// span, when there is one, so log lines can be joined with exported traces.
package telemetry
