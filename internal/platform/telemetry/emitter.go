package telemetry

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Event is one operational telemetry record.
type Event struct {
	Timestamp  time.Time
	Name       string
	Severity   Severity
	TraceID    string
	SpanID     string
	Attributes map[string]any
}

// Sink receives emitted events.
type Sink interface {
	Record(ctx context.Context, evt Event) error
}

// Emitter records operational telemetry events.
type Emitter struct {
	sink  Sink
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the sink is nil.
// Missing timestamps, severities and trace identifiers are filled in.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.sink == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	if evt.Severity == "" {
		evt.Severity = SeverityInfo
	}
	if evt.TraceID == "" && evt.SpanID == "" {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			evt.TraceID = sc.TraceID().String()
			evt.SpanID = sc.SpanID().String()
		}
	}
	return e.sink.Record(ctx, evt)
}

// LogSink writes events as single log lines.
type LogSink struct {
	Logger *log.Logger
}

// Record implements Sink.
func (s LogSink) Record(_ context.Context, evt Event) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Print(formatEvent(evt))
	return nil
}

// formatEvent renders an event as key=value pairs with sorted attributes.
func formatEvent(evt Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", evt.Timestamp.Format(time.RFC3339Nano), evt.Severity, evt.Name)
	if evt.TraceID != "" {
		fmt.Fprintf(&b, " trace_id=%s span_id=%s", evt.TraceID, evt.SpanID)
	}
	keys := make([]string, 0, len(evt.Attributes))
	for key := range evt.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, evt.Attributes[key])
	}
	return b.String()
}
