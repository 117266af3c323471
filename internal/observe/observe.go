package observe

import (
	"context"
	"io"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("persona-bot")

// Observer handles logging and tracing
type Observer struct {
	log *bolt.Logger
}

// New creates an Observer writing to out in the given format ("json" or
// console). Unless verbose, only warnings and errors are shown.
func New(out io.Writer, format string, verbose bool) *Observer {
	var l *bolt.Logger
	if format == "json" {
		l = bolt.New(bolt.NewJSONHandler(out))
	} else {
		l = bolt.New(bolt.NewConsoleHandler(out))
	}
	if !verbose {
		l.SetLevel(bolt.WARN)
	}
	return &Observer{log: l}
}

// Discard returns an Observer that drops everything; used by tests.
func Discard() *Observer {
	return New(io.Discard, "json", false)
}

// Log returns the underlying logger
func (o *Observer) Log() *bolt.Logger {
	return o.log
}

// StartSpan starts a new OTel span
func (o *Observer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}
