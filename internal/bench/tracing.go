package bench

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("bigocalc.bench")

// startBenchmarkSpan opens the span covering one Benchmark call.
func startBenchmarkSpan(ctx context.Context, sizes, iterations int, mode Mode) (context.Context, trace.Span) {
	return tracer.Start(ctx, "bench.Benchmark",
		trace.WithAttributes(
			attribute.Int("bench.sizes", sizes),
			attribute.Int("bench.iterations", iterations),
			attribute.String("bench.mode", string(mode)),
		),
	)
}

// recordSizeEvent adds one event per measured size.
func recordSizeEvent(span trace.Span, m Measurement) {
	span.AddEvent("size measured", trace.WithAttributes(
		attribute.Int("bench.n", m.N),
		attribute.Int("bench.batch_size", m.BatchSize),
		attribute.Float64("bench.mean_ms", m.Mean),
	))
}

// endSpanWithError marks the span failed.
func endSpanWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
