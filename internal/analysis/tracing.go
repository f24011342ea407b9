package analysis

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/complexity"
)

var tracer = otel.Tracer("bigocalc.analysis")

func startAnalyzeSpan(ctx context.Context, sizes int, mode bench.Mode) (context.Context, trace.Span) {
	return tracer.Start(ctx, "analysis.Analyze",
		trace.WithAttributes(
			attribute.Int("analysis.sizes", sizes),
			attribute.String("analysis.mode", string(mode)),
		),
	)
}

func setAnalyzeSpanResult(span trace.Span, res complexity.Result) {
	span.SetAttributes(
		attribute.String("analysis.best_fit", res.BestFit),
		attribute.Int("analysis.confidence", res.Confidence),
		attribute.String("analysis.regime", string(res.Regime)),
		attribute.Int("analysis.dropped", res.Dropped),
	)
}

func endAnalyzeSpanWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
