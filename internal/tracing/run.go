package tracing

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bkahlert/kommons-sub008/internal/render"
)

// Run calls fn within a span named name. The span ends with the value fn
// returns or, if fn fails, with status Error and the error recorded.
func Run[T any](ctx context.Context, tracer trace.Tracer, name string, fn func(ctx context.Context) (T, error), opts ...trace.SpanStartOption) (T, error) {
	ctx, span := tracer.Start(ctx, name, opts...)
	defer span.End()

	value, err := fn(ctx)
	finish(span, render.ReturnValueOf(value, err), err)
	return value, err
}

// Do is Run for functions without a result.
func Do(ctx context.Context, tracer trace.Tracer, name string, fn func(ctx context.Context) error, opts ...trace.SpanStartOption) error {
	ctx, span := tracer.Start(ctx, name, opts...)
	defer span.End()

	err := fn(ctx)
	finish(span, render.ReturnValueOf(nil, err), err)
	return err
}

func finish(span trace.Span, rv render.ReturnValue, err error) {
	rs, rendered := span.(*renderingSpan)
	if err != nil {
		// the failure is rendered once, by End
		if rendered {
			rs.Span.RecordError(err)
		} else {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	if rendered {
		rs.setReturnValue(rv)
	}
}
