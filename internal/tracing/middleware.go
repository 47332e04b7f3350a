package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tkaster/curio/internal/registry/command"
	"github.com/tkaster/curio/internal/registry/processor"
)

// Span and attribute names used by the command pipeline.
const (
	SpanPrefixOp = "curio.op."

	AttrCommandID     = "curio.command.id"
	AttrCommandType   = "curio.command.type"
	AttrCommandSource = "curio.command.source"
)

// NewMiddleware creates middleware that opens a span per processed command,
// records the outcome, and restores a parent span context carried by the
// command so API-submitted operations link back to their HTTP request.
//
// With a nil tracer the middleware is a pass-through with no overhead.
func NewMiddleware(tracer trace.Tracer) processor.Middleware {
	if tracer == nil {
		return func(next processor.Handler) processor.Handler {
			return next
		}
	}

	return func(next processor.Handler) processor.Handler {
		return processor.HandlerFunc(func(ctx context.Context, cmd command.Command) (*command.Result, error) {
			ctx = restoreSpanContext(ctx, cmd)

			spanName := fmt.Sprintf("%s%s", SpanPrefixOp, cmd.Type())
			ctx, span := tracer.Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			span.SetAttributes(
				attribute.String(AttrCommandID, cmd.ID()),
				attribute.String(AttrCommandType, cmd.Type().String()),
			)
			if hasSource, ok := cmd.(interface{ Source() command.Source }); ok {
				span.SetAttributes(attribute.String(AttrCommandSource, hasSource.Source().String()))
			}

			result, err := next.Handle(ctx, cmd)

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case result != nil && !result.Success:
				if result.Error != nil {
					span.RecordError(result.Error)
					span.SetStatus(codes.Error, result.Error.Error())
				} else {
					span.SetStatus(codes.Error, "operation failed without error details")
				}
			default:
				span.SetStatus(codes.Ok, "")
			}

			return result, err
		})
	}
}

// restoreSpanContext restores a span context carried by the command. If the
// command holds a valid span context the new span becomes its child.
func restoreSpanContext(ctx context.Context, cmd command.Command) context.Context {
	if hasSpanContext, ok := cmd.(interface{ SpanContext() trace.SpanContext }); ok {
		sc := hasSpanContext.SpanContext()
		if sc.IsValid() {
			return trace.ContextWithRemoteSpanContext(ctx, sc)
		}
	}
	return ctx
}
