package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/Kiepon/store-backend/pkg/database"

	// DefaultSlowQueryThreshold is the duration above which a query is
	// logged as slow.
	DefaultSlowQueryThreshold = 200 * time.Millisecond
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	begin time.Time
}

// QueryTracer implements pgx.QueryTracer. Every query gets a client span;
// failed queries are logged at error level and queries slower than the
// threshold at warn level.
type QueryTracer struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

// NewQueryTracer builds a tracer logging through logger. A zero threshold
// disables slow query warnings.
func NewQueryTracer(logger *slog.Logger, slowThreshold time.Duration) *QueryTracer {
	return &QueryTracer{
		logger:        logger,
		slowThreshold: slowThreshold,
	}
}

// TraceQueryStart records the statement and start time and opens a span.
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, _ = otel.Tracer(tracerName).Start(ctx, "db.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", data.SQL),
		),
	)

	return context.WithValue(ctx, queryStartKey{}, queryStart{
		sql:   data.SQL,
		begin: time.Now(),
	})
}

// TraceQueryEnd closes the span and logs failures and slow queries.
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
	}
	span.End()

	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(start.begin)

	if data.Err != nil {
		t.logger.ErrorContext(ctx, "query failed",
			slog.String("statement", start.sql),
			slog.Duration("duration", elapsed),
			slog.String("error", data.Err.Error()),
		)
		return
	}

	if t.slowThreshold > 0 && elapsed >= t.slowThreshold {
		t.logger.WarnContext(ctx, "slow query",
			slog.String("statement", start.sql),
			slog.Duration("duration", elapsed),
		)
	}
}
