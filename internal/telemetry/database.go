package telemetry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	dbSystemKey    = "db.system"
	dbTableKey     = "db.table"
	dbOperationKey = "db.operation"
	dbStatementKey = "db.statement"

	spanInstanceKey  = "trellis:span"
	startInstanceKey = "trellis:span_start"

	maxStatementLength = 500
)

// GORMTracingPlugin returns a GORM plugin that adds a child span for every
// statement issued under a traced context
func GORMTracingPlugin() gorm.Plugin {
	return newTracingPlugin(otel.Tracer("gorm"))
}

func newTracingPlugin(tracer trace.Tracer) *tracingPlugin {
	return &tracingPlugin{tracer: tracer}
}

type tracingPlugin struct {
	tracer trace.Tracer
}

func (p *tracingPlugin) Name() string {
	return "trellis:tracing"
}

func (p *tracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	err := errors.Join(
		cb.Query().Before("gorm:query").Register("trellis:trace_query", p.start("SELECT")),
		cb.Query().After("gorm:query").Register("trellis:trace_query_end", p.end),
		cb.Create().Before("gorm:create").Register("trellis:trace_create", p.start("INSERT")),
		cb.Create().After("gorm:create").Register("trellis:trace_create_end", p.end),
		cb.Update().Before("gorm:update").Register("trellis:trace_update", p.start("UPDATE")),
		cb.Update().After("gorm:update").Register("trellis:trace_update_end", p.end),
		cb.Delete().Before("gorm:delete").Register("trellis:trace_delete", p.start("DELETE")),
		cb.Delete().After("gorm:delete").Register("trellis:trace_delete_end", p.end),
		cb.Raw().Before("gorm:raw").Register("trellis:trace_raw", p.start("RAW")),
		cb.Raw().After("gorm:raw").Register("trellis:trace_raw_end", p.end),
	)
	if err != nil {
		return fmt.Errorf("failed to register tracing callbacks: %w", err)
	}
	return nil
}

func (p *tracingPlugin) start(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
			return
		}

		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		_, span := p.tracer.Start(ctx, "db."+strings.ToLower(operation),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String(dbSystemKey, db.Dialector.Name()),
				attribute.String(dbTableKey, table),
				attribute.String(dbOperationKey, operation),
			),
		)
		db.InstanceSet(spanInstanceKey, span)
		db.InstanceSet(startInstanceKey, time.Now())
	}
}

func (p *tracingPlugin) end(db *gorm.DB) {
	v, ok := db.InstanceGet(spanInstanceKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if v, ok := db.InstanceGet(startInstanceKey); ok {
		if started, ok := v.(time.Time); ok {
			span.SetAttributes(attribute.Int64("db.duration_ms", time.Since(started).Milliseconds()))
		}
	}
	if sql := db.Statement.SQL.String(); sql != "" {
		if len(sql) > maxStatementLength {
			sql = sql[:maxStatementLength] + "... (truncated)"
		}
		span.SetAttributes(attribute.String(dbStatementKey, sql))
	}
	if db.RowsAffected > 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}
