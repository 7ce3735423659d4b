package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second

	// maxStatementLen caps the statement text recorded on spans.
	maxStatementLen = 256
)

var (
	dbTracer = otel.Tracer("finclusion.db")
	dbMeter  = otel.Meter("finclusion.db")
)

// DB is the application's Postgres handle. Every query is traced and the
// pool is reported through the finclusion.db.* gauges.
type DB struct {
	*sql.DB
}

func New(connStr string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.registerPoolMetrics(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

func (db *DB) registerPoolMetrics() error {
	open, err := dbMeter.Int64ObservableGauge("finclusion.db.connections.open",
		metric.WithDescription("Connections currently open in the pool"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	inUse, err := dbMeter.Int64ObservableGauge("finclusion.db.connections.in_use",
		metric.WithDescription("Connections currently serving a query"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	waits, err := dbMeter.Int64ObservableCounter("finclusion.db.connections.waits",
		metric.WithDescription("Requests that had to wait for a free connection"))
	if err != nil {
		return fmt.Errorf("failed to create pool counter: %w", err)
	}

	_, err = dbMeter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool metrics: %w", err)
	}
	return nil
}

// startSpan opens a client span describing query. Literals are redacted
// from the recorded statement.
func startSpan(ctx context.Context, name, query string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", extractSQLVerb(query)),
		attribute.String("db.statement", redactStatement(query)),
	}
	if table := statementTable(query); table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", table))
	}
	return dbTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

// finishSpan ends span. A lookup that found nothing is not an error: the
// repositories turn it into (nil, nil) or a not-found sentinel.
func finishSpan(span trace.Span, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		span.SetAttributes(attribute.Bool("db.no_rows", true))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// BeginTx opens a transaction under one span. The span ends when the
// returned end func is called.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, func(), error) {
	ctx, span := dbTracer.Start(ctx, "db.Tx", trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))

	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		finishSpan(span, err)
		return nil, nil, err
	}
	return tx, func() { span.End() }, nil
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, span := startSpan(ctx, "db.Query", query)
	rows, err := db.DB.QueryContext(ctx, query, args...)
	finishSpan(span, err)
	return rows, err
}

// tracedRow keeps the span open until Scan, where sql.Row reports its
// errors (including sql.ErrNoRows).
type tracedRow struct {
	row  *sql.Row
	span trace.Span
}

func (r *tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		finishSpan(r.span, err)
		r.span = nil
	}
	return err
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *tracedRow {
	ctx, span := startSpan(ctx, "db.QueryRow", query)
	return &tracedRow{row: db.DB.QueryRowContext(ctx, query, args...), span: span}
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, span := startSpan(ctx, "db.Exec", query)
	result, err := db.DB.ExecContext(ctx, query, args...)
	finishSpan(span, err)
	return result, err
}

// redactStatement masks string and numeric literals so recorded statements
// never carry emails, amounts or tokens. $N placeholders are kept.
func redactStatement(q string) string {
	var b strings.Builder
	b.Grow(len(q))

	for i := 0; i < len(q); {
		c := q[i]
		switch {
		case c == '\'':
			b.WriteString("'?'")
			i = skipStringLiteral(q, i+1)
		case isDigit(c) && (i == 0 || !isIdentChar(q[i-1])):
			b.WriteByte('?')
			for i < len(q) && (isDigit(q[i]) || q[i] == '.') {
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}

	s := b.String()
	if len(s) > maxStatementLen {
		return s[:maxStatementLen] + "..."
	}
	return s
}

// skipStringLiteral returns the index just past the literal starting at i.
// A doubled quote is an escaped quote.
func skipStringLiteral(q string, i int) int {
	for i < len(q) {
		if q[i] != '\'' {
			i++
			continue
		}
		if i+1 < len(q) && q[i+1] == '\'' {
			i += 2
			continue
		}
		return i + 1
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || c == '_' || c == '$'
}

func extractSQLVerb(q string) string {
	q = strings.TrimSpace(q)
	if idx := strings.IndexAny(q, " \t\n"); idx > 0 {
		return strings.ToUpper(q[:idx])
	}
	return strings.ToUpper(q)
}

// statementTable names the first table a statement reads or writes.
func statementTable(q string) string {
	fields := strings.Fields(q)
	for i := 0; i+1 < len(fields); i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE":
			return strings.ToLower(strings.Trim(fields[i+1], `"(),;`))
		}
	}
	return ""
}
