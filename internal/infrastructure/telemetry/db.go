package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig configures query tracing and metrics.
type DBConfig struct {
	TraceEnabled       bool
	LogFullSQL         bool // include bound variables in spans, development only
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
	DBSystem           string
}

// DBConfigFrom derives the database instrumentation settings.
func DBConfigFrom(cfg config.TelemetryConfig) DBConfig {
	return DBConfig{
		TraceEnabled:       cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:         cfg.DBLogFullSQL,
		SlowQueryThreshold: cfg.DBSlowQueryThresh,
		PoolStatsInterval:  15 * time.Second,
		DBSystem:           "postgresql",
	}
}

// DBInstrumentation is a gorm plugin that adds otelgorm spans, annotates
// them with rows affected and slow query markers, and records query metrics.
type DBInstrumentation struct {
	config DBConfig
	logger *zap.Logger

	queryTotal         *Counter
	queryDuration      *Histogram
	slowQueryTotal     *Counter
	poolConnections    *Gauge
	poolConnectionsMax *Gauge

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBInstrumentation creates the plugin. Register it with db.Use.
func NewDBInstrumentation(meter metric.Meter, cfg DBConfig, logger *zap.Logger) (*DBInstrumentation, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}

	p := &DBInstrumentation{config: cfg, logger: logger, stopCh: make(chan struct{})}

	in := NewInstruments(meter)
	p.queryTotal = in.Counter("db_query_total", "Total number of database queries by operation type", "{query}")
	p.queryDuration = in.Histogram(HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	p.slowQueryTotal = in.Counter("db_slow_query_total", "Total number of slow database queries", "{query}")
	p.poolConnections = in.Gauge("db_pool_connections", "Number of connections in the pool by state", "{connection}")
	p.poolConnectionsMax = in.Gauge("db_pool_connections_max", "Maximum number of connections in the pool", "{connection}")
	if err := in.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Name implements gorm.Plugin.
func (p *DBInstrumentation) Name() string {
	return "pos:db_instrumentation"
}

// Initialize implements gorm.Plugin.
func (p *DBInstrumentation) Initialize(db *gorm.DB) error {
	if p.config.TraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
		if !p.config.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("pos_db:before_create", p.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("pos_db:after_create", p.after("INSERT")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("pos_db:before_query", p.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("pos_db:after_query", p.after("SELECT")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("pos_db:before_update", p.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("pos_db:after_update", p.after("UPDATE")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("pos_db:before_delete", p.before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("pos_db:after_delete", p.after("DELETE")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("pos_db:before_row", p.before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("pos_db:after_row", p.after("")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("pos_db:before_raw", p.before); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("pos_db:after_raw", p.after("")); err != nil {
		return err
	}

	p.logger.Info("Database instrumentation registered",
		zap.Bool("tracing", p.config.TraceEnabled),
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThreshold),
	)
	return nil
}

type queryStartKey struct{}

func (p *DBInstrumentation) before(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
}

func (p *DBInstrumentation) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		op := operation
		if op == "" {
			op = detectOperationType(db.Statement.SQL.String())
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		var elapsed time.Duration
		if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
			elapsed = time.Since(start)
		}
		slow := elapsed > p.config.SlowQueryThreshold

		p.queryTotal.Inc(ctx, AttrDBOperation.String(op))
		p.queryDuration.RecordDuration(ctx, elapsed, AttrDBOperation.String(op))
		if slow {
			p.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
		}

		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
			attribute.String("db.sql.table", table),
		)
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
		if slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThreshold.Milliseconds()),
			))
		}
	}
}

// StartPoolStats records connection pool gauges until Stop or ctx is done.
func (p *DBInstrumentation) StartPoolStats(ctx context.Context, sqlDB *sql.DB) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.config.PoolStatsInterval)
		defer ticker.Stop()

		p.recordPoolStats(ctx, sqlDB)
		for {
			select {
			case <-ticker.C:
				p.recordPoolStats(ctx, sqlDB)
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (p *DBInstrumentation) recordPoolStats(ctx context.Context, sqlDB *sql.DB) {
	stats := sqlDB.Stats()
	p.poolConnectionsMax.Record(ctx, int64(stats.MaxOpenConnections))
	p.poolConnections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	p.poolConnections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	p.poolConnections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool stats collection. Safe to call more than once.
func (p *DBInstrumentation) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.wg.Wait()
	})
}

func detectOperationType(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE", "WITH"} {
		if strings.HasPrefix(sql, op) {
			if op == "WITH" {
				return "SELECT"
			}
			return op
		}
	}
	return "OTHER"
}
