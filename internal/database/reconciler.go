package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"farm-backend/internal/apperr"
	"farm-backend/internal/metrics"
)

// Executor runs a single statement. *pgxpool.Pool satisfies it.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Column is one additive column: its name and SQL type definition.
type Column struct {
	Name       string
	Definition string
}

// ReconcileReport lists what one pass did to a table.
type ReconcileReport struct {
	Table    string
	Added    []string
	Existing []string
	Warnings []*apperr.SchemaDriftWarning
}

// Reconciler adds missing columns to tables that may predate the current
// schema. Each ALTER is independent and idempotent, so concurrent passes over
// the same table are safe. Failures are logged, never returned.
type Reconciler struct {
	db     Executor
	logger *zap.Logger
	done   sync.Map
}

func NewReconciler(db Executor, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{db: db, logger: logger}
}

// Reconcile attempts every column. An existing column counts as success.
func (r *Reconciler) Reconcile(ctx context.Context, table string, columns []Column) ReconcileReport {
	report := ReconcileReport{Table: table}
	ident := pgx.Identifier{table}.Sanitize()

	for _, col := range columns {
		sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			ident, pgx.Identifier{col.Name}.Sanitize(), col.Definition)

		_, err := r.db.Exec(ctx, sql)
		switch {
		case err == nil:
			report.Added = append(report.Added, col.Name)
		case apperr.PgCode(err) == apperr.CodeDuplicateColumn:
			report.Existing = append(report.Existing, col.Name)
		default:
			warning := &apperr.SchemaDriftWarning{Table: table, Column: col.Name, Err: err}
			report.Warnings = append(report.Warnings, warning)
			metrics.SchemaDriftWarnings.WithLabelValues(table).Inc()
			r.logger.Warn("schema reconciliation failed",
				zap.String("table", table),
				zap.String("column", col.Name),
				zap.Error(err))
		}
	}

	if len(report.Added) > 0 {
		r.logger.Info("added missing columns",
			zap.String("table", table),
			zap.Strings("columns", report.Added))
	}
	return report
}

// EnsureOnce reconciles table on the first call in this process. A pass that
// could not reach the store is forgotten so the next call tries again.
func (r *Reconciler) EnsureOnce(ctx context.Context, table string, columns []Column) {
	if _, loaded := r.done.LoadOrStore(table, struct{}{}); loaded {
		return
	}

	report := r.Reconcile(ctx, table, columns)
	for _, w := range report.Warnings {
		if apperr.IsConnectionError(w.Err) {
			r.done.Delete(table)
			return
		}
	}
}
