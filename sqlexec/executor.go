// Package sqlexec runs sqlpage statements against database/sql.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/RichardKnop/sqlpage"
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor materialises rows as map[string]any keyed by column name, and
// count statements as one int64 per returned row. Non default row bounds are
// applied in memory while reading rows.
type Executor struct {
	db     Queryer
	logger *zap.Logger
}

func New(db Queryer, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		db:     db,
		logger: logger,
	}
}

func (e *Executor) Query(ctx context.Context, ms *sqlpage.MappedStatement, parameter any, bounds sqlpage.RowBounds, bound *sqlpage.BoundSQL) ([]any, error) {
	if bound == nil {
		bound = &sqlpage.BoundSQL{SQL: ms.Source}
	}
	if ms.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ms.Timeout)
		defer cancel()
	}

	e.logger.Sugar().With(
		"statement", ms.ID,
		"sql", bound.SQL,
		"args", len(bound.Args),
	).Debug("executing statement")

	rows, err := e.db.QueryContext(ctx, bound.SQL, bound.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var (
		results = make([]any, 0, capacity(ms, bounds))
		skipped = 0
	)
	for rows.Next() {
		if !bounds.IsDefault() {
			if skipped < bounds.Offset {
				skipped++
				continue
			}
			if bounds.Limit > 0 && len(results) >= bounds.Limit {
				break
			}
		}

		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		if ms.Result == sqlpage.ResultCount {
			if len(values) == 0 {
				return nil, fmt.Errorf("count statement %s returned no columns", ms.ID)
			}
			results = append(results, normalizeValue(values[0]))
			continue
		}

		aRow := make(map[string]any, len(columns))
		for i, column := range columns {
			aRow[column] = normalizeValue(values[i])
		}
		results = append(results, aRow)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func capacity(ms *sqlpage.MappedStatement, bounds sqlpage.RowBounds) int {
	if !bounds.IsDefault() && bounds.Limit > 0 && bounds.Limit < 1024 {
		return bounds.Limit
	}
	if ms.FetchSize > 0 {
		return ms.FetchSize
	}
	return 0
}

// normalizeValue turns driver owned byte slices into strings.
func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
