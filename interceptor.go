package sqlpage

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Interceptor pages SELECT statements whose parameter carries a *Page. It
// runs a count statement first and, unless the count is zero, the page
// statement next. Every other call is handed to the executor untouched.
type Interceptor struct {
	dialect         Dialect
	cache           StatementCache
	defaultPageSize int
	metrics         *Metrics
	logger          *zap.Logger
}

type Option func(*Interceptor)

func WithLogger(logger *zap.Logger) Option {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

func WithCache(cache StatementCache) Option {
	return func(i *Interceptor) {
		i.cache = cache
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(i *Interceptor) {
		i.metrics = metrics
	}
}

// WithDefaultPageSize sets the page size used for pages requested with a
// non positive size.
func WithDefaultPageSize(size int) Option {
	return func(i *Interceptor) {
		if size > 0 {
			i.defaultPageSize = size
		}
	}
}

func NewInterceptor(aDialect Dialect, opts ...Option) *Interceptor {
	i := newInterceptor(aDialect, opts...)
	if i.cache == nil {
		i.cache = NewLRUStatementCache(DefaultMaxCachedStatements)
	}
	return i
}

func newInterceptor(aDialect Dialect, opts ...Option) *Interceptor {
	i := &Interceptor{
		dialect:         aDialect,
		defaultPageSize: DefaultPageSize,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = zap.NewNop()
	}
	return i
}

func (i *Interceptor) Dialect() Dialect {
	return i.dialect
}

// Query runs the request through exec. Executor errors are returned as they
// are, a paged call fails as a whole if either of its two queries fails.
func (i *Interceptor) Query(ctx context.Context, req Request, exec Executor) (*Result, error) {
	if req.Statement == nil {
		return nil, ErrMissingStatement
	}

	var (
		ms    = req.Statement
		bound = req.boundSQL()
	)

	if !i.dialect.CanPage(ms, bound.SQL, req.Parameter) {
		i.logger.Sugar().With("statement", ms.ID).Debug("statement not pageable")
		i.metrics.observeQuery(i.dialect.Name(), outcomePassthrough)
		rows, err := exec.Query(ctx, ms, req.Parameter, req.Bounds, req.Bound)
		if err != nil {
			return nil, err
		}
		return &Result{Rows: rows}, nil
	}

	page, err := i.dialect.PageParameter(req.Parameter)
	if err != nil {
		i.metrics.observeQuery(i.dialect.Name(), outcomeError)
		return nil, fmt.Errorf("statement %s: %w", ms.ID, err)
	}
	page.normalize(i.defaultPageSize)

	totalRows, err := i.count(ctx, ms, req.Parameter, bound, exec)
	if err != nil {
		i.metrics.observeQuery(i.dialect.Name(), outcomeError)
		return nil, err
	}

	if totalRows == 0 {
		i.logger.Sugar().With("statement", ms.ID).Debug("count is zero, skipping page query")
		i.metrics.observeQuery(i.dialect.Name(), outcomeEmpty)
		page.PageNum = 1
		emptyPage := i.dialect.AssemblePage(nil, page, 0)
		return &Result{Rows: emptyPage.Rows, Page: emptyPage}, nil
	}

	resultPage, err := i.page(ctx, ms, req.Parameter, bound, page, totalRows, exec)
	if err != nil {
		i.metrics.observeQuery(i.dialect.Name(), outcomeError)
		return nil, err
	}
	i.metrics.observeQuery(i.dialect.Name(), outcomePaged)

	return &Result{Rows: resultPage.Rows, Page: resultPage}, nil
}

func (i *Interceptor) count(ctx context.Context, ms *MappedStatement, parameter any, bound *BoundSQL, exec Executor) (int, error) {
	key := countCacheKey(ms, parameter)
	countMs, ok := i.cache.Get(ctx, key)
	i.metrics.observeCacheLookup(ok)
	if !ok {
		countMs = ms.countStatement()
		i.cache.Put(ctx, key, countMs)
	}

	countSQL := i.dialect.CountSQL(bound, parameter)
	i.logger.Sugar().With(
		"statement", countMs.ID,
		"cached", ok,
		"sql", countSQL.SQL,
	).Debug("running count query")

	rows, err := exec.Query(ctx, countMs, parameter, DefaultRowBounds, countSQL)
	if err != nil {
		return 0, err
	}
	return countFromRows(rows)
}

func (i *Interceptor) page(ctx context.Context, ms *MappedStatement, parameter any, bound *BoundSQL, page *Page, totalRows int, exec Executor) (*Page, error) {
	pageSQL, err := i.dialect.PageSQL(bound, parameter, page.RowBounds(), page.Orders)
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", ms.ID, err)
	}
	i.logger.Sugar().With(
		"statement", ms.ID,
		"page", page.PageNum,
		"size", page.PageSize,
		"total", totalRows,
		"sql", pageSQL.SQL,
	).Debug("running page query")

	// Limits are part of the SQL now, bounding rows in memory as well would
	// apply them twice.
	rows, err := exec.Query(ctx, ms, parameter, DefaultRowBounds, pageSQL)
	if err != nil {
		return nil, err
	}
	return i.dialect.AssemblePage(rows, page, totalRows), nil
}

// countFromRows reads the total out of a count query result. No rows count
// as zero. Several rows are taken to be one row per group, as some drivers
// return for grouped statements, and their number is used. This is a best
// effort fallback, not a general GROUP BY count.
func countFromRows(rows []any) (int, error) {
	switch len(rows) {
	case 0:
		return 0, nil
	case 1:
		total, err := cast.ToIntE(rows[0])
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidCountResult, err)
		}
		return total, nil
	default:
		return len(rows), nil
	}
}
