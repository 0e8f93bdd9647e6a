package sqlpage

import (
	"context"
	"math"
	"time"
)

type ResultKind int

const (
	ResultRows ResultKind = iota + 1
	ResultCount
)

func (k ResultKind) String() string {
	switch k {
	case ResultRows:
		return "rows"
	case ResultCount:
		return "count"
	default:
		return "unknown"
	}
}

// countSuffix marks both the derived count statement ID and its cache key.
const countSuffix = "_count"

// MappedStatement identifies a prepared statement configuration of the host
// pipeline. The engine treats it as opaque apart from deriving count
// statements from it.
type MappedStatement struct {
	ID        string        `json:"id"`
	Source    string        `json:"source,omitempty"`
	Result    ResultKind    `json:"result"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	FetchSize int           `json:"fetch_size,omitempty"`
}

// countStatement derives the statement used to run count queries: same
// configuration, distinct identity and a single integer result.
func (ms *MappedStatement) countStatement() *MappedStatement {
	countMs := *ms
	countMs.ID = ms.ID + countSuffix
	countMs.Result = ResultCount
	return &countMs
}

// BoundSQL is a statement's SQL with all bind arguments resolved. Args are
// positional and correspond to the placeholders in SQL, AdditionalParameters
// holds bindings the host pipeline generated while rendering dynamic SQL.
type BoundSQL struct {
	SQL                  string
	Args                 []any
	AdditionalParameters map[string]any
}

// withSQL copies the bindings over to a rewritten statement.
func (b *BoundSQL) withSQL(sql string) *BoundSQL {
	rewritten := &BoundSQL{
		SQL:  sql,
		Args: append([]any(nil), b.Args...),
	}
	if b.AdditionalParameters != nil {
		rewritten.AdditionalParameters = make(map[string]any, len(b.AdditionalParameters))
		for key, value := range b.AdditionalParameters {
			rewritten.AdditionalParameters[key] = value
		}
	}
	return rewritten
}

// NoRowLimit is the limit of unbounded row bounds.
const NoRowLimit = math.MaxInt32

// RowBounds limits rows in memory after a statement has run. A non positive
// limit does not limit rows, so the zero value is unbounded.
type RowBounds struct {
	Offset int
	Limit  int
}

// DefaultRowBounds does not limit anything.
var DefaultRowBounds = RowBounds{Offset: 0, Limit: NoRowLimit}

func (r RowBounds) IsDefault() bool {
	return r.Offset <= 0 && (r.Limit <= 0 || r.Limit >= NoRowLimit)
}

// Executor is the host pipeline capability that runs a statement. The bound
// SQL overrides the statement's own source when it is not nil.
type Executor interface {
	Query(ctx context.Context, ms *MappedStatement, parameter any, bounds RowBounds, bound *BoundSQL) ([]any, error)
}

type ExecutorFunc func(ctx context.Context, ms *MappedStatement, parameter any, bounds RowBounds, bound *BoundSQL) ([]any, error)

func (f ExecutorFunc) Query(ctx context.Context, ms *MappedStatement, parameter any, bounds RowBounds, bound *BoundSQL) ([]any, error) {
	return f(ctx, ms, parameter, bounds, bound)
}

// Request is a single query call intercepted on its way to an Executor.
type Request struct {
	Statement *MappedStatement
	Parameter any
	Bounds    RowBounds
	Bound     *BoundSQL
}

func (r Request) boundSQL() *BoundSQL {
	if r.Bound != nil {
		return r.Bound
	}
	return &BoundSQL{SQL: r.Statement.Source}
}

// Result holds the rows of an intercepted call. Page is nil when the call
// was not paged, in which case Rows is exactly what the executor returned.
type Result struct {
	Rows []any
	Page *Page
}

func (r *Result) Paged() bool {
	return r.Page != nil
}
