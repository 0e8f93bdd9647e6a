package sqlpage

import (
	"fmt"
	"strings"

	"github.com/RichardKnop/sqlpage/internal/sqltext"
)

// Dialect turns a statement into its count and page forms. Implementations
// hold configuration only and are safe for concurrent use.
type Dialect interface {
	Name() string
	// CanPage reports whether the call should be paged. It has no side effects.
	CanPage(ms *MappedStatement, sql string, parameter any) bool
	// PageParameter returns the page carried by the parameter.
	PageParameter(parameter any) (*Page, error)
	// CountSQL wraps the statement so that it returns the number of rows it
	// would produce. Bind arguments are carried over unchanged.
	CountSQL(bound *BoundSQL, parameter any) *BoundSQL
	// PageSQL orders and bounds the statement. Bind arguments are carried
	// over unchanged, offset and limit are rendered as literals.
	PageSQL(bound *BoundSQL, parameter any, bounds RowBounds, orders []Order) (*BoundSQL, error)
	// AssemblePage builds the page returned to the caller.
	AssemblePage(rows []any, page *Page, totalRows int) *Page
}

type Flavor string

const (
	Generic   Flavor = "generic"
	SQLite    Flavor = "sqlite"
	Postgres  Flavor = "postgres"
	MySQL     Flavor = "mysql"
	Oracle    Flavor = "oracle"
	SQLServer Flavor = "sqlserver"
)

var flavorAliases = map[string]Flavor{
	"generic":    Generic,
	"default":    Generic,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"postgres":   Postgres,
	"postgresql": Postgres,
	"pgx":        Postgres,
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"oracle":     Oracle,
	"sqlserver":  SQLServer,
	"mssql":      SQLServer,
}

// ParseFlavor resolves a dialect name, case insensitively, including the
// usual driver aliases.
func ParseFlavor(name string) (Flavor, bool) {
	flavor, ok := flavorAliases[strings.ToLower(strings.TrimSpace(name))]
	return flavor, ok
}

// LookupDialect resolves a dialect by name. Unknown names fall back to the
// generic dialect unless strict is set, in which case a
// *DialectUnsupportedError is returned.
func LookupDialect(name string, strict bool) (Dialect, error) {
	if strings.TrimSpace(name) == "" {
		return NewDialect(Generic), nil
	}
	flavor, ok := ParseFlavor(name)
	if !ok {
		if strict {
			return nil, &DialectUnsupportedError{Name: name}
		}
		flavor = Generic
	}
	return NewDialect(flavor), nil
}

// limitFunc appends a row limit to an already ordered statement.
type limitFunc func(sql string, offset, limit int) string

type dialect struct {
	flavor     Flavor
	syntax     sqltext.Syntax
	countAlias string
	pageAlias  string
	limit      limitFunc
}

// NewDialect returns the dialect for one of the supported flavors, the
// generic dialect for anything else.
func NewDialect(flavor Flavor) Dialect {
	switch flavor {
	case MySQL:
		return &dialect{flavor: flavor, syntax: sqltext.MySQL, countAlias: "_count_wrap_", pageAlias: "_page_wrap_", limit: limitOffsetComma}
	case Oracle:
		return &dialect{flavor: flavor, countAlias: "tmp_count", pageAlias: "tmp_wrap", limit: limitRownum}
	case SQLServer:
		return &dialect{flavor: flavor, countAlias: "_count_wrap_", pageAlias: "_page_wrap_", limit: limitOffsetFetch}
	case SQLite, Postgres:
		return &dialect{flavor: flavor, countAlias: "_count_wrap_", pageAlias: "_page_wrap_", limit: limitOffset}
	default:
		return &dialect{flavor: Generic, countAlias: "_count_wrap_", pageAlias: "_page_wrap_", limit: limitOffset}
	}
}

func (d *dialect) Name() string {
	return string(d.flavor)
}

func (d *dialect) CanPage(ms *MappedStatement, sql string, parameter any) bool {
	if ms != nil && ms.Result == ResultCount {
		return false
	}
	if _, ok := findPage(parameter); !ok {
		return false
	}
	// Locking and FOR XML/JSON clauses must stay last, so there is no place
	// to add ordering and bounds.
	return d.syntax.IsSelect(sql) && !d.syntax.HasLockingClause(sql)
}

func (d *dialect) PageParameter(parameter any) (*Page, error) {
	page, ok := findPage(parameter)
	if !ok {
		return nil, ErrMissingPageParameter
	}
	return page, nil
}

func (d *dialect) CountSQL(bound *BoundSQL, parameter any) *BoundSQL {
	sql := d.syntax.StripOrderBy(bound.SQL)
	return bound.withSQL("SELECT COUNT(*) FROM (" + sql + ") " + d.countAlias)
}

func (d *dialect) PageSQL(bound *BoundSQL, parameter any, bounds RowBounds, orders []Order) (*BoundSQL, error) {
	orderBy, err := d.orderByClause(orders)
	if err != nil {
		return nil, err
	}

	sql := d.syntax.Trim(bound.SQL)
	if d.syntax.HasRowLimit(sql) {
		// The statement limits rows itself, page over its result instead.
		sql = "SELECT * FROM (" + sql + ") " + d.pageAlias
	} else if orderBy != "" {
		sql = d.syntax.StripOrderBy(sql)
	}
	if orderBy != "" {
		sql += " " + orderBy
	}

	return bound.withSQL(d.limit(sql, bounds.Offset, bounds.Limit)), nil
}

func (d *dialect) AssemblePage(rows []any, page *Page, totalRows int) *Page {
	if rows == nil {
		rows = []any{}
	}
	return &Page{
		PageNum:   page.PageNum,
		PageSize:  page.PageSize,
		Orders:    page.Orders,
		TotalRows: totalRows,
		Rows:      rows,
	}
}

func (d *dialect) orderByClause(orders []Order) (string, error) {
	if len(orders) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(orders))
	for _, anOrder := range orders {
		if !d.syntax.IsSafeIdentifier(anOrder.Column) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeOrderColumn, anOrder.Column)
		}
		orderType := anOrder.Type
		if orderType != Desc {
			orderType = Asc
		}
		parts = append(parts, anOrder.Column+" "+orderType.String())
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

func limitOffset(sql string, offset, limit int) string {
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, limit, offset)
}

func limitOffsetComma(sql string, offset, limit int) string {
	return fmt.Sprintf("%s LIMIT %d, %d", sql, offset, limit)
}

// limitOffsetFetch needs an ORDER BY clause to attach to.
func limitOffsetFetch(sql string, offset, limit int) string {
	if _, ok := sqltext.Standard.TrailingOrderBy(sql); !ok {
		sql += " ORDER BY (SELECT NULL)"
	}
	return fmt.Sprintf("%s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", sql, offset, limit)
}

func limitRownum(sql string, offset, limit int) string {
	return fmt.Sprintf(
		"SELECT * FROM (SELECT tmp_page.*, ROWNUM row_id FROM (%s) tmp_page WHERE ROWNUM <= %d) WHERE row_id > %d",
		sql, offset+limit, offset,
	)
}
