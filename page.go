package sqlpage

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultPageSize = 10
)

type OrderType int

const (
	Asc OrderType = iota + 1
	Desc
)

func (o OrderType) String() string {
	switch o {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	default:
		return fmt.Sprintf("OrderType(%d)", int(o))
	}
}

// ParseOrderType accepts asc / desc in any case.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	default:
		return 0, fmt.Errorf("invalid order type %q", s)
	}
}

type Order struct {
	Column string    `json:"column"`
	Type   OrderType `json:"type"`
}

// Page is both the pagination request, carried inside a statement parameter,
// and the pagination result returned once the statement has been executed.
type Page struct {
	PageNum   int     `json:"page_num"`
	PageSize  int     `json:"page_size"`
	Orders    []Order `json:"orders,omitempty"`
	TotalRows int     `json:"total_rows"`
	Rows      []any   `json:"rows"`
}

func NewPage(pageNum, pageSize int) *Page {
	return &Page{
		PageNum:  pageNum,
		PageSize: pageSize,
	}
}

// OrderBy appends an ordering column. Orders keep insertion order, ordering
// by a column already present only changes its direction.
func (p *Page) OrderBy(column string, orderType OrderType) *Page {
	for i := range p.Orders {
		if p.Orders[i].Column == column {
			p.Orders[i].Type = orderType
			return p
		}
	}
	p.Orders = append(p.Orders, Order{Column: column, Type: orderType})
	return p
}

func (p *Page) Offset() int {
	if p.PageNum < 1 {
		return 0
	}
	return (p.PageNum - 1) * p.PageSize
}

func (p *Page) Limit() int {
	return p.PageSize
}

func (p *Page) RowBounds() RowBounds {
	return RowBounds{Offset: p.Offset(), Limit: p.Limit()}
}

// Pages returns the number of pages needed to hold TotalRows.
func (p *Page) Pages() int {
	if p.PageSize < 1 || p.TotalRows < 1 {
		return 0
	}
	return (p.TotalRows + p.PageSize - 1) / p.PageSize
}

func (p *Page) HasNext() bool {
	return p.PageNum < p.Pages()
}

func (p *Page) normalize(defaultPageSize int) {
	if p.PageNum < 1 {
		p.PageNum = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
}

// Pageable is implemented by statement parameters that carry a page next to
// their own fields.
type Pageable interface {
	PageParameter() *Page
}

// pageParameterKey is looked up first when the parameter is a map.
const pageParameterKey = "page"

func findPage(parameter any) (*Page, bool) {
	switch p := parameter.(type) {
	case nil:
		return nil, false
	case *Page:
		return p, p != nil
	case Pageable:
		page := p.PageParameter()
		return page, page != nil
	case map[string]any:
		if page, ok := p[pageParameterKey].(*Page); ok && page != nil {
			return page, true
		}
		keys := make([]string, 0, len(p))
		for key := range p {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if page, ok := p[key].(*Page); ok && page != nil {
				return page, true
			}
		}
	}
	return nil, false
}
