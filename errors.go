package sqlpage

import (
	"fmt"
)

var (
	// ErrMissingPageParameter means a dialect accepted a statement for paging
	// but no page could be located in its parameter afterwards.
	ErrMissingPageParameter = fmt.Errorf("page parameter not found")
	// ErrInvalidCountResult is returned when a count statement yields a
	// single value that cannot be read as an integer.
	ErrInvalidCountResult = fmt.Errorf("invalid count result")
	// ErrUnsafeOrderColumn is returned when an order column is not a plain,
	// optionally qualified or quoted, identifier.
	ErrUnsafeOrderColumn = fmt.Errorf("unsafe order column")
	// ErrMissingStatement is returned for requests without a statement.
	ErrMissingStatement = fmt.Errorf("request has no statement")
)

// DialectUnsupportedError is returned while resolving configuration when a
// dialect is required by name and no such dialect exists.
type DialectUnsupportedError struct {
	Name string
}

func (e *DialectUnsupportedError) Error() string {
	return fmt.Sprintf("unsupported dialect %q", e.Name)
}
