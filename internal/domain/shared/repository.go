package shared

// Filter holds common list filtering options
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}

// DefaultFilter returns a filter with sane pagination defaults
func DefaultFilter() Filter {
	return Filter{Limit: 50, Offset: 0}
}

// Paginated wraps a page of results with the total row count
type Paginated[T any] struct {
	Items  []T
	Total  int64
	Limit  int
	Offset int
}
