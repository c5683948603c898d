package dashboard

// Query is the full list state fed through the pipeline.
type Query struct {
	Criteria Criteria
	Sort     SortState
	Pager    Pager
}

// NewQuery returns a query on page 1 ordered newest first.
func NewQuery(pageSize int) Query {
	return Query{Sort: NewestFirst, Pager: NewPager(pageSize)}
}

// Result is the output of one pipeline run.
type Result[T Record] struct {
	// Rows is the current page.
	Rows []T
	// Matched is every filtered and sorted record.
	Matched []T
	// Pager is the query's pager clamped to the matched count.
	Pager Pager
	// RequestedPage is the page the query asked for.
	RequestedPage int
}

// PageReset reports whether the requested page was out of range and the
// result fell back to page 1.
func (r Result[T]) PageReset() bool {
	return r.RequestedPage != r.Pager.Page
}

// Run filters, sorts and paginates enriched records.
func Run[T Record](items []T, q Query, columns []Column[T]) Result[T] {
	matched := Sort(Filter(items, q.Criteria), q.Sort, columns)
	pager := q.Pager.WithTotal(len(matched))
	start, end := pager.Bounds()
	return Result[T]{
		Rows:    matched[start:end],
		Matched: matched,
		Pager:   pager,

		RequestedPage: q.Pager.Page,
	}
}
