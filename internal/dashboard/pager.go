package dashboard

import (
	"fmt"

	"github.com/Veraticus/prdash/internal/common"
)

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 10

// MaxPageLinks is how many page numbers the footer shows at once.
const MaxPageLinks = 5

// Pager is 1-indexed pagination state.
type Pager struct {
	Page  int
	Size  int
	Total int
}

// NewPager returns a pager on page 1. Sizes below 1 use DefaultPageSize.
func NewPager(size int) Pager {
	if size < 1 {
		size = DefaultPageSize
	}
	return Pager{Page: 1, Size: size}
}

func (p Pager) size() int {
	if p.Size < 1 {
		return DefaultPageSize
	}
	return p.Size
}

// TotalPages is ceil(total/size), never less than 1.
func (p Pager) TotalPages() int {
	size := p.size()
	pages := (p.Total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// WithTotal records a new item count. A page beyond the last resets to 1.
func (p Pager) WithTotal(total int) Pager {
	if total < 0 {
		total = 0
	}
	p.Total = total
	p.Size = p.size()
	if p.Page < 1 || p.Page > p.TotalPages() {
		p.Page = 1
	}
	return p
}

// GoTo moves to page. Out-of-range pages are rejected and p is returned unchanged.
func (p Pager) GoTo(page int) (Pager, error) {
	if page < 1 || page > p.TotalPages() {
		return p, fmt.Errorf("%w: page %d of %d", common.ErrPageOutOfRange, page, p.TotalPages())
	}
	p.Page = page
	return p, nil
}

// Next moves forward one page.
func (p Pager) Next() (Pager, error) {
	return p.GoTo(p.Page + 1)
}

// Prev moves back one page.
func (p Pager) Prev() (Pager, error) {
	return p.GoTo(p.Page - 1)
}

// HasNext reports whether a later page exists.
func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages()
}

// HasPrev reports whether an earlier page exists.
func (p Pager) HasPrev() bool {
	return p.Page > 1
}

// Bounds returns the half-open index range of the current page.
func (p Pager) Bounds() (start, end int) {
	size := p.size()
	page := p.Page
	if page < 1 {
		page = 1
	}
	start = (page - 1) * size
	end = start + size
	if start > p.Total {
		start = p.Total
	}
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// PageNumbers returns up to maxVisible page numbers centered on the
// current page.
func (p Pager) PageNumbers(maxVisible int) []int {
	total := p.TotalPages()
	if maxVisible < 1 {
		maxVisible = MaxPageLinks
	}

	start := p.Page - maxVisible/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > total {
		end = total
		start = end - maxVisible + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Page returns the slice of items on the pager's current page. The pager's
// Total is taken from len(items).
func Page[T any](items []T, p Pager) []T {
	p = p.WithTotal(len(items))
	start, end := p.Bounds()
	return items[start:end]
}
