package dashboard

import (
	"strconv"
	"strings"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// Criteria narrows a list. Zero-valued fields impose no constraint.
type Criteria struct {
	From      model.Date
	To        model.Date
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Search    string
	Vendor    string
	Event     string
	Status    string
	Year      int
}

// IsEmpty reports whether the criteria constrain nothing.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" &&
		strings.TrimSpace(c.Vendor) == "" &&
		strings.TrimSpace(c.Event) == "" &&
		strings.TrimSpace(c.Status) == "" &&
		c.Year == 0 &&
		c.From.IsZero() &&
		c.To.IsZero() &&
		c.MinAmount == nil &&
		c.MaxAmount == nil
}

// Filter returns the records matching every criterion, in input order.
func Filter[T Record](items []T, c Criteria) []T {
	out := make([]T, 0, len(items))
	m := newMatcher(c)
	for _, item := range items {
		if m.match(item) {
			out = append(out, item)
		}
	}
	return out
}

type matcher struct {
	from   model.Date
	to     model.Date
	min    *decimal.Decimal
	max    *decimal.Decimal
	search string
	vendor string
	event  string
	status string
	year   int
}

func newMatcher(c Criteria) matcher {
	return matcher{
		search: strings.ToLower(strings.TrimSpace(c.Search)),
		vendor: strings.ToLower(strings.TrimSpace(c.Vendor)),
		event:  strings.ToLower(strings.TrimSpace(c.Event)),
		status: strings.TrimSpace(c.Status),
		year:   c.Year,
		from:   c.From,
		to:     c.To,
		min:    c.MinAmount,
		max:    c.MaxAmount,
	}
}

func (m matcher) match(r Record) bool {
	if m.search != "" && !strings.Contains(strconv.FormatInt(r.RecordID(), 10), m.search) {
		return false
	}
	if m.vendor != "" {
		id, name := r.VendorRef()
		if !idOrNameContains(id, name, m.vendor) {
			return false
		}
	}
	if m.event != "" {
		id, name := r.EventRef()
		if !idOrNameContains(id, name, m.event) {
			return false
		}
	}
	if m.status != "" && r.RecordStatus() != m.status {
		return false
	}
	if m.min != nil && r.RecordAmount().LessThan(*m.min) {
		return false
	}
	if m.max != nil && r.RecordAmount().GreaterThan(*m.max) {
		return false
	}
	if m.year != 0 || !m.from.IsZero() || !m.to.IsZero() {
		return m.matchDate(r.RecordDate())
	}
	return true
}

// matchDate applies the year and the inclusive date range. Undated
// records never match a date constraint.
func (m matcher) matchDate(date model.Date) bool {
	switch {
	case date.IsZero():
		return false
	case m.year != 0 && date.Year() != m.year:
		return false
	case !m.from.IsZero() && date.Compare(m.from) < 0:
		return false
	case !m.to.IsZero() && date.Compare(m.to) > 0:
		return false
	}
	return true
}

func idOrNameContains(id int64, name, needle string) bool {
	return strings.Contains(strconv.FormatInt(id, 10), needle) ||
		strings.Contains(strings.ToLower(name), needle)
}
