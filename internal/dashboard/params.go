package dashboard

import (
	"strings"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// Params is the textual form of a Query, as received from flags or a URL.
type Params struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Vendor   string `form:"vendor"`
	Event    string `form:"event"`
	Min      string `form:"min"`
	Max      string `form:"max"`
	From     string `form:"from"`
	To       string `form:"to"`
	Sort     string `form:"sort"`
	Dir      string `form:"dir"`
	Year     int    `form:"year"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// Query converts p. Without a sort column the list stays newest first.
// Malformed amounts or dates, and a range ending before it starts, yield a
// validation error.
func (p Params) Query(defaultPageSize int) (Query, error) {
	size := p.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	q := NewQuery(size)

	minAmount, err := parseBound("min", p.Min)
	if err != nil {
		return Query{}, err
	}
	maxAmount, err := parseBound("max", p.Max)
	if err != nil {
		return Query{}, err
	}

	from, err := parseDay("from", p.From)
	if err != nil {
		return Query{}, err
	}
	to, err := parseDay("to", p.To)
	if err != nil {
		return Query{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Compare(from) < 0 {
		return Query{}, common.NewValidationError("to", "End date must not be before start date")
	}

	q.Criteria = Criteria{
		Search:    strings.TrimSpace(p.Search),
		Status:    strings.ToUpper(strings.TrimSpace(p.Status)),
		Vendor:    strings.TrimSpace(p.Vendor),
		Event:     strings.TrimSpace(p.Event),
		Year:      p.Year,
		From:      from,
		To:        to,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
	}

	if col := strings.TrimSpace(p.Sort); col != "" {
		q.Sort = SortState{Column: col, Direction: ParseDirection(p.Dir)}
	}
	if p.Page > 0 {
		q.Pager.Page = p.Page
	}
	return q, nil
}

func parseBound(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, common.NewValidationError(field, "Amount must be a number")
	}
	return &d, nil
}

func parseDay(field, raw string) (model.Date, error) {
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, common.NewValidationError(field, "Date must be YYYY-MM-DD")
	}
	return d, nil
}
