package dashboard

import (
	"testing"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func amountPtr(v int64) *decimal.Decimal {
	d := amount(v)
	return &d
}

func negotiation(id int64, status model.NegotiationStatus, date model.Date) model.EnrichedNegotiation {
	return model.EnrichedNegotiation{
		Negotiation: model.Negotiation{
			ID:                 id,
			Status:             status,
			NegotiationDate:    date,
			InitialQuoteAmount: amount(id * 100),
		},
	}
}

func ids[T Record](items []T) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.RecordID())
	}
	return out
}

func sampleNegotiations() []model.EnrichedNegotiation {
	d := func(day int) model.Date { return model.NewDate(2024, time.March, day) }
	return []model.EnrichedNegotiation{
		negotiation(3, model.NegotiationPending, d(3)),
		negotiation(1, model.NegotiationRejected, d(1)),
		negotiation(12, model.NegotiationApproved, d(5)),
		negotiation(4, model.NegotiationRejected, d(2)),
		negotiation(21, model.NegotiationCompleted, model.NewDate(2023, time.December, 30)),
	}
}

func TestEnrichNegotiations(t *testing.T) {
	lookup := NewLookup(
		[]model.Vendor{{ID: 1, Name: "Acme", Email: "sales@acme.test"}},
		[]model.Event{{ID: 9, Name: "Summit"}},
	)
	day := model.NewDate(2024, time.May, 1)

	enriched := EnrichNegotiations([]model.Negotiation{
		{ID: 5, VendorID: 1, EventID: 9, NegotiationDate: day},
		{ID: 7, VendorID: 2, EventID: 8, NegotiationDate: day},
		{ID: 2, VendorID: 1, EventID: 9, NegotiationDate: model.NewDate(2024, time.June, 1)},
		{VendorID: 1, NegotiationDate: day},
	}, lookup)

	require.Len(t, enriched, 4)
	assert.Equal(t, []int64{2, 7, 5, 0}, ids(enriched), "date desc, then id desc with missing id as 0")

	byID := map[int64]model.EnrichedNegotiation{}
	for _, n := range enriched {
		byID[n.ID] = n
	}
	assert.Equal(t, "Acme", byID[5].VendorName)
	assert.Equal(t, "Summit", byID[5].EventName)
	assert.Equal(t, "sales@acme.test", byID[5].VendorEmail)
	assert.Equal(t, model.NotAvailable, byID[5].VendorPhone)
	assert.Equal(t, model.NotAvailable, byID[7].VendorName)
	assert.Equal(t, model.NotAvailable, byID[7].EventName)
}

func TestEnrichPurchaseRequestsNilLookup(t *testing.T) {
	enriched := EnrichPurchaseRequests([]model.PurchaseRequest{{ID: 1, VendorID: 3}}, nil)
	require.Len(t, enriched, 1)
	assert.Equal(t, model.NotAvailable, enriched[0].VendorName)
	assert.Equal(t, model.NotAvailable, enriched[0].EventName)
}

func TestFilterIdentity(t *testing.T) {
	items := sampleNegotiations()
	got := Filter(items, Criteria{})
	assert.Equal(t, ids(items), ids(got))
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Search: "  "}.IsEmpty())
}

func TestFilterStatusPreservesOrder(t *testing.T) {
	items := []model.EnrichedNegotiation{
		negotiation(1, model.NegotiationPending, model.Date{}),
		negotiation(2, model.NegotiationRejected, model.Date{}),
		negotiation(3, model.NegotiationApproved, model.Date{}),
		negotiation(4, model.NegotiationRejected, model.Date{}),
	}

	got := Filter(items, Criteria{Status: "REJECTED"})
	assert.Equal(t, []int64{2, 4}, ids(got))
	assert.Len(t, items, 4, "input is not mutated")
}

func TestFilterCriteria(t *testing.T) {
	items := sampleNegotiations()
	items[0].VendorName = "Northwind Traders"
	items[0].VendorID = 77
	items[2].EventName = "Annual Summit"
	items[2].EventID = 5

	tests := []struct {
		name     string
		criteria Criteria
		want     []int64
	}{
		{name: "id substring", criteria: Criteria{Search: "1"}, want: []int64{1, 12, 21}},
		{name: "vendor by name case-insensitive", criteria: Criteria{Vendor: "northWIND"}, want: []int64{3}},
		{name: "vendor by id", criteria: Criteria{Vendor: "77"}, want: []int64{3}},
		{name: "event by name", criteria: Criteria{Event: "summit"}, want: []int64{12}},
		{name: "min amount inclusive", criteria: Criteria{MinAmount: amountPtr(400)}, want: []int64{12, 4, 21}},
		{name: "max amount inclusive", criteria: Criteria{MaxAmount: amountPtr(300)}, want: []int64{3, 1}},
		{name: "amount range", criteria: Criteria{MinAmount: amountPtr(300), MaxAmount: amountPtr(1200)}, want: []int64{3, 12, 4}},
		{name: "year", criteria: Criteria{Year: 2023}, want: []int64{21}},
		{name: "date range inclusive", criteria: Criteria{From: model.NewDate(2024, time.March, 2), To: model.NewDate(2024, time.March, 3)}, want: []int64{3, 4}},
		{name: "from only", criteria: Criteria{From: model.NewDate(2024, time.March, 3)}, want: []int64{3, 12}},
		{name: "to only", criteria: Criteria{To: model.NewDate(2024, time.January, 1)}, want: []int64{21}},
		{name: "conjunction", criteria: Criteria{Status: "REJECTED", Year: 2024, Search: "4"}, want: []int64{4}},
		{name: "no match", criteria: Criteria{Status: "CANCELED"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(items, tt.criteria)))
		})
	}
}

func TestFilterYearSkipsMissingDates(t *testing.T) {
	items := []model.EnrichedNegotiation{negotiation(1, model.NegotiationPending, model.Date{})}
	assert.Empty(t, Filter(items, Criteria{Year: 1}))
	assert.Empty(t, Filter(items, Criteria{To: model.NewDate(2024, time.March, 1)}))
	assert.False(t, Criteria{From: model.NewDate(2024, time.March, 1)}.IsEmpty())
}

func TestSortDateTieBreak(t *testing.T) {
	day := model.NewDate(2024, time.April, 1)
	items := []model.EnrichedNegotiation{
		negotiation(5, model.NegotiationPending, day),
		negotiation(7, model.NegotiationPending, day),
	}
	cols := NegotiationColumns()

	desc := Sort(items, SortState{Column: ColumnDate, Direction: Descending}, cols)
	assert.Equal(t, []int64{7, 5}, ids(desc))

	asc := Sort(items, SortState{Column: ColumnDate, Direction: Ascending}, cols)
	assert.Equal(t, []int64{5, 7}, ids(asc))
}

func TestSortColumns(t *testing.T) {
	items := sampleNegotiations()
	items[1].FinalQuoteAmount = amountPtr(50)
	items[2].FinalQuoteAmount = amountPtr(10)
	cols := NegotiationColumns()

	tests := []struct {
		state SortState
		name  string
		want  []int64
	}{
		{name: "id ascending", state: SortState{Column: ColumnNegotiationID, Direction: Ascending}, want: []int64{1, 3, 4, 12, 21}},
		{name: "initial quote descending", state: SortState{Column: ColumnInitialQuoteAmount, Direction: Descending}, want: []int64{21, 12, 4, 3, 1}},
		{name: "final quote treats missing as zero", state: SortState{Column: ColumnFinalQuoteAmount, Direction: Ascending}, want: []int64{3, 4, 21, 12, 1}},
		{name: "status is stable for equal keys", state: SortState{Column: ColumnStatus, Direction: Ascending}, want: []int64{12, 21, 3, 1, 4}},
		{name: "date descending", state: NewestFirst, want: []int64{12, 3, 4, 1, 21}},
		{name: "unknown column keeps order", state: SortState{Column: "bogus", Direction: Descending}, want: []int64{3, 1, 12, 4, 21}},
		{name: "empty column keeps order", state: SortState{}, want: []int64{3, 1, 12, 4, 21}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(items, tt.state, cols)))
		})
	}
}

func TestSortIdempotent(t *testing.T) {
	cols := NegotiationColumns()
	for _, col := range cols {
		for _, dir := range []Direction{Ascending, Descending} {
			state := SortState{Column: col.Key, Direction: dir}
			once := Sort(sampleNegotiations(), state, cols)
			twice := Sort(once, state, cols)
			assert.Equal(t, ids(once), ids(twice), "%s %s", col.Key, dir)
		}
	}
}

func TestSortStatusCaseInsensitive(t *testing.T) {
	items := []model.EnrichedPurchaseRequest{
		{PurchaseRequest: model.PurchaseRequest{ID: 1, Status: "rejected"}},
		{PurchaseRequest: model.PurchaseRequest{ID: 2, Status: "APPROVED"}},
		{PurchaseRequest: model.PurchaseRequest{ID: 3, Status: "Pending"}},
	}
	got := Sort(items, SortState{Column: ColumnStatus, Direction: Ascending}, PurchaseRequestColumns())
	assert.Equal(t, []int64{2, 3, 1}, ids(got))
}

func TestSortStateToggle(t *testing.T) {
	s := SortState{}
	s = s.Toggle(ColumnStatus)
	assert.Equal(t, SortState{Column: ColumnStatus, Direction: Ascending}, s)
	s = s.Toggle(ColumnStatus)
	assert.Equal(t, Descending, s.Direction)
	s = s.Toggle(ColumnStatus)
	assert.Equal(t, Ascending, s.Direction)

	s = NewestFirst.Toggle(ColumnPRID)
	assert.Equal(t, SortState{Column: ColumnPRID, Direction: Ascending}, s)

	assert.Equal(t, Descending, ParseDirection("DESC"))
	assert.Equal(t, Ascending, ParseDirection("sideways"))
}

func TestPagerScenario(t *testing.T) {
	p := NewPager(10).WithTotal(23)
	assert.Equal(t, 3, p.TotalPages())

	p, err := p.GoTo(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)

	same, err := p.GoTo(4)
	assert.ErrorIs(t, err, common.ErrPageOutOfRange)
	assert.Equal(t, p, same)

	_, err = p.Next()
	assert.ErrorIs(t, err, common.ErrPageOutOfRange)

	p, err = p.Prev()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page)

	_, err = NewPager(10).WithTotal(23).Prev()
	assert.ErrorIs(t, err, common.ErrPageOutOfRange)
}

func TestPagerEmptyAndClamp(t *testing.T) {
	empty := NewPager(10).WithTotal(0)
	assert.Equal(t, 1, empty.TotalPages())
	assert.Equal(t, 1, empty.Page)
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrev())

	p := Pager{Page: 5, Size: 10}.WithTotal(12)
	assert.Equal(t, 1, p.Page, "page beyond the last resets to 1")

	p = Pager{Page: 0, Size: 0}.WithTotal(12)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Size)
}

func TestPagesPartitionCollection(t *testing.T) {
	items := make([]model.EnrichedNegotiation, 23)
	for i := range items {
		items[i] = negotiation(int64(i+1), model.NegotiationPending, model.Date{})
	}

	pager := NewPager(10).WithTotal(len(items))
	seen := map[int64]bool{}
	var union []int64
	for page := 1; page <= pager.TotalPages(); page++ {
		p, err := pager.GoTo(page)
		require.NoError(t, err)
		rows := Page(items, p)
		assert.LessOrEqual(t, len(rows), 10)
		for _, id := range ids(rows) {
			assert.False(t, seen[id], "id %d appears on two pages", id)
			seen[id] = true
			union = append(union, id)
		}
	}
	assert.Equal(t, ids(items), union)
	assert.Len(t, Page(items, Pager{Page: 3, Size: 10}), 3)
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name  string
		want  []int
		page  int
		total int
	}{
		{name: "single page", page: 1, total: 0, want: []int{1}},
		{name: "fewer pages than links", page: 2, total: 30, want: []int{1, 2, 3}},
		{name: "start", page: 1, total: 100, want: []int{1, 2, 3, 4, 5}},
		{name: "middle", page: 6, total: 100, want: []int{4, 5, 6, 7, 8}},
		{name: "end", page: 10, total: 100, want: []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pager{Page: tt.page, Size: 10, Total: tt.total}
			assert.Equal(t, tt.want, p.PageNumbers(MaxPageLinks))
		})
	}
}

func TestRun(t *testing.T) {
	items := sampleNegotiations()
	q := NewQuery(2)
	q.Criteria.Year = 2024
	q.Pager.Page = 2

	res := Run(items, q, NegotiationColumns())
	assert.Equal(t, []int64{12, 3, 4, 1}, ids(res.Matched))
	assert.Equal(t, []int64{4, 1}, ids(res.Rows))
	assert.Equal(t, 2, res.Pager.TotalPages())
	assert.Equal(t, 4, res.Pager.Total)
	assert.False(t, res.PageReset())

	q.Criteria.Status = "APPROVED"
	res = Run(items, q, NegotiationColumns())
	assert.Equal(t, 1, res.Pager.Page, "page resets when the filter shrinks the list")
	assert.True(t, res.PageReset())
	assert.Equal(t, 2, res.RequestedPage)
	assert.Equal(t, []int64{12}, ids(res.Rows))
}

func TestComputeNegotiationMetrics(t *testing.T) {
	items := sampleNegotiations()
	items[2].FinalQuoteAmount = amountPtr(1000)
	items = append(items,
		negotiation(30, model.NegotiationUnderReview, model.Date{}),
		negotiation(31, model.NegotiationFailed, model.Date{}),
		negotiation(32, model.NegotiationInProgress, model.Date{}),
	)

	m := ComputeNegotiationMetrics(items)
	assert.Equal(t, 8, m.Total)
	assert.Equal(t, 2, m.Pending)
	assert.Equal(t, 1, m.Completed)
	assert.Equal(t, 3, m.Failed)
	assert.Equal(t, "200", m.TotalSavings.String())
}

func TestAvailableYears(t *testing.T) {
	now := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{2026, 2025, 2024, 2023, 2022}, AvailableYears(now, 5))
	assert.Len(t, AvailableYears(now, 0), 5)
}

func TestEntityCache(t *testing.T) {
	var c EntityCache
	c.SetNegotiations([]model.Negotiation{{ID: 1, VendorID: 2}})
	assert.Equal(t, model.NotAvailable, c.EnrichedNegotiations()[0].VendorName)

	c.SetVendors([]model.Vendor{{ID: 2, Name: "Acme"}})
	assert.Equal(t, "Acme", c.EnrichedNegotiations()[0].VendorName)

	c.SetEvents([]model.Event{{ID: 3, Name: "Expo"}})
	c.SetPurchaseRequests([]model.PurchaseRequest{{ID: 4, EventID: 3}})
	assert.Equal(t, "Expo", c.EnrichedPurchaseRequests()[0].EventName)
	assert.Len(t, c.PurchaseRequests(), 1)
	assert.Len(t, c.Vendors(), 1)
	assert.Len(t, c.Events(), 1)
}
