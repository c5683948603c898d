package dashboard

import (
	"slices"
	"strings"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps user input onto a Direction, defaulting to ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Descending)) {
		return Descending
	}
	return Ascending
}

// SortState is the active sort column and direction. An empty column
// leaves the input order unchanged.
type SortState struct {
	Column    string
	Direction Direction
}

// NewestFirst is the ordering applied after every list fetch.
var NewestFirst = SortState{Column: ColumnDate, Direction: Descending}

// Toggle selects col. Selecting the active column flips the direction; a
// new column starts ascending.
func (s SortState) Toggle(col string) SortState {
	if col == s.Column {
		if s.Direction == Ascending {
			return SortState{Column: col, Direction: Descending}
		}
		return SortState{Column: col, Direction: Ascending}
	}
	return SortState{Column: col, Direction: Ascending}
}

// ColumnKind selects how a column compares.
type ColumnKind int

// Column kinds.
const (
	NumericColumn ColumnKind = iota
	TextColumn
	DateColumn
)

// Column keys shared by both lists.
const (
	ColumnNegotiationID      = "negotiationId"
	ColumnPRID               = "prId"
	ColumnEventID            = "eventId"
	ColumnVendorID           = "vendorId"
	ColumnInitialQuoteAmount = "initialquoteamount"
	ColumnFinalQuoteAmount   = "finalquoteamount"
	ColumnAllocatedAmount    = "allocatedamount"
	ColumnStatus             = "status"
	ColumnDate               = "date"
)

// Column describes one sortable column.
type Column[T Record] struct {
	Number func(T) decimal.Decimal
	Text   func(T) string
	Key    string
	Title  string
	Kind   ColumnKind
}

func idColumn[T Record](key, title string, id func(T) int64) Column[T] {
	return Column[T]{
		Key:   key,
		Title: title,
		Kind:  NumericColumn,
		Number: func(r T) decimal.Decimal {
			return decimal.NewFromInt(id(r))
		},
	}
}

func statusColumn[T Record]() Column[T] {
	return Column[T]{Key: ColumnStatus, Title: "Status", Kind: TextColumn, Text: func(r T) string { return r.RecordStatus() }}
}

func dateColumn[T Record]() Column[T] {
	return Column[T]{Key: ColumnDate, Title: "Date", Kind: DateColumn}
}

// NegotiationColumns lists the sortable negotiation columns.
func NegotiationColumns() []Column[model.EnrichedNegotiation] {
	type row = model.EnrichedNegotiation
	return []Column[row]{
		idColumn(ColumnNegotiationID, "ID", func(n row) int64 { return n.ID }),
		idColumn(ColumnPRID, "PR", func(n row) int64 { return n.PRID }),
		idColumn(ColumnEventID, "Event", func(n row) int64 { return n.EventID }),
		idColumn(ColumnVendorID, "Vendor", func(n row) int64 { return n.VendorID }),
		{
			Key:    ColumnInitialQuoteAmount,
			Title:  "Initial Quote",
			Kind:   NumericColumn,
			Number: func(n row) decimal.Decimal { return n.InitialQuoteAmount },
		},
		{
			Key:   ColumnFinalQuoteAmount,
			Title: "Final Quote",
			Kind:  NumericColumn,
			Number: func(n row) decimal.Decimal {
				if n.FinalQuoteAmount == nil {
					return decimal.Zero
				}
				return *n.FinalQuoteAmount
			},
		},
		statusColumn[row](),
		dateColumn[row](),
	}
}

// PurchaseRequestColumns lists the sortable purchase request columns.
func PurchaseRequestColumns() []Column[model.EnrichedPurchaseRequest] {
	type row = model.EnrichedPurchaseRequest
	return []Column[row]{
		idColumn(ColumnPRID, "ID", func(r row) int64 { return r.ID }),
		idColumn(ColumnEventID, "Event", func(r row) int64 { return r.EventID }),
		idColumn(ColumnVendorID, "Vendor", func(r row) int64 { return r.VendorID }),
		{
			Key:    ColumnAllocatedAmount,
			Title:  "Amount",
			Kind:   NumericColumn,
			Number: func(r row) decimal.Decimal { return r.AllocatedAmount },
		},
		statusColumn[row](),
		dateColumn[row](),
	}
}

// FindColumn returns the column for key.
func FindColumn[T Record](columns []Column[T], key string) (Column[T], bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Sort returns a stably sorted copy of items. Unknown or empty columns
// return the items in their original order.
func Sort[T Record](items []T, state SortState, columns []Column[T]) []T {
	out := slices.Clone(items)
	col, ok := FindColumn(columns, state.Column)
	if !ok {
		return out
	}

	compare := columnComparator(col)
	desc := state.Direction == Descending
	slices.SortStableFunc(out, func(a, b T) int {
		c := compare(a, b)
		if desc {
			return -c
		}
		return c
	})
	return out
}

func columnComparator[T Record](col Column[T]) func(a, b T) int {
	switch col.Kind {
	case TextColumn:
		return func(a, b T) int {
			return strings.Compare(strings.ToLower(col.Text(a)), strings.ToLower(col.Text(b)))
		}
	case DateColumn:
		// Equal dates tie-break on id; negation under desc puts the higher id first.
		return func(a, b T) int {
			if c := a.RecordDate().Compare(b.RecordDate()); c != 0 {
				return c
			}
			return compareInt(a.RecordID(), b.RecordID())
		}
	default:
		return func(a, b T) int {
			return col.Number(a).Cmp(col.Number(b))
		}
	}
}
