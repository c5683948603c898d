package viewmode

import (
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// Resolve picks the initial mode for a route.
//
// A route id selects edit when the path has an "edit" segment and view
// otherwise. An id that is not a positive integer falls back to the list
// without fetching. Without an id, a purchase request selected in the
// session opens review; otherwise the list loads.
func Resolve(route Route, session *Session, pageSize int) (Mode, []Effect) {
	if route.ID != "" {
		id, err := ParseID(route.ID)
		if err != nil {
			return enterList(pageSize)
		}
		if route.HasSegment("edit") {
			return EditMode{ID: id, Loading: true}, []Effect{FetchNegotiation{ID: id}}
		}
		return ViewMode{ID: id, Loading: true}, []Effect{FetchNegotiation{ID: id}}
	}

	if pr, ok := session.SelectedPR(); ok {
		return NewReview(pr), []Effect{FetchReferenceData{}}
	}

	return enterList(pageSize)
}

func enterList(pageSize int) (Mode, []Effect) {
	m := ListMode{Query: dashboard.NewQuery(pageSize)}
	return m, []Effect{FetchReferenceData{}, FetchList{Query: m.Query}}
}

// NewReview opens review for pr with the allocated amount as the proposal.
func NewReview(pr model.PurchaseRequest) ReviewMode {
	return ReviewMode{
		PR:             pr,
		VendorName:     model.NotAvailable,
		EventName:      model.NotAvailable,
		ProposedAmount: pr.AllocatedAmount.String(),
	}
}

// BackToList leaves any mode for a fresh list.
func BackToList(pageSize int) (Mode, []Effect) {
	return enterList(pageSize)
}

// CancelEdit discards the draft and returns to the list.
func CancelEdit(pageSize int) (Mode, []Effect) {
	return enterList(pageSize)
}

// SwitchView moves to target. Only the list can be entered without a
// record; other targets leave current unchanged.
func SwitchView(current Mode, target Kind, pageSize int) (Mode, []Effect) {
	if target == KindList {
		return enterList(pageSize)
	}
	return current, nil
}

// LeaveReview returns to the list and clears the session.
func LeaveReview(pageSize int) (Mode, []Effect) {
	m, effects := enterList(pageSize)
	return m, append([]Effect{ClearSession{}}, effects...)
}

// OpenRecord navigates from the list to a negotiation.
func OpenRecord(id int64, edit bool) (Mode, []Effect) {
	if edit {
		return EditMode{ID: id, Loading: true}, []Effect{FetchNegotiation{ID: id}}
	}
	return ViewMode{ID: id, Loading: true}, []Effect{FetchNegotiation{ID: id}}
}

// StartEdit switches a loaded view into edit.
func StartEdit(m ViewMode) EditMode {
	e := EditMode{ID: m.ID, Record: m.Record, Err: m.Err, Loading: m.Loading}
	if m.Record != nil {
		e.Draft = DraftFrom(m.Record.Negotiation)
	}
	return e
}

// ApplyNegotiationLoaded stores a fetch result. Results for another id,
// or arriving after the mode left view/edit, are discarded. A failed
// fetch sets Err and leaves Record nil.
func ApplyNegotiationLoaded(current Mode, id int64, record *model.EnrichedNegotiation, err error) Mode {
	switch m := current.(type) {
	case ViewMode:
		if m.ID != id {
			return current
		}
		m.Loading = false
		if err != nil {
			m.Err, m.Record = err, nil
			return m
		}
		m.Err, m.Record = nil, record
		return m
	case EditMode:
		if m.ID != id {
			return current
		}
		m.Loading = false
		if err != nil {
			m.Err, m.Record = err, nil
			return m
		}
		m.Err, m.Record = nil, record
		if record != nil {
			m.Draft = DraftFrom(record.Negotiation)
		}
		return m
	default:
		return current
	}
}

// ApplyReferenceData resolves review names once vendors or events arrive.
// Either list may be nil when only the other has loaded.
func ApplyReferenceData(current Mode, vendors []model.Vendor, events []model.Event) Mode {
	m, ok := current.(ReviewMode)
	if !ok {
		return current
	}
	lookup := dashboard.NewLookup(vendors, events)
	if vendors != nil {
		m.VendorName = lookup.VendorName(m.PR.VendorID)
	}
	if events != nil {
		m.EventName = lookup.EventName(m.PR.EventID)
	}
	return m
}

// WithCriteria replaces the list criteria and returns to page 1.
func (m ListMode) WithCriteria(c dashboard.Criteria) (ListMode, []Effect) {
	m.Query.Criteria = c
	m.Query.Pager.Page = 1
	return m, nil
}

// WithSearch applies a settled search term. The gateway narrows by term,
// so the list is refetched.
func (m ListMode) WithSearch(term string) (ListMode, []Effect) {
	m.Query.Criteria.Search = term
	m.Query.Pager.Page = 1
	return m, []Effect{FetchList{Query: m.Query}}
}

// WithYear applies a year filter and refetches.
func (m ListMode) WithYear(year int) (ListMode, []Effect) {
	m.Query.Criteria.Year = year
	m.Query.Pager.Page = 1
	return m, []Effect{FetchList{Query: m.Query}}
}

// WithStatus applies a status filter locally.
func (m ListMode) WithStatus(status string) ListMode {
	m.Query.Criteria.Status = status
	m.Query.Pager.Page = 1
	return m
}

// WithAmountRange applies inclusive amount bounds locally.
func (m ListMode) WithAmountRange(lower, upper *decimal.Decimal) ListMode {
	m.Query.Criteria.MinAmount = lower
	m.Query.Criteria.MaxAmount = upper
	m.Query.Pager.Page = 1
	return m
}

// ToggleSort sorts by col, flipping direction when col is already active.
func (m ListMode) ToggleSort(col string) ListMode {
	m.Query.Sort = m.Query.Sort.Toggle(col)
	return m
}

// GoToPage moves to page. Out-of-range pages leave m unchanged.
func (m ListMode) GoToPage(page int) (ListMode, error) {
	pager, err := m.Query.Pager.GoTo(page)
	if err != nil {
		return m, err
	}
	m.Query.Pager = pager
	return m, nil
}

// NextPage moves forward one page.
func (m ListMode) NextPage() (ListMode, error) {
	return m.GoToPage(m.Query.Pager.Page + 1)
}

// PrevPage moves back one page.
func (m ListMode) PrevPage() (ListMode, error) {
	return m.GoToPage(m.Query.Pager.Page - 1)
}

// WithTotal records how many records matched so navigation can be checked.
func (m ListMode) WithTotal(total int) ListMode {
	m.Query.Pager = m.Query.Pager.WithTotal(total)
	return m
}

// Refresh asks for the list again with the current query.
func (m ListMode) Refresh() []Effect {
	return []Effect{FetchList{Query: m.Query}}
}

// AfterFetch restores newest-first ordering once a new list arrives.
func (m ListMode) AfterFetch() ListMode {
	m.Query.Sort = dashboard.NewestFirst
	return m
}
