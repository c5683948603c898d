// Package viewmode is the state machine selecting between the negotiation
// list and the single-record review, view and edit screens.
//
// Modes are values. Transition functions take the current mode and return
// the next one together with the effects the caller must run; nothing here
// performs I/O except Controller.
package viewmode

import (
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
)

// Kind names a mode.
type Kind string

// Mode kinds.
const (
	KindList   Kind = "list"
	KindReview Kind = "review"
	KindView   Kind = "view"
	KindEdit   Kind = "edit"
)

// Mode is one of ListMode, ReviewMode, ViewMode or EditMode.
type Mode interface {
	Kind() Kind
	isMode()
}

// ListMode shows the filtered, sorted and paginated negotiation list.
type ListMode struct {
	Query dashboard.Query
}

// ReviewMode shows a selected purchase request before a negotiation is opened.
type ReviewMode struct {
	Err            error
	VendorName     string
	EventName      string
	ProposedAmount string
	Notes          string
	PR             model.PurchaseRequest
	Submitting     bool
}

// ViewMode shows one negotiation read-only.
type ViewMode struct {
	Record  *model.EnrichedNegotiation
	Err     error
	ID      int64
	Loading bool
}

// EditMode edits one negotiation.
type EditMode struct {
	Record  *model.EnrichedNegotiation
	Err     error
	Draft   NegotiationDraft
	ID      int64
	Loading bool
	Saving  bool
}

// Kind implements Mode.
func (ListMode) Kind() Kind { return KindList }

// Kind implements Mode.
func (ReviewMode) Kind() Kind { return KindReview }

// Kind implements Mode.
func (ViewMode) Kind() Kind { return KindView }

// Kind implements Mode.
func (EditMode) Kind() Kind { return KindEdit }

func (ListMode) isMode()   {}
func (ReviewMode) isMode() {}
func (ViewMode) isMode()   {}
func (EditMode) isMode()   {}

// RecordID returns the negotiation id a single-record mode is bound to.
func RecordID(m Mode) (int64, bool) {
	switch m := m.(type) {
	case ViewMode:
		return m.ID, true
	case EditMode:
		return m.ID, true
	default:
		return 0, false
	}
}
