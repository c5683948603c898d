package tui

import (
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/viewmode"
)

// Data loading messages.
type negotiationsLoadedMsg struct {
	result viewmode.ListResult
	gen    uint64
}

type purchaseRequestsLoadedMsg struct {
	result viewmode.PurchaseRequestResult
}

type vendorsLoadedMsg struct {
	err     error
	vendors []model.Vendor
}

type eventsLoadedMsg struct {
	err    error
	events []model.Event
}

type negotiationLoadedMsg struct {
	record *model.EnrichedNegotiation
	err    error
	id     int64
}

// searchSettledMsg carries a search term after the input went quiet.
type searchSettledMsg struct {
	term string
}

// Action results.
type editSavedMsg struct {
	next    viewmode.Mode
	err     error
	effects []viewmode.Effect
	id      int64
}

type statusChangedMsg struct {
	err    error
	status model.NegotiationStatus
	id     int64
}

type initiatedMsg struct {
	result *viewmode.InitiateResult
	err    error
}

type prDecidedMsg struct {
	pr     *model.PurchaseRequest
	err    error
	action string
}
