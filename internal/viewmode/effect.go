package viewmode

import "github.com/Veraticus/prdash/internal/dashboard"

// Effect is work a transition asks the caller to perform.
type Effect interface {
	isEffect()
}

// FetchNegotiation loads one negotiation.
type FetchNegotiation struct {
	ID int64
}

// FetchReferenceData loads vendors and events.
type FetchReferenceData struct{}

// FetchList loads the negotiation list for a query.
type FetchList struct {
	Query dashboard.Query
}

// ClearSession drops transient review data.
type ClearSession struct{}

func (FetchNegotiation) isEffect()   {}
func (FetchReferenceData) isEffect() {}
func (FetchList) isEffect()          {}
func (ClearSession) isEffect()       {}
