package model

import "strings"

// PRStatus is the approval state of a purchase request.
type PRStatus string

// Purchase request statuses.
const (
	PRPending       PRStatus = "PENDING"
	PRInNegotiation PRStatus = "IN_NEGOTIATION"
	PRApproved      PRStatus = "APPROVED"
	PRRejected      PRStatus = "REJECTED"
)

// PRStatuses lists every purchase request status in display order.
var PRStatuses = []PRStatus{PRPending, PRInNegotiation, PRApproved, PRRejected}

// Valid reports whether s is a known purchase request status.
func (s PRStatus) Valid() bool {
	for _, known := range PRStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParsePRStatus normalizes user input into a PRStatus.
func ParsePRStatus(s string) (PRStatus, bool) {
	status := PRStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

// NegotiationStatus is the state of a negotiation.
type NegotiationStatus string

// Negotiation statuses. UnderReview, Successful and Failed are reported by
// some gateway versions and only count toward dashboard metrics.
const (
	NegotiationPending     NegotiationStatus = "PENDING"
	NegotiationInProgress  NegotiationStatus = "IN_PROGRESS"
	NegotiationApproved    NegotiationStatus = "APPROVED"
	NegotiationRejected    NegotiationStatus = "REJECTED"
	NegotiationCompleted   NegotiationStatus = "COMPLETED"
	NegotiationCanceled    NegotiationStatus = "CANCELED"
	NegotiationUnderReview NegotiationStatus = "UNDER_REVIEW"
	NegotiationSuccessful  NegotiationStatus = "SUCCESSFUL"
	NegotiationFailed      NegotiationStatus = "FAILED"
)

// NegotiationStatuses lists the statuses a user may assign when editing.
var NegotiationStatuses = []NegotiationStatus{
	NegotiationPending,
	NegotiationInProgress,
	NegotiationApproved,
	NegotiationRejected,
	NegotiationCompleted,
	NegotiationCanceled,
}

// NegotiationFilterStatuses lists the statuses offered by the list filter.
var NegotiationFilterStatuses = []NegotiationStatus{
	NegotiationPending,
	NegotiationApproved,
	NegotiationRejected,
	NegotiationCanceled,
}

// Valid reports whether s can be assigned by an edit.
func (s NegotiationStatus) Valid() bool {
	for _, known := range NegotiationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseNegotiationStatus normalizes user input into a NegotiationStatus.
func ParseNegotiationStatus(s string) (NegotiationStatus, bool) {
	status := NegotiationStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

// IsPending reports whether the negotiation still awaits a decision.
func (s NegotiationStatus) IsPending() bool {
	return s == NegotiationPending || s == NegotiationUnderReview
}

// IsCompleted reports whether the negotiation closed successfully.
func (s NegotiationStatus) IsCompleted() bool {
	return s == NegotiationApproved || s == NegotiationSuccessful
}

// IsFailed reports whether the negotiation closed without agreement.
func (s NegotiationStatus) IsFailed() bool {
	return s == NegotiationRejected || s == NegotiationFailed || s == NegotiationCanceled
}
