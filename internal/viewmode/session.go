package viewmode

import (
	"sync"

	"github.com/Veraticus/prdash/internal/model"
)

// Session holds transient navigation state: the purchase request picked
// for review and the reference lists loaded alongside it. It lives only
// as long as the process.
type Session struct {
	selected *model.PurchaseRequest
	vendors  []model.Vendor
	events   []model.Event
	mu       sync.RWMutex
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// SelectPR stores a purchase request for the review screen.
func (s *Session) SelectPR(pr model.PurchaseRequest, vendors []model.Vendor, events []model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &pr
	s.vendors = vendors
	s.events = events
}

// SelectedPR returns the stored purchase request.
func (s *Session) SelectedPR() (model.PurchaseRequest, bool) {
	if s == nil {
		return model.PurchaseRequest{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return model.PurchaseRequest{}, false
	}
	return *s.selected, true
}

// Reference returns the stored vendor and event lists.
func (s *Session) Reference() ([]model.Vendor, []model.Event) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors, s.events
}

// Clear drops everything. Called when the initiation flow is left.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.vendors = nil
	s.events = nil
}
