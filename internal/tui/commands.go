package tui

import (
	"context"

	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/viewmode"
	tea "github.com/charmbracelet/bubbletea"
)

// runEffects turns controller effects into commands. List fetches get a
// new generation so older responses are dropped on arrival.
func (m *Model) runEffects(effects []viewmode.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, effect := range effects {
		switch e := effect.(type) {
		case viewmode.FetchNegotiation:
			cmds = append(cmds, m.loadNegotiation(e.ID))
		case viewmode.FetchReferenceData:
			cmds = append(cmds, m.loadVendors(), m.loadEvents())
		case viewmode.FetchList:
			m.listGen++
			m.loadingList = true
			cmds = append(cmds, m.loadNegotiations(m.listGen, e.Query))
		case viewmode.ClearSession:
			m.session.Clear()
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) loadNegotiations(gen uint64, q dashboard.Query) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		return negotiationsLoadedMsg{gen: gen, result: c.FetchList(ctx, q)}
	}
}

func (m Model) loadPurchaseRequests() tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		return purchaseRequestsLoadedMsg{result: c.FetchPurchaseRequests(ctx)}
	}
}

func (m Model) loadVendors() tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		vendors, err := c.FetchVendors(ctx)
		return vendorsLoadedMsg{vendors: vendors, err: err}
	}
}

func (m Model) loadEvents() tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		events, err := c.FetchEvents(ctx)
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (m Model) loadNegotiation(id int64) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		record, err := c.LoadNegotiation(ctx, id)
		return negotiationLoadedMsg{id: id, record: record, err: err}
	}
}

func (m Model) saveEdit(em viewmode.EditMode) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		next, effects, err := c.SaveEdit(ctx, em)
		return editSavedMsg{id: em.ID, next: next, effects: effects, err: err}
	}
}

func (m Model) changeStatus(n model.Negotiation, status model.NegotiationStatus, reason string) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		_, err := c.UpdateStatus(ctx, &n, status, reason)
		return statusChangedMsg{id: n.ID, status: status, err: err}
	}
}

func (m Model) initiate(rm viewmode.ReviewMode) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		result, err := c.Initiate(ctx, rm)
		return initiatedMsg{result: result, err: err}
	}
}

func (m Model) approvePR(id int64) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		pr, err := c.ApprovePR(ctx, id)
		return prDecidedMsg{pr: pr, err: err, action: "approved"}
	}
}

func (m Model) rejectPR(id int64, reason string) tea.Cmd {
	ctx, c := m.ctx, m.controller
	return func() tea.Msg {
		pr, err := c.RejectPR(ctx, id, reason)
		return prDecidedMsg{pr: pr, err: err, action: "rejected"}
	}
}

// waitForSearch delivers the next debounced search term.
func waitForSearch(ctx context.Context, terms <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case term := <-terms:
			return searchSettledMsg{term: term}
		case <-ctx.Done():
			return nil
		}
	}
}
