package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current mode.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch mode := m.mode.(type) {
	case viewmode.ListMode:
		body = m.renderList(mode)
	case viewmode.ViewMode:
		body = m.renderDetail(mode)
	case viewmode.EditMode:
		body = m.renderEdit(mode)
	case viewmode.ReviewMode:
		body = m.renderReview(mode)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderPrompt(),
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Procurement Negotiations")
	if _, ok := m.mode.(viewmode.ListMode); !ok {
		return title
	}

	tab := func(label string, active bool) string {
		if active {
			return m.theme.Selected.Padding(0, 1).Render(label)
		}
		return m.theme.Subtitle.Padding(0, 1).Render(label)
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		tab("Negotiations", m.screen == screenNegotiations),
		tab(fmt.Sprintf("Purchase Requests (%d)", m.prCounts.Total), m.screen == screenPurchaseRequests),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, tabs)
}

func (m Model) renderList(lm viewmode.ListMode) string {
	if m.screen == screenPurchaseRequests {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderPRCounts(),
			m.renderFilters(m.prQuery),
			m.prTable.View(),
			m.renderPager(m.prQuery.Pager, len(m.prRows)),
		)
	}

	table := m.negTable.View()
	switch {
	case m.loadingList:
		table = m.spinner.View() + " Loading negotiations..."
	case len(m.negRows) == 0:
		table = m.theme.Subtitle.Render("No negotiations match the current filters.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderMetrics(),
		m.renderFilters(lm.Query),
		table,
		m.renderPager(lm.Query.Pager, len(m.negRows)),
	)
}

func (m Model) renderMetrics() string {
	card := func(label string, value string, style lipgloss.Style) string {
		return m.theme.RoundedBox.Padding(0, 1).Render(
			m.theme.Subtitle.Render(label) + "\n" + style.Render(value),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", fmt.Sprint(m.metrics.Total), m.theme.Bold),
		card("Pending", fmt.Sprint(m.metrics.Pending), m.theme.StatusPending),
		card("Completed", fmt.Sprint(m.metrics.Completed), m.theme.StatusSuccess),
		card("Failed", fmt.Sprint(m.metrics.Failed), m.theme.StatusError),
		card("Total savings", money(m.metrics.TotalSavings), m.theme.Bold),
	)
}

func (m Model) renderPRCounts() string {
	c := m.prCounts
	parts := []string{
		m.theme.PRStatus(model.PRPending).Render(fmt.Sprintf("Pending %d", c.Pending)),
		m.theme.PRStatus(model.PRInNegotiation).Render(fmt.Sprintf("In negotiation %d", c.InNegotiation)),
		m.theme.PRStatus(model.PRApproved).Render(fmt.Sprintf("Approved %d", c.Approved)),
		m.theme.PRStatus(model.PRRejected).Render(fmt.Sprintf("Rejected %d", c.Rejected)),
	}
	return strings.Join(parts, "  ")
}

// renderFilters summarizes the active criteria and sort.
func (m Model) renderFilters(q dashboard.Query) string {
	c := q.Criteria
	var parts []string
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", c.Search))
	}
	if c.Status != "" {
		parts = append(parts, "status "+c.Status)
	}
	if c.Year != 0 {
		parts = append(parts, fmt.Sprintf("year %d", c.Year))
	}
	if c.MinAmount != nil || c.MaxAmount != nil {
		lo, hi := "any", "any"
		if c.MinAmount != nil {
			lo = money(*c.MinAmount)
		}
		if c.MaxAmount != nil {
			hi = money(*c.MaxAmount)
		}
		parts = append(parts, fmt.Sprintf("amount %s-%s", lo, hi))
	}
	filters := "no filters"
	if len(parts) > 0 {
		filters = strings.Join(parts, ", ")
	}

	sort := ""
	if q.Sort.Column != "" {
		arrow := "↑"
		if q.Sort.Direction == dashboard.Descending {
			arrow = "↓"
		}
		sort = fmt.Sprintf("  sorted by %s %s", q.Sort.Column, arrow)
	}
	return m.theme.Subtitle.Render(filters + sort)
}

func (m Model) renderPager(p dashboard.Pager, shown int) string {
	if p.Total == 0 {
		return ""
	}
	var links []string
	for _, n := range p.PageNumbers(dashboard.MaxPageLinks) {
		label := fmt.Sprint(n)
		if n == p.Page {
			links = append(links, m.theme.Selected.Render("["+label+"]"))
		} else {
			links = append(links, m.theme.Normal.Render(label))
		}
	}
	start, _ := p.Bounds()
	summary := fmt.Sprintf("Showing %d-%d of %d", start+1, start+shown, p.Total)
	return m.theme.Subtitle.Render(summary) + "  " + strings.Join(links, " ")
}

func (m Model) renderDetail(vm viewmode.ViewMode) string {
	switch {
	case vm.Loading:
		return m.spinner.View() + fmt.Sprintf(" Loading negotiation #%d...", vm.ID)
	case vm.Err != nil:
		return m.theme.StatusError.Render(common.DisplayMessage(vm.Err))
	case vm.Record == nil:
		return m.theme.Subtitle.Render("Negotiation not found")
	}
	return m.theme.Box.Render(m.renderRecord(*vm.Record))
}

func (m Model) renderRecord(n model.EnrichedNegotiation) string {
	row := func(label, value string) string {
		return m.theme.Label.Render(label) + value
	}

	final := "-"
	if n.FinalQuoteAmount != nil {
		final = money(*n.FinalQuoteAmount)
	}
	savings := n.Savings()

	rows := []string{
		m.theme.Bold.Render(fmt.Sprintf("Negotiation #%d", n.ID)),
		"",
		row("Purchase request", fmt.Sprintf("#%d", n.PRID)),
		row("Event", n.EventName),
		row("Vendor", n.VendorName),
		row("Vendor contact", contact(n.VendorEmail, n.VendorPhone)),
		row("Status", m.theme.NegotiationStatus(n.Status).Render(string(n.Status))),
		row("Negotiation date", n.NegotiationDate.String()),
		row("Initial quote", money(n.InitialQuoteAmount)),
		row("Final quote", final),
		row("Savings", m.theme.Outcome(savings.Outcome).Render(savingsText(savings))),
	}
	if n.Comments != "" {
		rows = append(rows, row("Comments", n.Comments))
	}
	if n.ApprovalDate != nil {
		rows = append(rows, row("Approved on", n.ApprovalDate.String()))
	}
	if n.RejectionDate != nil {
		rows = append(rows, row("Rejected on", n.RejectionDate.String()))
	}
	if n.RejectionReason != "" {
		rows = append(rows, row("Rejection reason", n.RejectionReason))
	}
	return strings.Join(rows, "\n")
}

func contact(email, phone string) string {
	var parts []string
	for _, p := range []string{email, phone} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return model.NotAvailable
	}
	return strings.Join(parts, " / ")
}

func (m Model) renderEdit(em viewmode.EditMode) string {
	switch {
	case em.Loading:
		return m.spinner.View() + fmt.Sprintf(" Loading negotiation #%d...", em.ID)
	case em.Record == nil:
		if em.Err != nil {
			return m.theme.StatusError.Render(common.DisplayMessage(em.Err))
		}
		return m.theme.Subtitle.Render("Negotiation not found")
	}

	header := m.theme.Bold.Render(fmt.Sprintf("Edit negotiation #%d", em.ID)) + "  " +
		m.theme.Subtitle.Render(fmt.Sprintf("%s / %s, initial quote %s",
			em.Record.EventName, em.Record.VendorName, money(em.Record.InitialQuoteAmount)))

	parts := []string{header, "", m.form.View(m.theme)}
	if em.Saving {
		parts = append(parts, m.spinner.View()+" Saving...")
	}
	if em.Err != nil {
		parts = append(parts, m.theme.StatusError.Render(common.DisplayMessage(em.Err)))
	}
	return m.theme.Box.Render(strings.Join(parts, "\n"))
}

func (m Model) renderReview(rm viewmode.ReviewMode) string {
	row := func(label, value string) string {
		return m.theme.Label.Render(label) + value
	}
	parts := []string{
		m.theme.Bold.Render(fmt.Sprintf("Review purchase request #%d", rm.PR.ID)),
		"",
		row("Event", rm.EventName),
		row("Vendor", rm.VendorName),
		row("Allocated amount", money(rm.PR.AllocatedAmount)),
		row("Status", m.theme.PRStatus(rm.PR.Status).Render(string(rm.PR.Status))),
		row("Requested", rm.PR.RequestDate.String()),
		"",
		m.form.View(m.theme),
	}
	if rm.Submitting {
		parts = append(parts, m.spinner.View()+" Starting negotiation...")
	}
	if rm.Err != nil {
		parts = append(parts, m.theme.StatusError.Render(common.DisplayMessage(rm.Err)))
	}
	return m.theme.Box.Render(strings.Join(parts, "\n"))
}

func (m Model) renderPrompt() string {
	if m.prompt == promptNone {
		return ""
	}
	labels := map[prompt]string{
		promptSearch:            "Search: ",
		promptAmount:            "Amount: ",
		promptRejectPR:          "Reject request: ",
		promptRejectNegotiation: "Reject negotiation: ",
	}
	return m.theme.Bold.Render(labels[m.prompt]) + m.input.View()
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	style := m.theme.StatusInfo
	switch m.statusKind {
	case statusSuccess:
		style = m.theme.StatusSuccess
	case statusWarning:
		style = m.theme.StatusWarning
	case statusError:
		style = m.theme.StatusError
	}
	return style.Render(m.status)
}

func (m Model) renderHelp() string {
	var keys help.KeyMap = m.keymap
	switch m.mode.(type) {
	case viewmode.EditMode:
		keys = formKeys{k: m.keymap, extra: []key.Binding{m.keymap.Save}}
	case viewmode.ReviewMode:
		keys = formKeys{k: m.keymap, extra: []key.Binding{m.keymap.Initiate, m.keymap.FormOK, m.keymap.FormNo}}
	case viewmode.ViewMode:
		keys = bindings{m.keymap.Edit, m.keymap.Approve, m.keymap.Reject, m.keymap.Refresh, m.keymap.Back}
	}
	return m.help.View(keys)
}
