// Package tui is the interactive negotiation dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/tui/components"
	"github.com/Veraticus/prdash/internal/tui/themes"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// screen selects which list ListMode shows.
type screen int

const (
	screenNegotiations screen = iota
	screenPurchaseRequests
)

// prompt is the single-line input currently capturing keys.
type prompt int

const (
	promptNone prompt = iota
	promptSearch
	promptAmount
	promptRejectPR
	promptRejectNegotiation
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Model holds the main TUI state.
type Model struct {
	ctx         context.Context
	now         func() time.Time
	controller  *viewmode.Controller
	cache       *dashboard.EntityCache
	session     *viewmode.Session
	debouncer   *viewmode.Debouncer
	searches    chan string
	mode        viewmode.Mode
	initCmd     tea.Cmd
	theme       themes.Theme
	keymap      KeyMap
	help        help.Model
	spinner     spinner.Model
	input       textinput.Model
	form        components.Form
	negTable    components.RecordTable
	prTable     components.RecordTable
	negRows     []model.EnrichedNegotiation
	prRows      []model.EnrichedPurchaseRequest
	prCounts    model.PRStatusCounts
	metrics     dashboard.NegotiationMetrics
	status      string
	years       []int
	prQuery     dashboard.Query
	prompt      prompt
	screen      screen
	statusKind  statusKind
	promptFor   int64
	listGen     uint64
	width       int
	height      int
	loadingList bool
	quitting    bool
}

// New builds the dashboard for the configured route. A controller is required.
func New(ctx context.Context, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Session == nil {
		cfg.Session = viewmode.NewSession()
	}

	searches := make(chan string, 1)
	m := Model{
		ctx:        ctx,
		now:        cfg.Now,
		controller: cfg.Controller,
		cache:      &dashboard.EntityCache{},
		session:    cfg.Session,
		searches:   searches,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:      textinput.New(),
		negTable:   components.NewRecordTable(negotiationColumns(), cfg.Theme),
		prTable:    components.NewRecordTable(purchaseRequestColumns(), cfg.Theme),
		prQuery:    dashboard.NewQuery(cfg.Controller.PageSize()),
		years:      dashboard.AvailableYears(cfg.Now(), 5),
		width:      cfg.Width,
		height:     cfg.Height,
	}
	m.debouncer = viewmode.NewDebouncer(cfg.SearchDebounce, func(term string) {
		// Keep only the newest term when the UI has not consumed the last one.
		for {
			select {
			case searches <- term:
				return
			default:
				select {
				case <-searches:
				default:
				}
			}
		}
	})

	mode, effects := viewmode.Resolve(viewmode.ParseRoute(cfg.Route), m.session, cfg.Controller.PageSize())
	m.mode = mode
	if rm, ok := mode.(viewmode.ReviewMode); ok {
		m.form = newReviewForm(rm)
	}
	m.initCmd = m.runEffects(effects)
	m.resize()
	return m
}

// Close stops the search debouncer.
func (m Model) Close() {
	m.debouncer.Stop()
}

// Mode returns the active view mode.
func (m Model) Mode() viewmode.Mode {
	return m.mode
}

// Init loads the first screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.initCmd,
		m.loadPurchaseRequests(),
		waitForSearch(m.ctx, m.searches),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case negotiationsLoadedMsg:
		if msg.gen != m.listGen {
			return m, nil
		}
		m.loadingList = false
		m.cache.SetNegotiations(msg.result.Negotiations)
		if msg.result.Message != "" {
			m.setStatus(statusError, msg.result.Message)
		}
		if lm, ok := m.mode.(viewmode.ListMode); ok {
			m.mode = lm.AfterFetch()
		}
		m.negTable.ResetCursor()
		m.sync()
		return m, nil

	case purchaseRequestsLoadedMsg:
		m.cache.SetPurchaseRequests(msg.result.Requests)
		if msg.result.Message != "" {
			m.setStatus(statusError, msg.result.Message)
		}
		m.sync()
		return m, nil

	case vendorsLoadedMsg:
		if msg.err == nil {
			m.cache.SetVendors(msg.vendors)
			m.mode = viewmode.ApplyReferenceData(m.mode, msg.vendors, nil)
		}
		m.sync()
		return m, nil

	case eventsLoadedMsg:
		if msg.err == nil {
			m.cache.SetEvents(msg.events)
			m.mode = viewmode.ApplyReferenceData(m.mode, nil, msg.events)
		}
		m.sync()
		return m, nil

	case negotiationLoadedMsg:
		before := m.mode
		m.mode = viewmode.ApplyNegotiationLoaded(m.mode, msg.id, msg.record, msg.err)
		if em, ok := m.mode.(viewmode.EditMode); ok && em.Record != nil {
			if prev, was := before.(viewmode.EditMode); was && prev.Loading {
				m.form = newEditForm(em.Draft)
			}
		}
		return m, nil

	case searchSettledMsg:
		next := waitForSearch(m.ctx, m.searches)
		return m, tea.Batch(m.applySearch(msg.term), next)

	case editSavedMsg:
		return m.handleEditSaved(msg)

	case statusChangedMsg:
		return m.handleStatusChanged(msg)

	case initiatedMsg:
		return m.handleInitiated(msg)

	case prDecidedMsg:
		return m.handlePRDecided(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and similar housekeeping go to whatever has focus.
	var cmd tea.Cmd
	switch {
	case m.prompt != promptNone:
		m.input, cmd = m.input.Update(msg)
	case m.hasForm():
		cmd = m.form.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m Model) hasForm() bool {
	switch m.mode.(type) {
	case viewmode.EditMode, viewmode.ReviewMode:
		return true
	}
	return false
}

// sync reruns both list pipelines over the cache and refreshes the tables.
func (m *Model) sync() {
	if lm, ok := m.mode.(viewmode.ListMode); ok {
		all := m.cache.EnrichedNegotiations()
		result := dashboard.Run(all, lm.Query, dashboard.NegotiationColumns())
		m.mode = lm.WithTotal(result.Pager.Total)
		m.negRows = result.Rows
		m.negTable.SetRows(negotiationTableRows(result.Rows))
		m.metrics = dashboard.ComputeNegotiationMetrics(all)
	}

	result := dashboard.Run(m.cache.EnrichedPurchaseRequests(), m.prQuery, dashboard.PurchaseRequestColumns())
	m.prQuery.Pager = result.Pager
	m.prRows = result.Rows
	m.prTable.SetRows(purchaseRequestTableRows(result.Rows))
	m.prCounts = model.CountPRStatuses(m.cache.PurchaseRequests())
}

func (m *Model) resize() {
	tableHeight := m.height - 12
	m.negTable.Resize(m.width, tableHeight)
	m.prTable.Resize(m.width, tableHeight)
	m.help.Width = m.width
}

// applySearch narrows the visible list. Negotiation searches refetch
// because the gateway filters by term too.
func (m *Model) applySearch(term string) tea.Cmd {
	if m.screen == screenPurchaseRequests {
		m.prQuery.Criteria.Search = term
		m.prQuery.Pager.Page = 1
		m.sync()
		return nil
	}

	lm, ok := m.mode.(viewmode.ListMode)
	if !ok || lm.Query.Criteria.Search == term {
		m.sync()
		return nil
	}
	lm, effects := lm.WithSearch(term)
	m.mode = lm
	m.sync()
	return m.runEffects(effects)
}

func (m *Model) enterList(mode viewmode.Mode, effects []viewmode.Effect) tea.Cmd {
	m.mode = mode
	m.form = components.Form{}
	m.sync()
	return m.runEffects(effects)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch mode := m.mode.(type) {
	case viewmode.ListMode:
		return m.handleListKey(mode, msg)
	case viewmode.ViewMode:
		return m.handleViewKey(mode, msg)
	case viewmode.EditMode:
		return m.handleEditKey(mode, msg)
	case viewmode.ReviewMode:
		return m.handleReviewKey(mode, msg)
	}
	return m, nil
}

func (m *Model) openPrompt(p prompt, placeholder, value string) tea.Cmd {
	m.prompt = p
	m.input = textinput.New()
	m.input.Placeholder = placeholder
	m.input.CharLimit = 200
	m.input.SetValue(value)
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptFor = 0
	m.input.Blur()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.prompt == promptRejectPR || m.prompt == promptRejectNegotiation {
			m.setStatus(statusInfo, "Rejection canceled")
		}
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		p, id := m.prompt, m.promptFor
		m.closePrompt()
		return m.submitPrompt(p, id, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.prompt == promptSearch {
		m.debouncer.Trigger(strings.TrimSpace(m.input.Value()))
	}
	return m, cmd
}

func (m Model) submitPrompt(p prompt, id int64, value string) (tea.Model, tea.Cmd) {
	switch p {
	case promptSearch:
		// Enter applies immediately instead of waiting for the debounce.
		m.debouncer.Stop()
		return m, m.applySearch(value)

	case promptAmount:
		lower, upper, err := parseAmountRange(value)
		if err != nil {
			m.setStatus(statusError, common.DisplayMessage(err))
			return m, nil
		}
		if lm, ok := m.mode.(viewmode.ListMode); ok && m.screen == screenNegotiations {
			m.mode = lm.WithAmountRange(lower, upper)
		} else {
			m.prQuery.Criteria.MinAmount, m.prQuery.Criteria.MaxAmount = lower, upper
			m.prQuery.Pager.Page = 1
		}
		m.sync()
		return m, nil

	case promptRejectPR:
		return m, m.rejectPR(id, value)

	case promptRejectNegotiation:
		if value == "" {
			m.setStatus(statusInfo, "Rejection canceled")
			return m, nil
		}
		vm, ok := m.mode.(viewmode.ViewMode)
		if !ok || vm.Record == nil || vm.ID != id {
			return m, nil
		}
		return m, m.changeStatus(vm.Record.Negotiation, model.NegotiationRejected, value)
	}
	return m, nil
}

func (m Model) handleListKey(lm viewmode.ListMode, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	onNegotiations := m.screen == screenNegotiations

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.Switch):
		if onNegotiations {
			m.screen = screenPurchaseRequests
		} else {
			m.screen = screenNegotiations
		}

	case key.Matches(msg, k.Up):
		m.activeTable().Up()

	case key.Matches(msg, k.Down):
		m.activeTable().Down()

	case key.Matches(msg, k.NextPage), key.Matches(msg, k.PrevPage):
		forward := key.Matches(msg, k.NextPage)
		if onNegotiations {
			var err error
			if forward {
				lm, err = lm.NextPage()
			} else {
				lm, err = lm.PrevPage()
			}
			if err != nil {
				m.setStatus(statusWarning, pageMessage(forward))
				return m, nil
			}
			m.mode = lm
			m.negTable.ResetCursor()
		} else {
			var (
				pager dashboard.Pager
				err   error
			)
			if forward {
				pager, err = m.prQuery.Pager.Next()
			} else {
				pager, err = m.prQuery.Pager.Prev()
			}
			if err != nil {
				m.setStatus(statusWarning, pageMessage(forward))
				return m, nil
			}
			m.prQuery.Pager = pager
			m.prTable.ResetCursor()
		}
		m.sync()

	case key.Matches(msg, k.Search):
		current := lm.Query.Criteria.Search
		if !onNegotiations {
			current = m.prQuery.Criteria.Search
		}
		return m, m.openPrompt(promptSearch, "Search by id", current)

	case key.Matches(msg, k.Amount):
		return m, m.openPrompt(promptAmount, "min-max, e.g. 100-5000", "")

	case key.Matches(msg, k.Status):
		if onNegotiations {
			m.mode = lm.WithStatus(nextStatus(lm.Query.Criteria.Status, negotiationFilterOptions()))
		} else {
			m.prQuery.Criteria.Status = nextStatus(m.prQuery.Criteria.Status, prFilterOptions())
			m.prQuery.Pager.Page = 1
		}
		m.sync()

	case key.Matches(msg, k.Year):
		if !onNegotiations {
			return m, nil
		}
		lm, effects := lm.WithYear(nextYear(lm.Query.Criteria.Year, m.years))
		m.mode = lm
		return m, m.runEffects(effects)

	case key.Matches(msg, k.Sort), key.Matches(msg, k.Reverse):
		reverse := key.Matches(msg, k.Reverse)
		if onNegotiations {
			col := lm.Query.Sort.Column
			if !reverse || col == "" {
				col = nextColumn(col, dashboard.NegotiationColumns())
			}
			m.mode = lm.ToggleSort(col)
		} else {
			col := m.prQuery.Sort.Column
			if !reverse || col == "" {
				col = nextColumn(col, dashboard.PurchaseRequestColumns())
			}
			m.prQuery.Sort = m.prQuery.Sort.Toggle(col)
		}
		m.sync()

	case key.Matches(msg, k.ClearFilter):
		if !onNegotiations {
			m.prQuery.Criteria = dashboard.Criteria{}
			m.prQuery.Pager.Page = 1
			m.sync()
			return m, nil
		}
		refetch := lm.Query.Criteria.Search != "" || lm.Query.Criteria.Year != 0
		lm, _ = lm.WithCriteria(dashboard.Criteria{})
		m.mode = lm
		m.sync()
		if refetch {
			return m, m.runEffects(lm.Refresh())
		}

	case key.Matches(msg, k.Refresh):
		if onNegotiations {
			return m, m.runEffects(lm.Refresh())
		}
		return m, m.loadPurchaseRequests()

	case key.Matches(msg, k.Open), key.Matches(msg, k.Edit):
		if onNegotiations {
			n, ok := m.selectedNegotiation()
			if !ok {
				return m, nil
			}
			mode, effects := viewmode.OpenRecord(n.ID, key.Matches(msg, k.Edit))
			m.mode = mode
			return m, m.runEffects(effects)
		}
		if key.Matches(msg, k.Edit) {
			return m, nil
		}
		pr, ok := m.selectedPR()
		if !ok {
			return m, nil
		}
		m.session.SelectPR(pr.PurchaseRequest, m.cache.Vendors(), m.cache.Events())
		mode, effects := viewmode.Resolve(viewmode.Route{}, m.session, m.controller.PageSize())
		m.mode = mode
		if rm, ok := mode.(viewmode.ReviewMode); ok {
			m.form = newReviewForm(rm)
		}
		return m, m.runEffects(effects)

	case key.Matches(msg, k.Approve):
		if pr, ok := m.selectedPR(); ok && !onNegotiations {
			return m, m.approvePR(pr.ID)
		}

	case key.Matches(msg, k.Reject):
		if pr, ok := m.selectedPR(); ok && !onNegotiations {
			cmd := m.openPrompt(promptRejectPR, "Reason for rejecting this request", "")
			m.promptFor = pr.ID
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleViewKey(vm viewmode.ViewMode, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Back), key.Matches(msg, k.Quit):
		mode, effects := viewmode.BackToList(m.controller.PageSize())
		return m, m.enterList(mode, effects)

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.Edit):
		if vm.Record == nil {
			return m, nil
		}
		em := viewmode.StartEdit(vm)
		m.mode = em
		m.form = newEditForm(em.Draft)

	case key.Matches(msg, k.Refresh):
		vm.Loading = true
		m.mode = vm
		return m, m.runEffects([]viewmode.Effect{viewmode.FetchNegotiation{ID: vm.ID}})

	case key.Matches(msg, k.Approve):
		if vm.Record != nil {
			return m, m.changeStatus(vm.Record.Negotiation, model.NegotiationApproved, "")
		}

	case key.Matches(msg, k.Reject):
		if vm.Record != nil {
			cmd := m.openPrompt(promptRejectNegotiation, "Reason for rejecting this negotiation", "")
			m.promptFor = vm.ID
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleEditKey(em viewmode.EditMode, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Back):
		mode, effects := viewmode.CancelEdit(m.controller.PageSize())
		return m, m.enterList(mode, effects)

	case key.Matches(msg, k.Save):
		if em.Loading || em.Saving || em.Record == nil {
			return m, nil
		}
		em.Draft = draftFromForm(m.form)
		em.Saving = true
		em.Err = nil
		m.mode = em
		return m, m.saveEdit(em)

	case key.Matches(msg, k.NextFld):
		return m, m.form.Next()

	case key.Matches(msg, k.PrevFld):
		return m, m.form.Prev()
	}
	return m, m.form.Update(msg)
}

func (m Model) handleReviewKey(rm viewmode.ReviewMode, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Back):
		m.screen = screenPurchaseRequests
		mode, effects := viewmode.LeaveReview(m.controller.PageSize())
		return m, m.enterList(mode, effects)

	case key.Matches(msg, k.Initiate):
		if rm.Submitting {
			return m, nil
		}
		rm.ProposedAmount = m.form.Value(0)
		rm.Notes = m.form.Value(1)
		rm.Submitting = true
		rm.Err = nil
		m.mode = rm
		return m, m.initiate(rm)

	case key.Matches(msg, k.FormOK):
		return m, m.approvePR(rm.PR.ID)

	case key.Matches(msg, k.FormNo):
		cmd := m.openPrompt(promptRejectPR, "Reason for rejecting this request", "")
		m.promptFor = rm.PR.ID
		return m, cmd

	case key.Matches(msg, k.NextFld):
		return m, m.form.Next()

	case key.Matches(msg, k.PrevFld):
		return m, m.form.Prev()
	}
	return m, m.form.Update(msg)
}

func (m Model) handleEditSaved(msg editSavedMsg) (tea.Model, tea.Cmd) {
	em, ok := m.mode.(viewmode.EditMode)
	if !ok || em.ID != msg.id {
		return m, nil
	}
	if msg.err != nil {
		em.Saving = false
		em.Err = msg.err
		m.mode = em
		m.setStatus(statusError, common.DisplayMessage(msg.err))
		return m, nil
	}
	m.setStatus(statusSuccess, fmt.Sprintf("Negotiation #%d saved", msg.id))
	return m, m.enterList(msg.next, msg.effects)
}

func (m Model) handleStatusChanged(msg statusChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(statusError, common.DisplayMessage(msg.err))
		return m, nil
	}
	m.setStatus(statusSuccess, fmt.Sprintf("Negotiation #%d marked %s", msg.id, msg.status))

	vm, ok := m.mode.(viewmode.ViewMode)
	if !ok || vm.ID != msg.id {
		return m, nil
	}
	vm.Loading = true
	m.mode = vm
	return m, m.runEffects([]viewmode.Effect{viewmode.FetchNegotiation{ID: vm.ID}})
}

func (m Model) handleInitiated(msg initiatedMsg) (tea.Model, tea.Cmd) {
	rm, ok := m.mode.(viewmode.ReviewMode)
	if !ok {
		return m, nil
	}
	if msg.err != nil {
		rm.Submitting = false
		rm.Err = msg.err
		m.mode = rm
		m.setStatus(statusError, common.DisplayMessage(msg.err))
		return m, nil
	}

	if msg.result.Warning != "" {
		m.setStatus(statusWarning, msg.result.Warning)
	} else {
		m.setStatus(statusSuccess, fmt.Sprintf("Negotiation #%d started for request #%d", msg.result.Negotiation.ID, rm.PR.ID))
	}
	m.screen = screenNegotiations
	mode, effects := viewmode.LeaveReview(m.controller.PageSize())
	return m, tea.Batch(m.enterList(mode, effects), m.loadPurchaseRequests())
}

func (m Model) handlePRDecided(msg prDecidedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, viewmode.ErrRejectionCanceled) {
			m.setStatus(statusInfo, "Rejection canceled")
		} else {
			m.setStatus(statusError, common.DisplayMessage(msg.err))
		}
		return m, nil
	}

	m.setStatus(statusSuccess, fmt.Sprintf("Purchase request #%d %s", msg.pr.ID, msg.action))
	cmds := []tea.Cmd{m.loadPurchaseRequests()}
	if _, ok := m.mode.(viewmode.ReviewMode); ok {
		m.screen = screenPurchaseRequests
		mode, effects := viewmode.LeaveReview(m.controller.PageSize())
		cmds = append(cmds, m.enterList(mode, effects))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) activeTable() *components.RecordTable {
	if m.screen == screenPurchaseRequests {
		return &m.prTable
	}
	return &m.negTable
}

func (m Model) selectedNegotiation() (model.EnrichedNegotiation, bool) {
	i := m.negTable.Cursor()
	if i < 0 || i >= len(m.negRows) {
		return model.EnrichedNegotiation{}, false
	}
	return m.negRows[i], true
}

func (m Model) selectedPR() (model.EnrichedPurchaseRequest, bool) {
	i := m.prTable.Cursor()
	if i < 0 || i >= len(m.prRows) {
		return model.EnrichedPurchaseRequest{}, false
	}
	return m.prRows[i], true
}

func pageMessage(forward bool) string {
	if forward {
		return "Already on the last page"
	}
	return "Already on the first page"
}

func negotiationFilterOptions() []string {
	out := []string{""}
	for _, s := range model.NegotiationFilterStatuses {
		out = append(out, string(s))
	}
	return out
}

func prFilterOptions() []string {
	out := []string{""}
	for _, s := range model.PRStatuses {
		out = append(out, string(s))
	}
	return out
}

// nextStatus cycles through options, where "" means no filter.
func nextStatus(current string, options []string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// nextYear cycles: all years, then each available year.
func nextYear(current int, years []int) int {
	if current == 0 && len(years) > 0 {
		return years[0]
	}
	for i, y := range years {
		if y == current && i+1 < len(years) {
			return years[i+1]
		}
	}
	return 0
}

func nextColumn[T dashboard.Record](current string, columns []dashboard.Column[T]) string {
	for i, c := range columns {
		if c.Key == current {
			return columns[(i+1)%len(columns)].Key
		}
	}
	return columns[0].Key
}

// parseAmountRange reads "min-max" where either side may be empty.
func parseAmountRange(raw string) (*decimal.Decimal, *decimal.Decimal, error) {
	if raw == "" {
		return nil, nil, nil
	}
	lo, hi, _ := strings.Cut(raw, "-")
	lower, err := optionalAmount("min", lo)
	if err != nil {
		return nil, nil, err
	}
	upper, err := optionalAmount("max", hi)
	if err != nil {
		return nil, nil, err
	}
	if lower != nil && upper != nil && lower.GreaterThan(*upper) {
		return nil, nil, common.NewValidationError("amount", "Minimum must not exceed maximum")
	}
	return lower, upper, nil
}

func optionalAmount(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, common.NewValidationError(field, "Amounts must be numbers")
	}
	return &d, nil
}

const (
	editStatus = iota
	editFinalQuote
	editDate
	editComments
	editReason
)

func newEditForm(d viewmode.NegotiationDraft) components.Form {
	statuses := make([]string, 0, len(model.NegotiationStatuses))
	for _, s := range model.NegotiationStatuses {
		statuses = append(statuses, string(s))
	}
	return components.NewForm(
		components.NewField("Status", "PENDING", string(d.Status)).
			WithHint(strings.Join(statuses, ", ")),
		components.NewField("Final quote", "0.00", d.FinalQuote).
			WithHint("Required, greater than zero"),
		components.NewField("Negotiation date", model.DateLayout, d.NegotiationDate).
			WithHint("YYYY-MM-DD"),
		components.NewField("Comments", "", d.Comments),
		components.NewField("Rejection reason", "", d.RejectionReason).
			WithHint("Stored with the rejection date when the status is REJECTED"),
	)
}

func draftFromForm(f components.Form) viewmode.NegotiationDraft {
	return viewmode.NegotiationDraft{
		Status:          model.NegotiationStatus(strings.ToUpper(f.Value(editStatus))),
		FinalQuote:      f.Value(editFinalQuote),
		NegotiationDate: f.Value(editDate),
		Comments:        f.Value(editComments),
		RejectionReason: f.Value(editReason),
	}
}

func newReviewForm(rm viewmode.ReviewMode) components.Form {
	return components.NewForm(
		components.NewField("Initial quote", "0.00", rm.ProposedAmount).
			WithHint("Defaults to the allocated amount"),
		components.NewField("Notes", "", rm.Notes),
	)
}

func negotiationColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "PR", Width: 6},
		{Title: "Event", Width: 18},
		{Title: "Vendor", Width: 18},
		{Title: "Initial", Width: 12},
		{Title: "Final", Width: 12},
		{Title: "Savings", Width: 18},
		{Title: "Status", Width: 12},
		{Title: "Date", Width: 10},
	}
}

func purchaseRequestColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Event", Width: 22},
		{Title: "Vendor", Width: 22},
		{Title: "Allocated", Width: 14},
		{Title: "Status", Width: 15},
		{Title: "Requested", Width: 10},
	}
}

func negotiationTableRows(items []model.EnrichedNegotiation) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, n := range items {
		final := "-"
		if n.FinalQuoteAmount != nil {
			final = money(*n.FinalQuoteAmount)
		}
		rows = append(rows, table.Row{
			fmt.Sprint(n.ID),
			fmt.Sprint(n.PRID),
			n.EventName,
			n.VendorName,
			money(n.InitialQuoteAmount),
			final,
			savingsText(n.Savings()),
			string(n.Status),
			n.NegotiationDate.String(),
		})
	}
	return rows
}

func purchaseRequestTableRows(items []model.EnrichedPurchaseRequest) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, r := range items {
		rows = append(rows, table.Row{
			fmt.Sprint(r.ID),
			r.EventName,
			r.VendorName,
			money(r.AllocatedAmount),
			string(r.Status),
			r.RequestDate.String(),
		})
	}
	return rows
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func savingsText(s model.Savings) string {
	if !s.Known {
		return "-"
	}
	return fmt.Sprintf("%s (%s%%)", money(s.Amount), s.Percentage.StringFixed(1))
}
