// Package components holds reusable bubbletea widgets.
package components

import (
	"github.com/Veraticus/prdash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
)

// RecordTable is a themed table whose cursor the owner moves explicitly.
type RecordTable struct {
	table table.Model
}

// NewRecordTable creates a focused table with columns.
func NewRecordTable(columns []table.Column, theme themes.Theme) RecordTable {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = theme.Header.Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	return RecordTable{table: t}
}

// SetRows replaces the rows and keeps the cursor in range.
func (r *RecordTable) SetRows(rows []table.Row) {
	r.table.SetRows(rows)
	switch {
	case len(rows) == 0:
		r.table.SetCursor(0)
	case r.table.Cursor() >= len(rows):
		r.table.SetCursor(len(rows) - 1)
	case r.table.Cursor() < 0:
		r.table.SetCursor(0)
	}
}

// ResetCursor moves to the first row.
func (r *RecordTable) ResetCursor() {
	r.table.SetCursor(0)
}

// Up moves the cursor up one row.
func (r *RecordTable) Up() { r.table.MoveUp(1) }

// Down moves the cursor down one row.
func (r *RecordTable) Down() { r.table.MoveDown(1) }

// Cursor returns the selected row index.
func (r RecordTable) Cursor() int { return r.table.Cursor() }

// Len returns the number of rows.
func (r RecordTable) Len() int { return len(r.table.Rows()) }

// Resize fits the table into width by height cells.
func (r *RecordTable) Resize(width, height int) {
	if height < 3 {
		height = 3
	}
	r.table.SetWidth(width)
	r.table.SetHeight(height)
}

// View renders the table.
func (r RecordTable) View() string {
	return r.table.View()
}
