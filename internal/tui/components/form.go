package components

import (
	"strings"

	"github.com/Veraticus/prdash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Field is one labeled text input.
type Field struct {
	Label string
	Hint  string
	Input textinput.Model
}

// NewField creates a field holding value.
func NewField(label, placeholder, value string) Field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Prompt = ""
	in.SetValue(value)
	return Field{Label: label, Input: in}
}

// WithHint sets the text shown under the field while it is focused.
func (f Field) WithHint(hint string) Field {
	f.Hint = hint
	return f
}

// Form is a vertical list of fields with one focused at a time.
type Form struct {
	fields []Field
	focus  int
}

// NewForm focuses the first field.
func NewForm(fields ...Field) Form {
	f := Form{fields: fields}
	if len(fields) > 0 {
		f.fields[0].Input.Focus()
	}
	return f
}

// Focused returns the index of the focused field.
func (f Form) Focused() int { return f.focus }

// Value returns the trimmed text of field i.
func (f Form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].Input.Value())
}

// SetValue replaces the text of field i.
func (f *Form) SetValue(i int, v string) {
	if i >= 0 && i < len(f.fields) {
		f.fields[i].Input.SetValue(v)
	}
}

// Next focuses the following field, wrapping around.
func (f *Form) Next() tea.Cmd {
	return f.move(1)
}

// Prev focuses the preceding field, wrapping around.
func (f *Form) Prev() tea.Cmd {
	return f.move(-1)
}

func (f *Form) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].Input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].Input.Focus()
}

// Update forwards msg to the focused field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].Input, cmd = f.fields[f.focus].Input.Update(msg)
	return cmd
}

// View renders every field.
func (f Form) View(theme themes.Theme) string {
	var b strings.Builder
	for i, field := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = theme.Title.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(theme.Label.Render(field.Label))
		b.WriteString(field.Input.View())
		b.WriteString("\n")
		if i == f.focus && field.Hint != "" {
			b.WriteString("    ")
			b.WriteString(theme.Subtitle.Render(field.Hint))
			b.WriteString("\n")
		}
	}
	return b.String()
}
