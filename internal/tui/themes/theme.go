// Package themes holds the color schemes of the dashboard.
package themes

import (
	"github.com/Veraticus/prdash/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Label         lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	Box           lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, errColor, info lipgloss.Color
	foreground, subtle, border, muted, selectedText      lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Muted:      p.muted,
		Border:     p.border,
		Foreground: p.foreground,
		Error:      p.errColor,
		Warning:    p.warning,
		Success:    p.success,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Label: lipgloss.NewStyle().
			Foreground(p.secondary).
			Width(20),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedText).
			Bold(true),
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			BorderBottom(true).
			Bold(true),
		Box: lipgloss.NewStyle().
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:      lipgloss.Color("#5B8DEF"),
	secondary:    lipgloss.Color("#93b4f5"),
	success:      lipgloss.Color("#10b981"),
	warning:      lipgloss.Color("#f59e0b"),
	errColor:     lipgloss.Color("#ef4444"),
	info:         lipgloss.Color("#3b82f6"),
	foreground:   lipgloss.Color("#fafafa"),
	subtle:       lipgloss.Color("#a3a3a3"),
	border:       lipgloss.Color("#404040"),
	muted:        lipgloss.Color("#737373"),
	selectedText: lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:      lipgloss.Color("#89b4fa"),
	secondary:    lipgloss.Color("#f5c2e7"),
	success:      lipgloss.Color("#a6e3a1"),
	warning:      lipgloss.Color("#f9e2af"),
	errColor:     lipgloss.Color("#f38ba8"),
	info:         lipgloss.Color("#89dceb"),
	foreground:   lipgloss.Color("#cdd6f4"),
	subtle:       lipgloss.Color("#a6adc8"),
	border:       lipgloss.Color("#45475a"),
	muted:        lipgloss.Color("#6c7086"),
	selectedText: lipgloss.Color("#1e1e2e"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// NegotiationStatus picks the style for a negotiation status.
func (t Theme) NegotiationStatus(s model.NegotiationStatus) lipgloss.Style {
	switch {
	case s.IsCompleted():
		return t.StatusSuccess
	case s.IsFailed():
		return t.StatusError
	case s == model.NegotiationInProgress:
		return t.StatusWarning
	default:
		return t.StatusPending
	}
}

// PRStatus picks the style for a purchase request status.
func (t Theme) PRStatus(s model.PRStatus) lipgloss.Style {
	switch s {
	case model.PRApproved:
		return t.StatusSuccess
	case model.PRRejected:
		return t.StatusError
	case model.PRInNegotiation:
		return t.StatusWarning
	default:
		return t.StatusPending
	}
}

// Outcome picks the style for a savings outcome.
func (t Theme) Outcome(o model.SavingsOutcome) lipgloss.Style {
	switch o {
	case model.OutcomeSavings:
		return t.StatusSuccess
	case model.OutcomeLoss:
		return t.StatusError
	default:
		return t.Normal
	}
}
