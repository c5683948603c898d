package tui

import (
	"time"

	"github.com/Veraticus/prdash/internal/tui/themes"
	"github.com/Veraticus/prdash/internal/viewmode"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Controller     *viewmode.Controller
	Session        *viewmode.Session
	Now            func() time.Time
	Route          string
	SearchDebounce time.Duration
	Width          int
	Height         int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Route:          viewmode.ListPath,
		SearchDebounce: viewmode.DefaultDebounce,
		Now:            time.Now,
		Width:          100,
		Height:         30,
	}
}

// WithController sets the controller every screen talks through.
func WithController(c *viewmode.Controller) Option {
	return func(cfg *Config) {
		cfg.Controller = c
	}
}

// WithSession shares a session, e.g. one preloaded with a purchase request.
func WithSession(s *viewmode.Session) Option {
	return func(cfg *Config) {
		cfg.Session = s
	}
}

// WithRoute sets the screen to open first, such as /negotiate/view/12.
func WithRoute(route string) Option {
	return func(cfg *Config) {
		cfg.Route = route
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(cfg *Config) {
		cfg.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(cfg *Config) {
		cfg.Width = width
		cfg.Height = height
	}
}

// WithSearchDebounce sets the quiet interval before a search applies.
func WithSearchDebounce(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.SearchDebounce = d
	}
}

// WithClock replaces time.Now, which picks the selectable years.
func WithClock(now func() time.Time) Option {
	return func(cfg *Config) {
		cfg.Now = now
	}
}
