package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/tui"
	"github.com/Veraticus/prdash/internal/tui/themes"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"tui", "ui"},
		Short:   "Open the interactive negotiation dashboard",
		Long: `Open the full-screen dashboard.

--route opens a specific screen, e.g. /negotiate/view/12 or
/negotiate/edit/12. --pr opens review for a purchase request.
Logs are written to logging.file while the dashboard runs.`,
		RunE: runDashboard,
	}

	cmd.Flags().String("route", viewmode.ListPath, "screen to open first")
	cmd.Flags().Int64("pr", 0, "purchase request to review")
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))
	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	logFile, err := redirectLogs(a.settings.Logging.File, a.settings.Logging.Level, a.settings.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	route, _ := cmd.Flags().GetString("route")
	session := viewmode.NewSession()
	if prID, _ := cmd.Flags().GetInt64("pr"); prID != 0 {
		if _, err := a.controller.LoadReview(ctx, session, prID); err != nil {
			return err
		}
		route = viewmode.ListPath
	}

	common.LogInfo("starting dashboard", common.Fields{"route": route, "gateway": a.settings.Gateway.BaseURL})
	return tui.Run(ctx,
		tui.WithController(a.controller),
		tui.WithSession(session),
		tui.WithRoute(route),
		tui.WithTheme(themes.GetTheme(viper.GetString("dashboard.theme"))),
		tui.WithSearchDebounce(a.settings.Dashboard.SearchDebounce),
	)
}

// redirectLogs points the default logger at path so log lines do not
// corrupt the alternate screen.
func redirectLogs(path, level, format string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	common.SetupLogger(f, common.ParseLevel(level), format)
	return f, nil
}
