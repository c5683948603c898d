package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/config"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/gateway"
	"github.com/Veraticus/prdash/internal/service"
	"github.com/Veraticus/prdash/internal/storage"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app bundles what most commands need.
type app struct {
	settings   *config.Settings
	gateway    service.Gateway
	approvals  service.ApprovalStore
	controller *viewmode.Controller
	logger     *slog.Logger
}

func (a *app) Close() {
	if a.approvals == nil {
		return
	}
	if err := a.approvals.Close(); err != nil {
		common.LogError(err, "failed to close approval store", nil)
	}
}

// newApp connects to the gateway and, when withStore is set, the approval
// store. A store that cannot be opened is logged and left out so the
// gateway-backed features keep working.
func newApp(ctx context.Context, withStore bool) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	gw, err := newGateway(settings)
	if err != nil {
		return nil, err
	}

	a := &app{settings: settings, gateway: gw, logger: slog.Default()}
	if withStore {
		store, storeErr := storage.Open(ctx, settings.Storage)
		if storeErr != nil {
			common.LogWarn(storeErr, "approval store unavailable, approval dates will not be kept", common.Fields{
				"driver": settings.Storage.Driver,
			})
		} else {
			a.approvals = store
		}
	}

	a.controller = viewmode.NewController(a.gateway, a.approvals, settings.Dashboard.PageSize, a.logger)
	return a, nil
}

func newGateway(settings *config.Settings) (service.Gateway, error) {
	var signer *gateway.TokenSigner
	if settings.Gateway.JWTSecret != "" {
		signer = gateway.NewTokenSigner(settings.Gateway.JWTSecret, settings.Gateway.Subject, 0)
	}

	client, err := gateway.NewClient(gateway.Config{
		BaseURL: settings.Gateway.BaseURL,
		Timeout: settings.Gateway.Timeout,
		Signer:  signer,
		Logger:  slog.Default(),
		Retry:   service.RetryOptions{MaxAttempts: settings.Gateway.RetryAttempts},
	})
	if err != nil {
		return nil, err
	}
	return gateway.NewCachedGateway(client, settings.Gateway.ReferenceTTL), nil
}

// addFilterFlags registers the list criteria shared by list and export commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "match record ids containing this text")
	cmd.Flags().Int("year", 0, "only records dated in this year")
	cmd.Flags().String("from", "", "only records dated on or after this day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "only records dated on or before this day (YYYY-MM-DD)")
	cmd.Flags().String("status", "", "exact status, e.g. PENDING")
	cmd.Flags().String("vendor", "", "vendor id or name contains")
	cmd.Flags().String("event", "", "event id or name contains")
	cmd.Flags().String("min", "", "minimum amount")
	cmd.Flags().String("max", "", "maximum amount")
	cmd.Flags().String("sort", "", "sort column key, e.g. date, status, prId or initialquoteamount")
	cmd.Flags().String("dir", "asc", "sort direction (asc, desc)")
}

func filterParams(cmd *cobra.Command) dashboard.Params {
	flags := cmd.Flags()
	var p dashboard.Params
	p.Search, _ = flags.GetString("search")
	p.Year, _ = flags.GetInt("year")
	p.From, _ = flags.GetString("from")
	p.To, _ = flags.GetString("to")
	p.Status, _ = flags.GetString("status")
	p.Vendor, _ = flags.GetString("vendor")
	p.Event, _ = flags.GetString("event")
	p.Min, _ = flags.GetString("min")
	p.Max, _ = flags.GetString("max")
	p.Sort, _ = flags.GetString("sort")
	p.Dir, _ = flags.GetString("dir")
	if flags.Lookup("page") != nil {
		p.Page, _ = flags.GetInt("page")
	}
	if flags.Lookup("page-size") != nil {
		p.PageSize, _ = flags.GetInt("page-size")
	}
	return p
}

// warnPageReset tells the user an out-of-range --page fell back to page 1.
func warnPageReset(w io.Writer, requested int, p dashboard.Pager) {
	fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Page %d is out of range, showing page %d of %d", requested, p.Page, p.TotalPages())))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return money(*d)
}

func parseIDArg(raw string) (int64, error) {
	id, err := viewmode.ParseID(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return id, nil
}
