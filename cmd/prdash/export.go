package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/config"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/export"
	"github.com/Veraticus/prdash/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultTokenFile = "$HOME/.config/prdash/sheets-token.json"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export negotiations|purchase-requests",
		Short: "Export a list to Excel, JSON or Google Sheets",
		Long: `Export every record matching the filters, sorted the same way as the
dashboard. Files are named after the list and the export time.

The sheets format needs OAuth2 credentials or a service account under
export.sheets in the config. Run 'prdash export auth' once to store a
refresh token.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"negotiations", "purchase-requests"},
		RunE:      runExport,
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("format", "f", string(export.FormatXLSX), "output format (xlsx, json, sheets)")
	cmd.Flags().StringP("output", "o", ".", "directory for xlsx and json files")
	cmd.AddCommand(exportAuthCmd())
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	rawFormat, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("output")

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Export")

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := filterParams(cmd).Query(a.settings.Dashboard.PageSize)
	if err != nil {
		return err
	}

	opts := []export.Option{export.WithProgress(cmd.ErrOrStderr()), export.WithLogger(slog.Default())}
	if format == export.FormatSheets {
		writer, sheetsErr := newSheetsWriter(cmd)
		if sheetsErr != nil {
			return sheetsErr
		}
		opts = append(opts, export.WithSheets(writer))
	}
	exporter := export.NewExporter(config.ExpandPath(dir), opts...)

	now := time.Now()
	ref := a.controller.FetchReference(ctx)
	lookup := dashboard.NewLookup(ref.Vendors, ref.Events)

	var table export.Table
	switch args[0] {
	case "negotiations":
		list := a.controller.FetchList(ctx, q)
		if list.Message != "" {
			return common.NewUserError(list.Message, nil)
		}
		result := dashboard.Run(dashboard.EnrichNegotiations(list.Negotiations, lookup), q, dashboard.NegotiationColumns())
		table = export.NegotiationTable(result.Matched, now)
	case "purchase-requests":
		fetched := a.controller.FetchPurchaseRequests(ctx)
		if fetched.Message != "" {
			return common.NewUserError(fetched.Message, nil)
		}
		result := dashboard.Run(dashboard.EnrichPurchaseRequests(fetched.Requests, lookup), q, dashboard.PurchaseRequestColumns())
		table = export.PurchaseRequestTable(result.Matched, now)
	default:
		return fmt.Errorf("unknown list %q: use negotiations or purchase-requests", args[0])
	}

	res, err := exporter.Export(ctx, format, table)
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d rows to %s", res.Rows, res.Location)))
	return nil
}

func newSheetsWriter(cmd *cobra.Command) (sheets.ReportWriter, error) {
	v := viper.GetViper()
	cfg, err := config.LoadSheetsConfig(v)
	if errors.Is(err, sheets.ErrNoAuth) {
		// Fall back to a token saved by 'prdash export auth'.
		token, tokenErr := sheets.LoadToken(config.ExpandPath(defaultTokenFile))
		if tokenErr != nil {
			return nil, fmt.Errorf("%w: run 'prdash export auth' or configure export.sheets", err)
		}
		v.Set("export.sheets.refresh_token", token.RefreshToken)
		cfg, err = config.LoadSheetsConfig(v)
	}
	if err != nil {
		return nil, err
	}

	writer, err := sheets.NewWriter(cmd.Context(), *cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func exportAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets exports",
		Long: `Run the Google OAuth2 consent flow in your browser and store the refresh
token for later sheets exports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID := viper.GetString("export.sheets.client_id")
			clientSecret := viper.GetString("export.sheets.client_secret")
			if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
				clientID = flagID
			}
			if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
				clientSecret = flagSecret
			}
			if clientID == "" {
				clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
			}
			if clientSecret == "" {
				clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("%w: export.sheets.client_id and export.sheets.client_secret", common.ErrMissingConfig)
			}

			tokenFile := config.ExpandPath(defaultTokenFile)
			out := cmd.OutOrStdout()
			token, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    tokenFile,
			}, func(authURL string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize prdash:"))
				fmt.Fprintln(out, authURL)
			})
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			common.LogInfo("google sheets authorized", common.Fields{"token_file": tokenFile})
			fmt.Fprintln(out, cli.FormatSuccess("Google Sheets is ready. Add this to your config to skip the token file:"))
			fmt.Fprintf(out, "export:\n  sheets:\n    refresh_token: %q\n", token.RefreshToken)
			return nil
		},
	}
	cmd.Flags().String("client-id", "", "OAuth2 client id (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (overrides config)")
	return cmd
}
