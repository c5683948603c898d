package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/spf13/cobra"
)

func negotiationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "negotiations",
		Aliases: []string{"neg"},
		Short:   "List, show and update negotiations",
	}

	cmd.AddCommand(negotiationsListCmd())
	cmd.AddCommand(negotiationsShowCmd())
	cmd.AddCommand(negotiationsEditCmd())
	cmd.AddCommand(negotiationsStatusCmd())
	return cmd
}

func negotiationsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List negotiations newest first",
		Long: `List negotiations with the same filters, sorting and paging as the dashboard.

Search, year and the --from/--to range are sent to the gateway; the
remaining filters are applied locally after vendor and event names are
resolved. Every filter is applied locally as well.`,
		RunE: runNegotiationsList,
	}
	addFilterFlags(cmd)
	cmd.Flags().Int("page", 1, "page to show")
	cmd.Flags().Int("page-size", 0, "rows per page (default: dashboard.page_size)")
	return cmd
}

func runNegotiationsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := filterParams(cmd).Query(a.settings.Dashboard.PageSize)
	if err != nil {
		return err
	}

	list := a.controller.FetchList(ctx, q)
	if list.Message != "" {
		return common.NewUserError(list.Message, nil)
	}
	ref := a.controller.FetchReference(ctx)
	all := dashboard.EnrichNegotiations(list.Negotiations, dashboard.NewLookup(ref.Vendors, ref.Events))
	result := dashboard.Run(all, q, dashboard.NegotiationColumns())

	out := cmd.OutOrStdout()
	if len(result.Rows) == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("No negotiations match the current filters."))
		return nil
	}

	if result.PageReset() {
		warnPageReset(out, result.RequestedPage, result.Pager)
	}
	writeNegotiationTable(out, result.Rows)
	metrics := dashboard.ComputeNegotiationMetrics(all)
	fmt.Fprintf(out, "\nPage %d of %d, %d matching. Total %d, pending %d, completed %d, failed %d, savings %s\n",
		result.Pager.Page, result.Pager.TotalPages(), result.Pager.Total,
		metrics.Total, metrics.Pending, metrics.Completed, metrics.Failed, money(metrics.TotalSavings))
	return nil
}

func writeNegotiationTable(w io.Writer, items []model.EnrichedNegotiation) {
	headers := []string{"ID", "PR", "Event", "Vendor", "Initial", "Final", "Savings", "Status", "Date"}
	rows := make([][]string, 0, len(items))
	for i := range items {
		n := &items[i]
		rows = append(rows, []string{
			fmt.Sprint(n.ID),
			fmt.Sprint(n.PRID),
			n.EventName,
			n.VendorName,
			money(n.InitialQuoteAmount),
			optionalMoney(n.FinalQuoteAmount),
			savingsText(n.Savings()),
			cli.FormatStatus(string(n.Status)),
			n.NegotiationDate.String(),
		})
	}
	fmt.Fprint(w, cli.RenderTable(headers, rows))
}

func savingsText(s model.Savings) string {
	if !s.Known {
		return "-"
	}
	return fmt.Sprintf("%s (%s%%)", money(s.Amount), s.Percentage.StringFixed(1))
}

func negotiationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one negotiation with its approval details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.controller.LoadNegotiation(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderBox(fmt.Sprintf("Negotiation #%d", n.ID), negotiationDetail(*n)))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func negotiationDetail(n model.EnrichedNegotiation) string {
	lines := []string{
		fmt.Sprintf("Purchase request: #%d", n.PRID),
		"Event:            " + n.EventName,
		"Vendor:           " + n.VendorName,
		"Status:           " + string(n.Status),
		"Negotiation date: " + n.NegotiationDate.String(),
		"Initial quote:    " + money(n.InitialQuoteAmount),
		"Final quote:      " + optionalMoney(n.FinalQuoteAmount),
		"Savings:          " + savingsText(n.Savings()),
	}
	if n.VendorEmail != "" || n.VendorPhone != "" {
		lines = append(lines, "Contact:          "+strings.TrimSpace(n.VendorEmail+" "+n.VendorPhone))
	}
	if n.Comments != "" {
		lines = append(lines, "Comments:         "+n.Comments)
	}
	if n.ApprovalDate != nil {
		lines = append(lines, "Approved on:      "+n.ApprovalDate.String())
	}
	if n.RejectionDate != nil {
		lines = append(lines, "Rejected on:      "+n.RejectionDate.String())
	}
	if n.RejectionReason != "" {
		lines = append(lines, "Reason:           "+n.RejectionReason)
	}
	return strings.Join(lines, "\n")
}

func negotiationsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update the outcome of a negotiation",
		Long: `Update status, final quote, date and comments of a negotiation.

Unset flags keep the stored value. The final quote is required and must be
greater than zero, and rejecting requires --reason. A status change to
approved or rejected stamps the decision date in the
local approval store.`,
		Args: cobra.ExactArgs(1),
		RunE: runNegotiationsEdit,
	}
	cmd.Flags().String("status", "", "new status")
	cmd.Flags().String("final-quote", "", "final quote amount")
	cmd.Flags().String("date", "", "negotiation date (YYYY-MM-DD)")
	cmd.Flags().String("comments", "", "comments")
	cmd.Flags().String("reason", "", "rejection reason")
	return cmd
}

func runNegotiationsEdit(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.controller.LoadNegotiation(ctx, id)
	if err != nil {
		return err
	}
	em := viewmode.StartEdit(viewmode.ViewMode{ID: id, Record: record})

	flags := cmd.Flags()
	if flags.Changed("status") {
		status, _ := flags.GetString("status")
		em.Draft.Status = model.NegotiationStatus(strings.ToUpper(strings.TrimSpace(status)))
	}
	if flags.Changed("final-quote") {
		em.Draft.FinalQuote, _ = flags.GetString("final-quote")
	}
	if flags.Changed("date") {
		em.Draft.NegotiationDate, _ = flags.GetString("date")
	}
	if flags.Changed("comments") {
		em.Draft.Comments, _ = flags.GetString("comments")
	}
	if flags.Changed("reason") {
		em.Draft.RejectionReason, _ = flags.GetString("reason")
	}

	if _, _, err := a.controller.SaveEdit(ctx, em); err != nil {
		return err
	}
	common.LogInfo("negotiation updated", common.Fields{"negotiation_id": id, "status": em.Draft.Status})
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Negotiation #%d saved", id)))
	return nil
}

func negotiationsStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change only the status of a negotiation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			status, ok := model.ParseNegotiationStatus(args[1])
			if !ok {
				return common.NewValidationError("status", "Unknown status "+args[1])
			}
			reason, _ := cmd.Flags().GetString("reason")

			ctx := cmd.Context()
			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.gateway.GetNegotiation(ctx, id)
			if err != nil {
				return err
			}
			if status == model.NegotiationRejected && strings.TrimSpace(reason) == "" {
				reason, err = cli.NewNonBlockingReader(cmd.InOrStdin()).Ask(ctx, cmd.OutOrStdout(), "Reason for rejection")
				if err != nil {
					return err
				}
				if reason == "" {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Rejection canceled"))
					return nil
				}
			}

			if _, err := a.controller.UpdateStatus(ctx, n, status, reason); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Negotiation #%d marked %s", id, status)))
			return nil
		},
	}
	cmd.Flags().String("reason", "", "rejection reason")
	return cmd
}
