package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/viewmode"
	"github.com/spf13/cobra"
)

func purchaseRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Aliases: []string{"purchase-requests"},
		Short:   "Manage purchase requests",
	}

	cmd.AddCommand(prListCmd())
	cmd.AddCommand(prCreateCmd())
	cmd.AddCommand(prApproveCmd())
	cmd.AddCommand(prRejectCmd())
	cmd.AddCommand(prInitiateCmd())
	return cmd
}

func prListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase requests with status counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			fetched := a.controller.FetchPurchaseRequests(ctx)
			if fetched.Message != "" {
				return common.NewUserError(fetched.Message, nil)
			}
			ref := a.controller.FetchReference(ctx)
			all := dashboard.EnrichPurchaseRequests(fetched.Requests, dashboard.NewLookup(ref.Vendors, ref.Events))
			result := dashboard.Run(all, q, dashboard.PurchaseRequestColumns())

			out := cmd.OutOrStdout()
			if len(result.Rows) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No purchase requests match the current filters."))
				return nil
			}
			if result.PageReset() {
				warnPageReset(out, result.RequestedPage, result.Pager)
			}
			writePurchaseRequestTable(out, result.Rows)

			c := model.CountPRStatuses(fetched.Requests)
			fmt.Fprintf(out, "\nPage %d of %d. Total %d, pending %d, in negotiation %d, approved %d, rejected %d\n",
				result.Pager.Page, result.Pager.TotalPages(),
				c.Total, c.Pending, c.InNegotiation, c.Approved, c.Rejected)
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().Int("page", 1, "page to show")
	cmd.Flags().Int("page-size", 0, "rows per page (default: dashboard.page_size)")
	return cmd
}

func writePurchaseRequestTable(w io.Writer, items []model.EnrichedPurchaseRequest) {
	headers := []string{"ID", "Event", "Vendor", "Allocated", "Status", "Requested"}
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{
			fmt.Sprint(r.ID),
			r.EventName,
			r.VendorName,
			money(r.AllocatedAmount),
			cli.FormatStatus(string(r.Status)),
			r.RequestDate.String(),
		})
	}
	fmt.Fprint(w, cli.RenderTable(headers, rows))
}

func prCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a purchase request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eventID, _ := cmd.Flags().GetInt64("event")
			vendorID, _ := cmd.Flags().GetInt64("vendor")
			amount, _ := cmd.Flags().GetString("amount")

			ctx := cmd.Context()
			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			pr, err := a.controller.CreatePurchaseRequest(ctx, eventID, vendorID, amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Purchase request #%d created for %s", pr.ID, money(pr.AllocatedAmount))))
			return nil
		},
	}
	cmd.Flags().Int64("event", 0, "event id")
	cmd.Flags().Int64("vendor", 0, "vendor id")
	cmd.Flags().String("amount", "", "allocated amount")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("vendor")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func prApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a purchase request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				ok, askErr := cli.NewNonBlockingReader(cmd.InOrStdin()).
					Confirm(ctx, cmd.OutOrStdout(), fmt.Sprintf("Approve purchase request #%d?", id))
				if askErr != nil {
					return askErr
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Approval canceled"))
					return nil
				}
			}

			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.controller.ApprovePR(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Purchase request #%d approved", id)))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "approve without asking")
	return cmd
}

func prRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a purchase request",
		Long: `Reject a purchase request. A reason is required; without --reason it is
asked for, and an empty answer cancels the rejection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			reason, _ := cmd.Flags().GetString("reason")
			if !cmd.Flags().Changed("reason") {
				reason, err = cli.NewNonBlockingReader(cmd.InOrStdin()).Ask(ctx, cmd.OutOrStdout(), "Reason for rejection")
				if err != nil {
					return err
				}
			}

			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.controller.RejectPR(ctx, id, reason); err != nil {
				if errors.Is(err, viewmode.ErrRejectionCanceled) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Rejection canceled"))
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Purchase request #%d rejected", id)))
			return nil
		},
	}
	cmd.Flags().String("reason", "", "why the request is rejected")
	return cmd
}

func prInitiateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initiate ID",
		Short: "Open a negotiation for a purchase request",
		Long: `Open a negotiation for a purchase request and move the request to
IN_NEGOTIATION. The initial quote defaults to the allocated amount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			rm, err := a.controller.LoadReview(ctx, viewmode.NewSession(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("amount") {
				rm.ProposedAmount, _ = cmd.Flags().GetString("amount")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s / %s, allocated %s, proposing %s\n",
				rm.EventName, rm.VendorName, money(rm.PR.AllocatedAmount), rm.ProposedAmount)

			result, err := a.controller.Initiate(ctx, rm)
			if err != nil {
				return err
			}
			if result.Warning != "" {
				fmt.Fprintln(out, cli.FormatWarning(result.Warning))
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Negotiation #%d started for purchase request #%d", result.Negotiation.ID, id)))
			return nil
		},
	}
	cmd.Flags().String("amount", "", "initial quote (default: allocated amount)")
	return cmd
}
