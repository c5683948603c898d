// Package export writes dashboard lists to files and spreadsheets.
package export

import (
	"time"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// Table is a titled set of rows ready for any output format.
type Table struct {
	Generated       time.Time
	Records         any
	Title           string
	Headers         []string
	Rows            [][]any
	CurrencyColumns []int
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalAmount(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return amount(*d)
}

// NegotiationTable lays out negotiations in their current order.
func NegotiationTable(rows []model.EnrichedNegotiation, generated time.Time) Table {
	t := Table{
		Title:     "Negotiations",
		Generated: generated,
		Headers: []string{
			"Negotiation ID", "PR ID", "Event", "Vendor", "Initial Quote", "Final Quote",
			"Savings", "Savings %", "Status", "Negotiation Date", "Comments",
		},
		CurrencyColumns: []int{4, 5, 6},
		Rows:            make([][]any, 0, len(rows)),
	}

	views := make([]model.NegotiationView, 0, len(rows))
	for _, n := range rows {
		v := n.View()
		views = append(views, v)

		var savings, pct any = "", ""
		if v.SavingsAmount != nil {
			savings = amount(*v.SavingsAmount)
			pct = amount(*v.SavingsPercentage)
		}
		t.Rows = append(t.Rows, []any{
			n.ID, n.PRID, n.EventName, n.VendorName,
			amount(n.InitialQuoteAmount), optionalAmount(n.FinalQuoteAmount),
			savings, pct, string(n.Status), n.NegotiationDate.String(), n.Comments,
		})
	}
	t.Records = views
	return t
}

// PurchaseRequestTable lays out purchase requests in their current order.
func PurchaseRequestTable(rows []model.EnrichedPurchaseRequest, generated time.Time) Table {
	t := Table{
		Title:           "Purchase Requests",
		Generated:       generated,
		Headers:         []string{"PR ID", "Event", "Vendor", "Allocated Amount", "Status", "Request Date"},
		CurrencyColumns: []int{3},
		Rows:            make([][]any, 0, len(rows)),
	}

	views := make([]model.PurchaseRequestView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.View())
		t.Rows = append(t.Rows, []any{
			r.ID, r.EventName, r.VendorName, amount(r.AllocatedAmount), string(r.Status), r.RequestDate.String(),
		})
	}
	t.Records = views
	return t
}
