package dashboard

import (
	"time"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// NegotiationMetrics summarizes a negotiation list.
type NegotiationMetrics struct {
	TotalSavings decimal.Decimal `json:"totalSavings"`
	Total        int             `json:"total"`
	Pending      int             `json:"pending"`
	Completed    int             `json:"completed"`
	Failed       int             `json:"failed"`
}

// ComputeNegotiationMetrics counts negotiations by outcome and sums the
// known savings.
func ComputeNegotiationMetrics(items []model.EnrichedNegotiation) NegotiationMetrics {
	m := NegotiationMetrics{Total: len(items), TotalSavings: decimal.Zero}
	for i := range items {
		status := items[i].Status
		switch {
		case status.IsPending():
			m.Pending++
		case status.IsCompleted():
			m.Completed++
		case status.IsFailed():
			m.Failed++
		}
		if s := items[i].Savings(); s.Known {
			m.TotalSavings = m.TotalSavings.Add(s.Amount)
		}
	}
	return m
}

// AvailableYears returns the year of now and the count-1 years before it,
// newest first.
func AvailableYears(now time.Time, count int) []int {
	if count < 1 {
		count = 5
	}
	years := make([]int, count)
	for i := range years {
		years[i] = now.Year() - i
	}
	return years
}
