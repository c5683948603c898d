// Package dashboard implements the list pipeline: enrichment, filtering,
// sorting and pagination over records fetched from the gateway.
//
// Every stage is a pure function returning a new slice. Inputs are never
// mutated, so a stage can be rerun on every input change without diffing.
package dashboard

import (
	"github.com/Veraticus/prdash/internal/model"
	"github.com/shopspring/decimal"
)

// Record is an enriched row the pipeline can filter and order.
type Record interface {
	RecordID() int64
	RecordDate() model.Date
	RecordStatus() string
	RecordAmount() decimal.Decimal
	VendorRef() (int64, string)
	EventRef() (int64, string)
}

var (
	_ Record = model.EnrichedNegotiation{}
	_ Record = model.EnrichedPurchaseRequest{}
)
