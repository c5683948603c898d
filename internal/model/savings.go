package model

import "github.com/shopspring/decimal"

// SavingsOutcome classifies the result of a negotiation.
type SavingsOutcome string

// Savings outcomes.
const (
	OutcomeSavings  SavingsOutcome = "SAVINGS"
	OutcomeLoss     SavingsOutcome = "LOSS"
	OutcomeNoChange SavingsOutcome = "NO_CHANGE"
	OutcomeUnknown  SavingsOutcome = "UNKNOWN"
)

var hundred = decimal.NewFromInt(100)

// Savings is the difference between the initial and final quote.
type Savings struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Outcome    SavingsOutcome
	Known      bool
}

// CalculateSavings derives savings = initial - final. Without a final quote
// the result is unknown and zero. A zero initial quote yields 0%.
func CalculateSavings(initial decimal.Decimal, final *decimal.Decimal) Savings {
	if final == nil {
		return Savings{Outcome: OutcomeUnknown}
	}

	amount := initial.Sub(*final)
	s := Savings{
		Amount: amount,
		Known:  true,
	}
	if !initial.IsZero() {
		s.Percentage = amount.Div(initial).Mul(hundred).Round(2)
	}

	switch amount.Sign() {
	case 1:
		s.Outcome = OutcomeSavings
	case -1:
		s.Outcome = OutcomeLoss
	default:
		s.Outcome = OutcomeNoChange
	}
	return s
}
