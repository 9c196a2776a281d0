// Package summary derives dashboard statistics from an extracted ledger.
package summary

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// DefaultCurrency is used for display when the statement does not say.
const DefaultCurrency = money.USD

// Summary holds aggregate figures over a ledger. Debits are reported as a
// positive total.
type Summary struct {
	Count          int             `json:"count"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	NetFlow        decimal.Decimal `json:"netFlow"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AverageAmount  decimal.Decimal `json:"averageAmount"`
}

// Compute aggregates a ledger. CurrentBalance is the last transaction's
// running balance, or the net flow when that transaction has none.
func Compute(txns []models.Transaction) Summary {
	s := Summary{Count: len(txns)}
	if len(txns) == 0 {
		return s
	}

	absTotal := decimal.Zero
	for _, t := range txns {
		abs := t.Amount.Abs()
		absTotal = absTotal.Add(abs)
		if t.Type == models.Credit {
			s.TotalCredit = s.TotalCredit.Add(t.Amount)
		} else {
			s.TotalDebit = s.TotalDebit.Add(abs)
		}
	}

	s.NetFlow = s.TotalCredit.Sub(s.TotalDebit)
	s.AverageAmount = absTotal.Div(decimal.NewFromInt(int64(len(txns)))).Round(2)

	if last := txns[len(txns)-1]; last.Balance.Valid {
		s.CurrentBalance = last.Balance.Decimal
	} else {
		s.CurrentBalance = s.NetFlow
	}
	return s
}

// Display formats an amount in the given ISO-4217 currency, e.g. "$1,234.56".
func Display(amount decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		c = money.GetCurrency(DefaultCurrency)
		currency = DefaultCurrency
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
