package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/layout"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// placeholderDescription is used when nothing is left after the date and
// amounts are removed from a line.
const placeholderDescription = "Transaction"

// Reasons a line did not produce a transaction.
const (
	SkipNoDate   = "no date"
	SkipNoAmount = "no amount"
)

var (
	creditCue = regexp.MustCompile(`(?i)\b(?:cr|credit)\b`)
	debitCue  = regexp.MustCompile(`(?i)\b(?:dr|debit)\b`)
	// crdrMarker is a standalone CR/DR column marker next to an amount.
	crdrMarker = regexp.MustCompile(`(?i)^(?:cr|dr)$`)
)

// typeRule classifies a line when its cue matches.
type typeRule struct {
	cue      *regexp.Regexp
	classify func(amount decimal.Decimal) models.TransactionType
}

var typeRules = []typeRule{
	{
		cue: creditCue,
		classify: func(amount decimal.Decimal) models.TransactionType {
			if amount.Sign() >= 0 {
				return models.Credit
			}
			return models.Debit
		},
	},
	{
		cue: debitCue,
		classify: func(amount decimal.Decimal) models.TransactionType {
			if amount.Sign() < 0 {
				return models.Debit
			}
			return models.Credit
		},
	},
}

// resolveType applies the first matching cue rule, falling back to the
// amount's sign.
func resolveType(line string, amount decimal.Decimal) models.TransactionType {
	for _, rule := range typeRules {
		if rule.cue.MatchString(line) {
			return rule.classify(amount)
		}
	}
	if amount.Sign() >= 0 {
		return models.Credit
	}
	return models.Debit
}

// AssembleLine turns one filtered line into a transaction. seq is the
// 1-based position the transaction would take in the ledger. When the line
// is not a transaction row, ok is false and reason says why.
func AssembleLine(line string, seq int) (txn models.Transaction, reason string, ok bool) {
	line = layout.CollapseWhitespace(line)

	date, found := FindDate(line)
	if !found {
		return models.Transaction{}, SkipNoDate, false
	}

	amounts := findAmountTokens(line)
	if len(amounts) == 0 {
		return models.Transaction{}, SkipNoAmount, false
	}

	txn = models.Transaction{
		ID:   fmt.Sprintf("%s-%d", date.ISO, seq),
		Date: date.ISO,
	}
	if n := len(amounts); n >= 2 {
		txn.Amount = amounts[n-2].value
		txn.Balance = decimal.NewNullDecimal(amounts[n-1].value)
	} else {
		txn.Amount = amounts[0].value
	}

	txn.Description = describe(line, date.Surface, amounts)
	txn.Type = resolveType(line, txn.Amount)
	return txn, "", true
}

// describe strips the date surface text and the trailing run of amounts
// from a line.
func describe(line, dateSurface string, amounts []amountToken) string {
	end := trailingAmountsStart(line, amounts)
	rest := line[:end]

	if i := strings.Index(rest, dateSurface); i >= 0 {
		rest = rest[:i] + " " + rest[i+len(dateSurface):]
	}

	desc := layout.CollapseWhitespace(rest)
	if desc == "" {
		return placeholderDescription
	}
	return desc
}

// trailingAmountsStart returns the offset where the run of amounts at the end
// of the line begins. Only whitespace or standalone CR/DR markers may sit
// between the amounts of the run and after its last amount.
func trailingAmountsStart(line string, amounts []amountToken) int {
	end := len(line)
	for i := len(amounts) - 1; i >= 0; i-- {
		if !onlyMarkers(line[amounts[i].end:end]) {
			break
		}
		end = amounts[i].start
	}
	return end
}

func onlyMarkers(s string) bool {
	for _, f := range strings.Fields(s) {
		if !crdrMarker.MatchString(f) {
			return false
		}
	}
	return true
}
