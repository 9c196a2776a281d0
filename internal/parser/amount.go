package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches monetary tokens such as 1,234.56, -45.67, $12.00 and
// "$ 12.00". A two-digit fraction is mandatory so that dates, reference
// numbers and page counts are never read as amounts.
var amountPattern = regexp.MustCompile(`-?\$?\s?\d{1,3}(?:,\d{3})*\.\d{2}|-?\d+\.\d{2}`)

// amountToken is one monetary token found in a line.
type amountToken struct {
	value      decimal.Decimal
	start, end int // byte offsets in the source line
}

// ParseAmount converts a token like "1,234.56" or "-$ 12.00" to a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")
	return decimal.NewFromString(s)
}

// findAmountTokens returns every parseable monetary token in left-to-right
// order together with its position.
func findAmountTokens(line string) []amountToken {
	var tokens []amountToken
	for _, loc := range amountPattern.FindAllStringIndex(line, -1) {
		v, err := ParseAmount(line[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		tokens = append(tokens, amountToken{value: v, start: loc[0], end: loc[1]})
	}
	return tokens
}

// FindAmounts returns the signed monetary values in a line, preserving the
// order in which they appear.
func FindAmounts(line string) []decimal.Decimal {
	tokens := findAmountTokens(line)
	values := make([]decimal.Decimal, len(tokens))
	for i, t := range tokens {
		values[i] = t.value
	}
	return values
}
