package parser

import "strings"

// boilerplateCues are phrases that mark statement furniture rather than
// transaction rows. Matched case-insensitively anywhere in the line.
var boilerplateCues = []string{
	"page ",
	"statement period",
	"account number",
	"beginning balance",
	"ending balance",
	"total deposits",
	"total withdrawals",
	"summary",
}

// IsBoilerplate reports whether a reconstructed line is header, footer or
// summary text that must never become a transaction.
func IsBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, cue := range boilerplateCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
