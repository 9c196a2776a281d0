package models

import "github.com/shopspring/decimal"

// TransactionType is the credit/debit class of a ledger entry.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Transaction represents a single ledger entry recovered from a statement line.
type Transaction struct {
	ID          string              `json:"id"`
	Date        string              `json:"date"` // YYYY-MM-DD
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"` // signed as printed on the statement
	Type        TransactionType     `json:"type"`
	Balance     decimal.NullDecimal `json:"balance"`
}

// TextFragment is one positioned run of text from a page's text layer.
type TextFragment struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Line is a reconstructed visual row. Fragments are ordered left to right.
type Line struct {
	Text      string         `json:"text"`
	Fragments []TextFragment `json:"fragments,omitempty"`
}

// Line outcomes recorded in DebugLine.Result.
const (
	ResultParsed  = "parsed"
	ResultNoise   = "noise"
	ResultSkipped = "skipped"
)

// DebugLine captures what the extractor did with each reconstructed line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Page    int    `json:"page"`
	Text    string `json:"text"`
	Result  string `json:"result"`           // "parsed", "noise", "skipped"
	Reason  string `json:"reason,omitempty"` // why a line was skipped
	TxnID   string `json:"txnId,omitempty"`
}

// Statement holds the ledger extracted from one document plus diagnostics.
type Statement struct {
	Transactions []Transaction `json:"transactions"`
	PageCount    int           `json:"pageCount"`
	LineCount    int           `json:"lineCount"`
	DebugLines   []DebugLine   `json:"debugLines,omitempty"`
}
