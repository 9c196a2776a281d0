// Package parser recognizes dates, amounts and transaction rows in
// reconstructed statement lines. It is layout-agnostic: no bank templates.
package parser

import (
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Parse walks pages of lines in reading order and assembles the ledger.
// Noise lines and lines missing a date or amount are recorded in DebugLines
// and otherwise ignored.
func Parse(pages [][]models.Line) *models.Statement {
	info := &models.Statement{
		PageCount: len(pages),
	}

	lineNum := 0
	for pageIdx, lines := range pages {
		for _, line := range lines {
			lineNum++
			dbg := models.DebugLine{
				LineNum: lineNum,
				Page:    pageIdx + 1,
				Text:    line.Text,
			}

			if IsBoilerplate(line.Text) {
				dbg.Result = models.ResultNoise
				info.DebugLines = append(info.DebugLines, dbg)
				continue
			}

			txn, reason, ok := AssembleLine(line.Text, len(info.Transactions)+1)
			if !ok {
				dbg.Result = models.ResultSkipped
				dbg.Reason = reason
				info.DebugLines = append(info.DebugLines, dbg)
				continue
			}

			dbg.Result = models.ResultParsed
			dbg.TxnID = txn.ID
			info.DebugLines = append(info.DebugLines, dbg)
			info.Transactions = append(info.Transactions, txn)
		}
	}

	info.LineCount = lineNum
	return info
}
