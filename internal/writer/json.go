package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// JSONWriter writes the transactions array as JSON.
type JSONWriter struct {
	Indent bool
}

func (w *JSONWriter) Write(out io.Writer, info *models.Statement) error {
	txns := info.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
