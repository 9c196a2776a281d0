// Package writer renders an extracted ledger as CSV, XLSX or JSON.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Writer renders a statement to an output stream.
type Writer interface {
	Write(out io.Writer, info *models.Statement) error
}

// New returns the writer for a format name: csv, xlsx or json.
func New(format string, includeHeader bool) (Writer, error) {
	switch format {
	case "", "csv":
		return &CSVWriter{IncludeHeader: includeHeader}, nil
	case "xlsx":
		return &XLSXWriter{}, nil
	case "json":
		return &JSONWriter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// WriteToFile renders info into a new file at path.
func WriteToFile(w Writer, path string, info *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, info); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ledgerRow is the flat CSV shape of a transaction.
type ledgerRow struct {
	ID          string `csv:"ID"`
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Amount"`
	Balance     string `csv:"Balance"`
}

func toRows(txns []models.Transaction) []*ledgerRow {
	rows := make([]*ledgerRow, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, &ledgerRow{
			ID:          t.ID,
			Date:        t.Date,
			Description: t.Description,
			Type:        string(t.Type),
			Amount:      t.Amount.StringFixed(2),
			Balance:     formatBalance(t),
		})
	}
	return rows
}

func formatBalance(t models.Transaction) string {
	if !t.Balance.Valid {
		return ""
	}
	return t.Balance.Decimal.StringFixed(2)
}

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, info *models.Statement) error {
	rows := toRows(info.Transactions)

	var err error
	if w.IncludeHeader {
		err = gocsv.Marshal(rows, out)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, out)
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
