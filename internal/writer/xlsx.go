package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

const xlsxSheet = "Transactions"

var xlsxHeader = []interface{}{"ID", "Date", "Description", "Type", "Amount", "Balance"}

// XLSXWriter writes the ledger as a single-sheet workbook with numeric
// amount and balance cells.
type XLSXWriter struct{}

// Write writes the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, info *models.Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, t := range info.Transactions {
		row := []interface{}{
			t.ID,
			t.Date,
			t.Description,
			string(t.Type),
			t.Amount.InexactFloat64(),
			nil,
		}
		if t.Balance.Valid {
			row[5] = t.Balance.Decimal.InexactFloat64()
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}
