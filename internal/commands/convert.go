package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/summary"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

type statementExtractor interface {
	ExtractStatement(ctx context.Context, data []byte) (*models.Statement, error)
}

type convertOptions struct {
	output        string
	format        string
	includeHeader bool
	currency      string
}

func newConvertCommand(rt *runtime) *cobra.Command {
	var opts convertOptions
	var tolerance float64
	var workers int

	cmd := &cobra.Command{
		Use:   "convert <input.pdf> [input2.pdf ...]",
		Short: "Extract the ledger of one or more statements to CSV, XLSX or JSON",
		Example: `  # Convert to statement.csv next to the input
  statement-ledger convert statement.pdf

  # Spreadsheet output with a custom path
  statement-ledger convert --format=xlsx --output=ledger.xlsx statement.pdf

  # Several months at once
  statement-ledger convert jan.pdf feb.pdf mar.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return errors.New("--output can only be used with a single input file")
			}
			if cmd.Flags().Changed("tolerance") {
				rt.cfg.Extraction.LineTolerance = tolerance
			}
			if cmd.Flags().Changed("workers") {
				rt.cfg.Extraction.PageWorkers = workers
			}

			eng := rt.newEngine()
			for _, inputPath := range args {
				if err := processFile(cmd.Context(), eng, inputPath, opts, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("processing %s: %w", inputPath, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (defaults to the input name with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "output format: csv, xlsx or json")
	cmd.Flags().BoolVar(&opts.includeHeader, "header", true, "include the CSV header row")
	cmd.Flags().StringVar(&opts.currency, "currency", summary.DefaultCurrency, "ISO-4217 currency used for the printed summary")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 2.0, "vertical distance within which fragments share a line")
	cmd.Flags().IntVar(&workers, "workers", 0, "pages read concurrently (0 means one per CPU)")

	return cmd
}

func processFile(ctx context.Context, ext statementExtractor, inputPath string, opts convertOptions, out io.Writer) error {
	if !strings.EqualFold(filepath.Ext(inputPath), ".pdf") {
		return fmt.Errorf("expected .pdf file, got %q", filepath.Ext(inputPath))
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("input file not readable: %w", err)
	}

	w, err := writer.New(opts.format, opts.includeHeader)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Processing: %s\n", inputPath)

	info, err := ext.ExtractStatement(ctx, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  Read %d page(s), %d line(s)\n", info.PageCount, info.LineCount)
	fmt.Fprintf(out, "  Found %d transaction(s)\n", len(info.Transactions))

	outPath := opts.output
	if outPath == "" {
		format := opts.format
		if format == "" {
			format = "csv"
		}
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format
	}

	if err := writer.WriteToFile(w, outPath, info); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Output: %s\n", outPath)

	s := summary.Compute(info.Transactions)
	fmt.Fprintf(out, "  Credits: %s\n", summary.Display(s.TotalCredit, opts.currency))
	fmt.Fprintf(out, "  Debits: %s\n", summary.Display(s.TotalDebit, opts.currency))
	fmt.Fprintf(out, "  Net flow: %s\n", summary.Display(s.NetFlow, opts.currency))
	fmt.Fprintf(out, "  Closing balance: %s\n", summary.Display(s.CurrentBalance, opts.currency))
	fmt.Fprintln(out, "  Done.")
	return nil
}
