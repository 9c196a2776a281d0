// Package engine drives statement extraction: fragments, lines, noise
// filtering and transaction assembly, and classifies the outcome.
package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/layout"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// FragmentSource yields, per page and in page order, the positioned text
// fragments of a document.
type FragmentSource interface {
	Fragments(ctx context.Context, data []byte) ([][]models.TextFragment, error)
}

// Engine turns raw statement bytes into a ledger. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	source    FragmentSource
	tolerance float64
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLineTolerance sets the vertical bucket size used to rebuild lines.
func WithLineTolerance(tolerance float64) Option {
	return func(e *Engine) {
		e.tolerance = tolerance
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an Engine reading fragments from source. A nil source reads
// PDFs with the default extractor.PDFSource.
func New(source FragmentSource, opts ...Option) *Engine {
	if source == nil {
		source = extractor.NewPDFSource()
	}
	e := &Engine{
		source:    source,
		tolerance: layout.DefaultTolerance,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the ordered ledger for one document, or exactly one of
// DocumentFormatError, NoExtractableTextError or
// NoTransactionsRecognizedError. No transactions accompany an error.
func (e *Engine) Extract(ctx context.Context, data []byte) ([]models.Transaction, error) {
	info, err := e.ExtractStatement(ctx, data)
	if err != nil {
		return nil, err
	}
	return info.Transactions, nil
}

// ExtractStatement is Extract plus per-line diagnostics.
func (e *Engine) ExtractStatement(ctx context.Context, data []byte) (*models.Statement, error) {
	pages, err := e.source.Fragments(ctx, data)
	if err != nil {
		return nil, err
	}

	pageLines := make([][]models.Line, len(pages))
	var texts []string
	for i, frags := range pages {
		pageLines[i] = layout.ReconstructLines(frags, e.tolerance)
		for _, l := range pageLines[i] {
			texts = append(texts, l.Text)
		}
		e.logger.Debug("page reconstructed", "page", i+1, "fragments", len(frags), "lines", len(pageLines[i]))
	}

	if len(texts) == 0 {
		e.logger.Info("no extractable text", "pages", len(pages))
		return nil, &NoExtractableTextError{Pages: len(pages)}
	}

	info := parser.Parse(pageLines)
	if len(info.Transactions) == 0 {
		readable := extractor.IsReadableText(texts)
		e.logger.Info("no transactions recognized", "lines", info.LineCount, "readable", readable)
		return nil, &NoTransactionsRecognizedError{Lines: info.LineCount, Readable: readable}
	}

	e.logger.Info("statement extracted",
		"pages", info.PageCount,
		"lines", info.LineCount,
		"transactions", len(info.Transactions),
	)
	return info, nil
}
