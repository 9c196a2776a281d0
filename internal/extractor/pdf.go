package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// DefaultWordGapFactor is the horizontal gap, as a multiple of font size,
// up to which adjacent glyphs are merged into one fragment.
const DefaultWordGapFactor = 0.3

// fallbackGap is used for glyphs that report no font size.
const fallbackGap = 3.0

// baselineSlack is the vertical drift allowed between glyphs of one run.
const baselineSlack = 0.5

// PDFSource reads positioned text fragments from PDF bytes using the
// ledongthuc/pdf text layer.
type PDFSource struct {
	// Workers bounds how many pages are read concurrently. Zero means one
	// per CPU.
	Workers int
	// WordGapFactor overrides DefaultWordGapFactor when positive.
	WordGapFactor float64
}

// NewPDFSource returns a PDFSource with default settings.
func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

// Fragments returns, per page and in page order, the text fragments of a PDF.
// Pages are read concurrently but each page writes only its own slot, so
// the result order never depends on scheduling. A page without text yields
// an empty slice, not an error.
func (s *PDFSource) Fragments(ctx context.Context, data []byte) ([][]models.TextFragment, error) {
	numPages, err := countPages(data)
	if err != nil {
		return nil, err
	}

	pages := make([][]models.TextFragment, numPages)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i := 0; i < numPages; i++ {
		pageNum := i + 1
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frags, err := s.readPage(data, pageNum)
			if err != nil {
				return err
			}
			pages[pageNum-1] = frags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *PDFSource) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

func (s *PDFSource) gapFactor() float64 {
	if s.WordGapFactor > 0 {
		return s.WordGapFactor
	}
	return DefaultWordGapFactor
}

// openReader wraps pdf.NewReader, converting both errors and library panics
// into a DocumentFormatError.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &DocumentFormatError{Err: fmt.Errorf("PDF library crashed: %v", rec)}
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DocumentFormatError{Err: err}
	}
	return r, nil
}

func countPages(data []byte) (n int, err error) {
	r, err := openReader(data)
	if err != nil {
		return 0, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &DocumentFormatError{Err: fmt.Errorf("reading page tree: %v", rec)}
		}
	}()

	n = r.NumPage()
	if n == 0 {
		return 0, &DocumentFormatError{Err: fmt.Errorf("PDF has no pages")}
	}
	return n, nil
}

// readPage opens its own reader so concurrent pages never share parser
// state.
func (s *PDFSource) readPage(data []byte, pageNum int) (frags []models.TextFragment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &DocumentFormatError{Page: pageNum, Err: fmt.Errorf("PDF library crashed: %v", rec)}
		}
	}()

	r, err := openReader(data)
	if err != nil {
		return nil, err
	}

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}
	return coalesceGlyphs(page.Content().Text, s.gapFactor()), nil
}

// coalesceGlyphs merges the per-glyph output of Page.Content into runs.
// Glyphs stay in content-stream order; a run ends on whitespace, a baseline
// change, or a horizontal jump wider than gapFactor × font size.
func coalesceGlyphs(glyphs []pdf.Text, gapFactor float64) []models.TextFragment {
	var (
		frags   []models.TextFragment
		current strings.Builder
		startX  float64
		startY  float64
		endX    float64
		size    float64
		open    bool
	)

	flush := func() {
		if open && current.Len() > 0 {
			frags = append(frags, models.TextFragment{Text: current.String(), X: startX, Y: startY})
		}
		current.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}

		if open {
			threshold := gapFactor * size
			if size == 0 {
				threshold = fallbackGap
			}
			gap := g.X - endX
			if math.Abs(g.Y-startY) > baselineSlack || gap > threshold || gap < -threshold {
				flush()
			}
		}

		if !open {
			startX, startY, size = g.X, g.Y, g.FontSize
			open = true
		}
		current.WriteString(g.S)
		endX = g.X + g.W
	}
	flush()

	return frags
}
