package engine

import "fmt"

// NoExtractableTextError means the document parsed but no page carried a
// text layer. The usual cause is a scanned or image-only statement, which
// needs an OCR pass before extraction.
type NoExtractableTextError struct {
	Pages int
}

func (e *NoExtractableTextError) Error() string {
	return fmt.Sprintf("no extractable text in %d page(s); the PDF is likely scanned or image-based, run OCR first", e.Pages)
}

// NoTransactionsRecognizedError means text was found but no line had both a
// date and an amount. Readable is false when the text looks like
// mis-decoded font glyphs rather than an unsupported layout.
type NoTransactionsRecognizedError struct {
	Lines    int
	Readable bool
}

func (e *NoTransactionsRecognizedError) Error() string {
	if !e.Readable {
		return fmt.Sprintf("no transactions recognized in %d line(s); the text could not be decoded (custom font encoding)", e.Lines)
	}
	return fmt.Sprintf("no transactions recognized in %d line(s); the statement layout is not supported, try another export format", e.Lines)
}
