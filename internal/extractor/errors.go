// Package extractor exposes the positioned text layer of statement PDFs.
package extractor

import "fmt"

// DocumentFormatError reports bytes that are not a well-formed PDF, or a
// page the PDF library could not decode. Page is 0 for document-level
// failures.
type DocumentFormatError struct {
	Page int
	Err  error
}

func (e *DocumentFormatError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("invalid PDF document (page %d): %v", e.Page, e.Err)
	}
	return fmt.Sprintf("invalid PDF document: %v", e.Err)
}

func (e *DocumentFormatError) Unwrap() error {
	return e.Err
}
