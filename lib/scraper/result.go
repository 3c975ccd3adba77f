package scraper

import (
	"errors"
	"vendorscrape/lib/catalog"
)

const defaultErrorMessage = "scrape failed for an unknown reason"

// Result is the envelope returned for every scraped URL. Batch callers
// inspect Success per item instead of handling errors.
type Result struct {
	Success      bool                     `json:"success"`
	Record       *catalog.CanonicalRecord `json:"record,omitempty"`
	ErrorMessage string                   `json:"error_message,omitempty"`
	ElapsedMs    int64                    `json:"elapsed_ms"`
	HTTPStatus   int                      `json:"http_status,omitempty"`
}

// NewResult validates the envelope invariant: a successful result must
// carry a record, and a failed one always carries a message, filled
// with a generic one when the caller gave none.
func NewResult(success bool, record *catalog.CanonicalRecord, errorMessage string, elapsedMs int64, httpStatus int) (*Result, error) {
	if success && record == nil {
		return nil, errors.New("successful result must carry a record")
	}
	if !success && errorMessage == "" {
		errorMessage = defaultErrorMessage
	}
	return &Result{
		Success:      success,
		Record:       record,
		ErrorMessage: errorMessage,
		ElapsedMs:    elapsedMs,
		HTTPStatus:   httpStatus,
	}, nil
}

func failure(message string, elapsedMs int64, httpStatus int) *Result {
	res, _ := NewResult(false, nil, message, elapsedMs, httpStatus)
	return res
}
