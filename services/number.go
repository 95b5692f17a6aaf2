package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// FormatDocumentNumber constructs a document number from its components.
// Estimates get "E-<year>-<seq>", invoices "I-<year>-<seq>", with a
// four-digit zero-padded sequence.
func FormatDocumentNumber(kind DocumentKind, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%04d", kind.NumberPrefix(), year, sequence)
}

// NextDocumentNumber computes the next number for the kind by counting the
// stored documents whose number carries the current year's prefix. The
// sequence is recomputed from storage on every call, so two callers that
// both compute before either persists will receive the same number.
func NextDocumentNumber(app *pocketbase.PocketBase, kind DocumentKind, now time.Time) string {
	year := now.Year()
	prefix := fmt.Sprintf("%s-%d-", kind.NumberPrefix(), year)

	existing, err := app.FindRecordsByFilter(
		kind.Collection(),
		"number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// Collection missing or empty: start at 1
		existing = nil
	}

	return FormatDocumentNumber(kind, year, len(existing)+1)
}
