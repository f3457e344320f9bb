package providers

import (
	"errors"
	"fmt"
)

// Extraction error kinds.
var (
	ErrMissingField = errors.New("missing field")
	ErrDateFormat   = errors.New("bad date format")
)

// ExtractionError reports why an article page could not be turned into a record.
// Kind is ErrMissingField or ErrDateFormat.
type ExtractionError struct {
	Kind   error
	Field  string
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("extract %s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("extract %s: %v: %s", e.Field, e.Kind, e.Detail)
}

func (e *ExtractionError) Unwrap() error { return e.Kind }

func missingField(field string) error {
	return &ExtractionError{Kind: ErrMissingField, Field: field}
}

func dateFormatError(detail string) error {
	return &ExtractionError{Kind: ErrDateFormat, Field: "date", Detail: detail}
}
