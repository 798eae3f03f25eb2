package validation

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoParagraphs = errors.New("at least one paragraph is required")
	ErrInvalidDate  = errors.New("date must be formatted as YYYY-MM-DD")
)

// Paragraphs drops blank entries and keeps the rest in submission order.
// An empty result is an error.
func Paragraphs(paragraphs []string) ([]string, error) {
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return nil, ErrNoParagraphs
	}

	return kept, nil
}

// ValidateDate checks the YYYY-MM-DD form the listing filter compares on.
// An empty date is allowed.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	_, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return ErrInvalidDate
	}
	return nil
}
