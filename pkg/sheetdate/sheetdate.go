// Package sheetdate parses the DD-MM-YYYY dates used in the source
// spreadsheets and formats them for storage. Parsing is calendar-strict:
// "31-02-2024" is rejected, not normalised.
// No external dependencies - uses only standard library.
package sheetdate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format of dates in the source spreadsheets.
const Layout = "02-01-2006"

// ISOLayout is the storage format (ISO 8601 date).
const ISOLayout = "2006-01-02"

// ErrInvalid is returned for anything that is not a valid DD-MM-YYYY
// calendar date.
var ErrInvalid = errors.New("sheetdate: invalid DD-MM-YYYY date")

// Parse parses a DD-MM-YYYY string into a UTC date at midnight.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalid)
	}

	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	// time.Parse is lenient about round-tripping only when the input was a
	// real calendar date; "31-02-2024" already fails above with
	// "day out of range". The round-trip check guards against inputs like
	// "2024-01-02" that happen to parse under a different field order.
	if t.Format(Layout) != normalise(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// normalise zero-pads day and month so "1-2-2024" compares equal to
// its parsed form.
func normalise(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	for i := 0; i < 2; i++ {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, "-")
}

// ToISO converts a DD-MM-YYYY string to ISO 8601 (YYYY-MM-DD).
func ToISO(s string) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.Format(ISOLayout), nil
}

// FormatISO formats a time as an ISO 8601 date.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}
