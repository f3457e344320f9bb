package providers

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout matches "14:30, 5 03 2023" once the month name is replaced.
const dateLayout = "15:04, 2 01 2006"

type monthName struct {
	name   string
	number string
}

// russianMonths holds genitive month names as printed on the site.
var russianMonths = []monthName{
	{"января", "01"},
	{"февраля", "02"},
	{"марта", "03"},
	{"апреля", "04"},
	{"мая", "05"},
	{"июня", "06"},
	{"июля", "07"},
	{"августа", "08"},
	{"сентября", "09"},
	{"октября", "10"},
	{"ноября", "11"},
	{"декабря", "12"},
}

// TranslateMonth replaces Russian month names in s with their two-digit
// numbers. It reports false when no month name was found.
func TranslateMonth(s string) (string, bool) {
	found := false
	for _, m := range russianMonths {
		if strings.Contains(s, m.name) {
			s = strings.ReplaceAll(s, m.name, m.number)
			found = true
		}
	}
	return s, found
}

// ParseDate parses dates like "14:30, 5 марта 2023" in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	text := strings.ToLower(collapseSpace(raw))
	normalized, ok := TranslateMonth(text)
	if !ok {
		return time.Time{}, dateFormatError(fmt.Sprintf("no known month name in %q", raw))
	}

	t, err := time.ParseInLocation(dateLayout, normalized, loc)
	if err != nil {
		return time.Time{}, dateFormatError(fmt.Sprintf("parse %q: %v", raw, err))
	}
	return t, nil
}
