package datasets

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// nanValues are the cell contents treated as missing.
var nanValues = []string{"", "NA", "NaN", "nan", "<nil>"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// normalizeStationID returns the string form of a station identifier. Ids
// that went through a float column upstream ("12008.0") lose the ".0".
func normalizeStationID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN" {
		return "", fmt.Errorf("empty station id")
	}
	if head, ok := strings.CutSuffix(s, ".0"); ok && head != "" && isDigits(head) {
		return head, nil
	}
	return s, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
