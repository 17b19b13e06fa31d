package record

import (
	"regexp"
	"strings"
	"time"

	"hcjobs-engine/internal/textnorm"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
}

var reISOPrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ]`)

// parseDate reads a posted date in any of the known layouts and returns it as
// YYYY-MM-DD. Anything else, including relative dates ("3 days ago"), is nil.
func parseDate(raw string) *string {
	s := strings.TrimSpace(textnorm.Normalize(raw))
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return nil
	}
	if m := reISOPrefix.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01-02")
			return &out
		}
	}
	return nil
}
