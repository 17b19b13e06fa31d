package pay

import (
	"regexp"
	"strings"
)

const amt = `\$\s?\d[\d,]*(?:\.\d+)?(?:\s?[kK]\b)?`

// upper bound of a range; the "$" is often left off
const bound = `\$?\s?\d[\d,]*(?:\.\d+)?(?:\s?[kK]\b)?`

const (
	rangeSep = `\s*(?:-|\x{2013}|\x{2014}|\bto\b)\s*`
	hourly   = `\s*(?:per\s+hour|/\s*hr\b|/\s*hour\b|an\s+hour|hourly)`
	annual   = `\s*(?:per\s+year|/\s*yr\b|/\s*year\b|a\s+year|annually|per\s+annum|annual)`
)

// pay phrases in the order they are tried
var payPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)between\s+` + amt + `\s+and\s+` + bound + `(?:` + hourly + `|` + annual + `)?`),
	regexp.MustCompile(`(?i)` + amt + rangeSep + bound + hourly),
	regexp.MustCompile(`(?i)` + amt + hourly),
	regexp.MustCompile(`(?i)` + amt + rangeSep + bound + annual),
	regexp.MustCompile(`(?i)` + amt + annual),
	regexp.MustCompile(`(?i)(?:starting\s+at|up\s+to)\s+` + amt + `(?:` + hourly + `|` + annual + `)?`),
	regexp.MustCompile(amt + rangeSep + bound),
}

var reLabeled = regexp.MustCompile(`(?i)\b(?:pay(?:\s+range)?|salary(?:\s+range)?|compensation|wage|hourly\s+range|rate)\s*:\s*([^\n]{1,80})`)

// Find returns the first pay phrase in free text, or "".
func Find(text string) string {
	for _, re := range payPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	if m := reLabeled.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
