package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// punctuation folded to ASCII. Every replacement is non-empty ASCII, which keeps
// Normalize idempotent: a replacement can never complete a new match.
var punct = []struct {
	from rune
	to   string
}{
	{'\u2018', "'"},
	{'\u2019', "'"},
	{'\u201a', "'"},
	{'\u2032', "'"},
	{'\u201c', `"`},
	{'\u201d', `"`},
	{'\u201e', `"`},
	{'\u2013', "-"},
	{'\u2014', "-"},
	{'\u2212', "-"},
	{'\u2026', "..."},
	{'\u2022', "-"},
	{'\u00b7', "-"},
	{'\u00a0', " "},
}

var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
	"\u00ad", "",
)

var replacer = buildReplacer()

// buildReplacer derives the mis-decoded forms (UTF-8 bytes read as Windows-1252)
// of each rune in punct. They go first so they win over their own tail runes.
func buildReplacer() *strings.Replacer {
	dec := charmap.Windows1252.NewDecoder()

	var pairs []string
	for _, p := range punct {
		garbled, err := dec.String(string(p.from))
		if err != nil || garbled == string(p.from) {
			continue
		}
		pairs = append(pairs, garbled, p.to)
	}
	for _, p := range punct {
		pairs = append(pairs, string(p.from), p.to)
	}
	return strings.NewReplacer(pairs...)
}

// Normalize repairs encoding artifacts, folds typographic punctuation to ASCII,
// collapses whitespace and trims.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = invisible.Replace(s)
	s = norm.NFC.String(s)
	s = replacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Lines normalizes each line of s, dropping blanks and repeated lines.
func Lines(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		ln = Normalize(ln)
		if ln == "" || seen[ln] {
			continue
		}
		seen[ln] = true
		out = append(out, ln)
	}
	return out
}

// Block joins lines, separating headings from the text above them by a blank line.
func Block(lines []string) string {
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteString("\n")
			if IsHeading(ln) {
				b.WriteString("\n")
			}
		}
		b.WriteString(ln)
	}
	return b.String()
}

// IsHeading reports whether a line reads like a section heading.
func IsHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 80 {
		return false
	}
	if strings.HasSuffix(line, ":") {
		return true
	}

	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters > 3
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
