package classify

import (
	"fmt"
	"regexp"
	"strings"

	"hcjobs-engine/internal/config"
)

type track struct {
	name     string
	patterns []*regexp.Regexp
}

// Classifier assigns career tracks from an ordered rule list.
type Classifier struct {
	tracks       []track
	defaultTrack string
}

// New compiles rules in order. Each term is matched case-insensitively on word boundaries.
func New(rules []config.Rule, defaultTrack string) (*Classifier, error) {
	c := &Classifier{defaultTrack: defaultTrack}
	for _, r := range rules {
		t := track{name: r.Tag}
		for _, term := range r.Any {
			re, err := CompileTerm(term)
			if err != nil {
				return nil, fmt.Errorf("career track %q: %w", r.Tag, err)
			}
			t.patterns = append(t.patterns, re)
		}
		c.tracks = append(c.tracks, t)
	}
	return c, nil
}

// Default is the classifier over the built-in track list.
func Default() *Classifier {
	c, err := New(config.DefaultCareerTracks(), config.DefaultTrack)
	if err != nil {
		panic(err)
	}
	return c
}

// CompileTerm compiles a rule term as a case-insensitive, word-bounded pattern.
func CompileTerm(term string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b(?:` + term + `)\b`)
}

// CareerTrack returns the first track with a matching pattern, else the default track.
func (c *Classifier) CareerTrack(text string) string {
	for _, t := range c.tracks {
		for _, re := range t.patterns {
			if re.MatchString(text) {
				return t.name
			}
		}
	}
	return c.defaultTrack
}

// Tracks lists the track names in priority order followed by the default.
func (c *Classifier) Tracks() []string {
	out := make([]string, 0, len(c.tracks)+1)
	seen := map[string]bool{}
	for _, t := range c.tracks {
		if !seen[t.name] {
			seen[t.name] = true
			out = append(out, t.name)
		}
	}
	if !seen[c.defaultTrack] {
		out = append(out, c.defaultTrack)
	}
	return out
}

func words(terms ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(terms, "|") + `)\b`)
}

var (
	// senior, leadership and licensed clinical roles
	excludeTitle = words(
		`director`, `vice\s+president`, `vp`, `chief`, `cfo`, `coo`, `ceo`, `cno`,
		`senior`, `sr\.?`, `principal`, `physician`, `rn`, `np`, `pa-c`,
		`registered\s+nurse`, `nurse\s+practitioner`,
	)

	entryTitle = words(
		`coordinator`, `representative`, `specialist`, `assistant`, `associate`,
		`clerk`, `scheduler`, `scheduling`, `patient\s+access`, `registration`, `registrar`,
		`referral`, `prior\s+auth\w*`, `authorization`, `front\s+desk`, `unit\s+clerk`,
		`receptionist`, `office`, `admin\w*`, `ait`, `trainee`, `intern`,
	)

	entryDesc = regexp.MustCompile(`(?i)\bno\s+(?:prior\s+|previous\s+)?experience\b|\bentry[-\s]?level\b|\b0\s?[-\x{2013}]\s?1\s+years?\b`)

	seniorDesc = regexp.MustCompile(`(?i)\b(?:[5-9]|[1-9]\d)\s?\+\s?years\b|\b(?:[5-9]|[1-9]\d)\s+or\s+more\s+years\b|\b(?:five|six|seven|eight|ten)\+?\s+years\b|\bminimum\s+of\s+(?:[5-9]|[1-9]\d)\s+years\b`)
)

// EntryLevel classifies a posting. Senior or clinical titles are never entry level;
// otherwise an entry-level role noun in the title decides, then explicit
// description phrasing. Without any signal the answer is false.
func EntryLevel(title, description string) bool {
	if excludeTitle.MatchString(title) {
		return false
	}
	if entryTitle.MatchString(title) {
		return true
	}
	if entryDesc.MatchString(description) {
		return true
	}
	if seniorDesc.MatchString(description) {
		return false
	}
	return false
}

// ExcludedTitle reports a senior, leadership or clinical title.
func ExcludedTitle(title string) bool {
	return excludeTitle.MatchString(title)
}
