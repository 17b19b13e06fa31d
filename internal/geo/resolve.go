package geo

import (
	"regexp"
	"strings"

	"hcjobs-engine/internal/textnorm"
)

var reCodeToken = regexp.MustCompile(`\b[A-Za-z]{2}\b`)

// InferState finds a state code in the location, company and title text.
// The location alone is read first, so an abbreviation in a title ("CT
// Technologist") cannot outrank a state named in the location. Each pass tries
// codes, then full state names; the parts of the location itself come last.
func InferState(location, company, title string) *string {
	for _, text := range []string{location, strings.Join([]string{location, company, title}, " ")} {
		if code := matchCode(text); code != "" {
			return &code
		}
		if code := matchName(text); code != "" {
			return &code
		}
	}
	if code := matchLocationParts(location); code != "" {
		return &code
	}
	return nil
}

func matchCode(text string) string {
	tokens := reCodeToken.FindAllString(text, -1)

	for _, tok := range tokens {
		if tok == strings.ToUpper(tok) && IsState(tok) {
			return tok
		}
	}
	for _, tok := range tokens {
		low := strings.ToLower(tok)
		if ambiguousCodes[low] {
			continue
		}
		if IsState(tok) {
			return strings.ToUpper(tok)
		}
	}
	return ""
}

func matchName(text string) string {
	if m := reStateName.FindString(strings.ToLower(text)); m != "" {
		return stateNames[m]
	}
	return ""
}

func matchLocationParts(location string) string {
	var parts []string
	if lab := LabeledLocation(location); lab != "" {
		parts = append(parts, lab)
	}
	for _, seg := range strings.FieldsFunc(location, func(r rune) bool { return r == ',' || r == '|' || r == '(' || r == ')' }) {
		parts = append(parts, seg)
		if head, _, ok := strings.Cut(seg, " - "); ok {
			parts = append(parts, head)
		}
	}

	for _, p := range parts {
		key := strings.ToLower(textnorm.Normalize(p))
		key = strings.TrimSuffix(key, " area")
		if c, ok := stateNames[key]; ok {
			return c
		}
		if c, ok := cityStates[key]; ok {
			return c
		}
	}
	return ""
}

var (
	reParens     = regexp.MustCompile(`\([^)]*\)`)
	reWorkMarker = regexp.MustCompile(`(?i)\b(remote|hybrid|on-?site|in-?person)\b`)
)

// City returns the city part of a free-text location, or Unknown.
func City(location string) string {
	loc := reParens.ReplaceAllString(NormalizeLocation(location), " ")
	loc = reWorkMarker.ReplaceAllString(loc, " ")

	for _, seg := range strings.Split(loc, ",") {
		seg = strings.Trim(textnorm.Normalize(seg), " -")
		if seg == "" {
			continue
		}
		if len(seg) > 3 && strings.EqualFold(seg[:3], "in ") {
			seg = seg[3:]
		}
		low := strings.ToLower(seg)
		if IsState(seg) || low == "united states" || low == "us" || low == "usa" {
			continue
		}
		if _, ok := stateNames[low]; ok {
			continue
		}
		return seg
	}
	return "unknown"
}

// NormalizeLocation drops a leading label and repeated comma parts.
func NormalizeLocation(loc string) string {
	loc = textnorm.Normalize(loc)
	if loc == "" {
		return ""
	}

	low := strings.ToLower(loc)
	for _, lab := range []string{"job location:", "locations:", "location:"} {
		if strings.HasPrefix(low, lab) {
			loc = strings.TrimSpace(loc[len(lab):])
			break
		}
	}

	seen := map[string]bool{}
	var out []string
	for _, p := range strings.Split(loc, ",") {
		p = textnorm.Normalize(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

const (
	ModeRemote  = "Remote"
	ModeHybrid  = "Hybrid"
	ModeOnsite  = "Onsite"
	ModeUnknown = "Unknown"
)

var reRemote = regexp.MustCompile(`(?i)\b(remote|telecommut\w*|work[-\s]from[-\s]home|wfh)\b`)

// WorkMode classifies the arrangement stated in the given texts.
func WorkMode(location, title, desc string) string {
	blob := strings.ToLower(strings.Join([]string{location, title, desc}, " "))

	switch {
	case reRemote.MatchString(blob):
		return ModeRemote
	case strings.Contains(blob, "hybrid"):
		return ModeHybrid
	case strings.Contains(blob, "on-site") || strings.Contains(blob, "onsite") || strings.Contains(blob, "on site"):
		return ModeOnsite
	default:
		return ModeUnknown
	}
}

// IsRemote reports a remote, telecommute or work-from-home keyword in location or body.
func IsRemote(location, body string) bool {
	return WorkMode(location, "", body) == ModeRemote
}
