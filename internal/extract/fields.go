package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/textnorm"
)

// firstText is the normalized text of the first non-empty element in sel.
func firstText(sel *goquery.Selection) string {
	var out string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out = textnorm.Normalize(s.Text())
		return out == ""
	})
	return out
}

var (
	reBoardSuffix = regexp.MustCompile(`(?i)\s*[-|]\s*(?:indeed(?:\.com)?|linkedin|glassdoor|ziprecruiter)\s*$`)
	reJobPost     = regexp.MustCompile(`(?i)\s*-\s*job\s+post\s*$`)
	reApplication = regexp.MustCompile(`(?i)^job\s+application\s+for\s+(.+?)\s+at\s+(.+)$`)
	reTitleAt     = regexp.MustCompile(`^(.+?)\s+(?:at|@)\s+(.+)$`)
	reTitlePlace  = regexp.MustCompile(`\s+-\s+([^-,]+,\s*[A-Z]{2})\b(?:\s+\d{5})?\s*$`)
)

// splitTitle cleans a page title, separating an embedded company
// ("X at Y", "Job Application for X at Y") and location ("X - Boise, ID").
func splitTitle(raw string) (title, company, location string) {
	t := textnorm.Normalize(raw)
	t = reBoardSuffix.ReplaceAllString(t, "")
	t = reJobPost.ReplaceAllString(t, "")

	if m := reApplication.FindStringSubmatch(t); m != nil {
		t, company = m[1], m[2]
	}
	if m := reTitlePlace.FindStringSubmatchIndex(t); m != nil {
		location = t[m[2]:m[3]]
		t = t[:m[0]]
	}
	if company == "" {
		if m := reTitleAt.FindStringSubmatch(t); m != nil && len(m[2]) <= 60 {
			t, company = m[1], m[2]
		}
	}
	return strings.TrimSpace(t), strings.TrimSpace(company), strings.TrimSpace(location)
}

type field int

const (
	fieldNone field = iota
	fieldCompany
	fieldTitle
	fieldLocation
	fieldPay
	fieldDate
)

// label groups checked in order
var labels = []struct {
	field field
	re    *regexp.Regexp
}{
	{fieldTitle, regexp.MustCompile(`(?i)^(?:job\s+title|position\s+title|title|position|role)$`)},
	{fieldCompany, regexp.MustCompile(`(?i)^(?:company(?:\s+name)?|employer|organization|hospital|facility)$`)},
	{fieldLocation, regexp.MustCompile(`(?i)^(?:job\s+location|work\s+location|locations?|city)$`)},
	{fieldPay, regexp.MustCompile(`(?i)^(?:pay(?:\s+range)?|salary(?:\s+range)?|compensation|wage|hourly\s+range|pay\s+rate|rate)$`)},
	{fieldDate, regexp.MustCompile(`(?i)^(?:date\s+posted|posted(?:\s+on)?|posting\s+date|date)$`)},
}

// parseLabel splits "Company: Acme" into its field and value. The value may be
// empty when it lives in the next element.
func parseLabel(text string, requireColon bool) (field, string) {
	label, value, found := strings.Cut(text, ":")
	if !found {
		if requireColon {
			return fieldNone, ""
		}
		label = text
	}
	label = strings.TrimSpace(label)
	if label == "" || len(label) > 30 {
		return fieldNone, ""
	}
	for _, l := range labels {
		if l.re.MatchString(label) {
			return l.field, strings.TrimSpace(value)
		}
	}
	return fieldNone, ""
}

var reQualLine = regexp.MustCompile(`(?i)\b(?:degree|experience|skills?|requirements?|diploma|certification|licensure)\b|\b\d+\+?\s*(?:-\s*\d+\s*)?years?\b`)

// filterQualifications keeps description lines that read like requirements.
func filterQualifications(lines []string) []string {
	var out []string
	for _, ln := range lines {
		if textnorm.IsHeading(ln) {
			continue
		}
		if reQualLine.MatchString(ln) {
			out = append(out, ln)
		}
	}
	return out
}

// splitQualifications cuts lines at the first qualifications heading. Lines from
// there up to the next non-qualifications heading are returned as quals.
func splitQualifications(lines []string) (desc, quals []string) {
	in := false
	for _, ln := range lines {
		if kind, rest, ok := classifyHeading(ln, true); ok {
			in = kind == kindQualifications
			if in {
				if rest != "" {
					quals = append(quals, rest)
				}
				continue
			}
		}
		if in {
			quals = append(quals, ln)
		} else {
			desc = append(desc, ln)
		}
	}
	return desc, quals
}

var reLabeledDate = regexp.MustCompile(`(?i)\b(?:date\s+posted|posted\s+on|posting\s+date|posted)\s*:?\s*([A-Z][a-z]{2,8}\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2})`)

// labeledDate finds a posted date written next to its label.
func labeledDate(text string) string {
	if m := reLabeledDate.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
