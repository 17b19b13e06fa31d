package geo

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/textnorm"
)

var locationSelectors = []string{
	"[data-testid='job-location']",
	"[data-testid='inlineHeader-companyLocation']",
	"[data-testid='jobsearch-JobInfoHeader-companyLocation']",
	"#jobLocationText",
	".location",
	".job__location",
	".posting-categories .location",
	".app-title + .location",
	"[itemprop='jobLocation']",
}

// FindLocation looks for a location in known containers, then in og:description,
// then in labelled body text.
func FindLocation(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	for _, sel := range locationSelectors {
		if t := textnorm.Normalize(doc.Find(sel).First().Text()); t != "" && len(t) <= 120 {
			return NormalizeLocation(t)
		}
	}

	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if loc := LabeledLocation(v); loc != "" {
			return NormalizeLocation(loc)
		}
	}

	if loc := LabeledLocation(doc.Find("body").Text()); loc != "" {
		return NormalizeLocation(loc)
	}
	return ""
}

var reLocatedIn = regexp.MustCompile(`\b(?i:located|based)\s+in\s+([A-Z][^.\n;]{2,60})`)

// LabeledLocation extracts the text after a "Location:" style label, or after
// "located in"/"based in".
func LabeledLocation(s string) string {
	low := strings.ToLower(s)

	for _, lab := range []string{"job location:", "work location:", "locations:", "location:"} {
		i := strings.Index(low, lab)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(s[i+len(lab):])
		for _, cut := range []string{"\n", "\r", " | ", " \u00b7 "} {
			if j := strings.Index(rest, cut); j >= 0 {
				rest = rest[:j]
			}
		}
		rest = textnorm.Normalize(rest)
		if rest != "" && len(rest) <= 80 {
			return rest
		}
	}

	if m := reLocatedIn.FindStringSubmatch(s); m != nil {
		return textnorm.Normalize(m[1])
	}
	return ""
}
