package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/geo"
	"hcjobs-engine/internal/pay"
	"hcjobs-engine/internal/textnorm"
)

var (
	reAboutJob     = regexp.MustCompile(`(?i)^about\s+the\s+job:?$`)
	reAboutCompany = regexp.MustCompile(`^(?i:about)\s+([A-Z][^:]{1,60}?):?$`)
	reHeaderNoise  = regexp.MustCompile(`(?i)\b(?:ago|applicants?|reposted|promoted|easy apply|apply|save|show more)\b`)
)

// SectionScan is the generic strategy: labelled fields anywhere in the page, the
// largest text block as description, and the first qualifications section.
// LinkedIn text exports are read here; their header sits above "About the job".
type SectionScan struct{}

func (SectionScan) Name() string { return domain.StrategySection }

func (SectionScan) Applies(doc *document.Document) bool {
	return len(doc.Lines()) > 0
}

func (SectionScan) Extract(doc *document.Document) (Draft, bool) {
	body := doc.DOM.Find("body")
	all := blocks(body)

	var d Draft
	labeled := readLabels(all, &d)

	aboutJob := -1
	for i, b := range all {
		if reAboutJob.MatchString(b.text) {
			aboutJob = i
			break
		}
	}

	var content []block
	if aboutJob >= 0 {
		readLinkedInHeader(all[:aboutJob], &d)
		content = all[aboutJob+1:]
	} else {
		content = blocks(largestBlock(body))
	}

	var kept []block
	for _, b := range content {
		if !labeled[b.text] {
			kept = append(kept, b)
		}
	}
	secs := sections(kept)
	for _, s := range secs {
		if s.kind != kindCompany || d.Company != "" {
			continue
		}
		if m := reAboutCompany.FindStringSubmatch(s.heading); m != nil {
			d.Company = strings.TrimSpace(m[1])
		}
	}

	descLines := render(secs, isDescriptionKind)
	d.Description = textnorm.Block(descLines)
	d.Qualifications = qualificationLines(secs)
	if len(d.Qualifications) == 0 {
		d.Qualifications = filterQualifications(descLines)
	}

	text := doc.Text()
	if d.Title == "" {
		d.Title = firstText(doc.DOM.Find("h1, h2"))
	}
	if d.Title == "" {
		d.Title, _, _ = splitTitle(doc.Title())
	}
	if d.Pay == "" {
		d.Pay = pay.Find(text)
	}
	if d.Location == "" {
		d.Location = geo.LabeledLocation(text)
	}
	if d.Date == "" {
		d.Date = labeledDate(text)
	}
	d.Remote = geo.IsRemote(d.Location, text)
	return d, true
}

// readLabels fills draft fields from "Label: value" blocks. A label in a dt or th
// cell, or one with nothing after the colon, takes its value from the next block.
// The returned set holds the consumed block texts.
func readLabels(bs []block, d *Draft) map[string]bool {
	used := map[string]bool{}
	for i, b := range bs {
		requireColon := b.tag != "dt" && b.tag != "th"
		f, v := parseLabel(b.text, requireColon)
		if f == fieldNone {
			continue
		}
		consumed := []string{b.text}
		if v == "" && i+1 < len(bs) && !bs[i+1].heading {
			v = bs[i+1].text
			consumed = append(consumed, v)
		}
		if v == "" {
			continue
		}
		target := labelTarget(d, f)
		if target == nil || *target != "" {
			continue
		}
		*target = v
		for _, c := range consumed {
			used[c] = true
		}
	}
	if d.Location != "" {
		d.Location = geo.NormalizeLocation(d.Location)
	}
	return used
}

func labelTarget(d *Draft, f field) *string {
	switch f {
	case fieldTitle:
		return &d.Title
	case fieldCompany:
		return &d.Company
	case fieldLocation:
		return &d.Location
	case fieldPay:
		return &d.Pay
	case fieldDate:
		return &d.Date
	}
	return nil
}

// readLinkedInHeader reads the top card: the title line, then a
// "Company - Location - posted" line.
func readLinkedInHeader(header []block, d *Draft) {
	for _, b := range header {
		t := b.text
		if parts := strings.Split(t, " - "); len(parts) >= 2 && (d.Company == "" || d.Location == "") {
			if d.Company == "" {
				d.Company = strings.TrimSpace(parts[0])
			}
			if loc := strings.TrimSpace(parts[1]); d.Location == "" && !reHeaderNoise.MatchString(loc) {
				d.Location = geo.NormalizeLocation(loc)
			}
			continue
		}
		if d.Title == "" && !reHeaderNoise.MatchString(t) && len(t) <= 120 {
			d.Title = t
		}
	}
}

// largestBlock descends from root while a single child holds most of the text.
func largestBlock(root *goquery.Selection) *goquery.Selection {
	cur := root
	for {
		total := textLen(cur)
		var (
			best    *goquery.Selection
			bestLen int
		)
		cur.Children().Each(func(_ int, c *goquery.Selection) {
			if name := goquery.NodeName(c); skipTags[name] || !blockTags[name] {
				return
			}
			if l := textLen(c); l > bestLen {
				best, bestLen = c, l
			}
		})
		if best == nil || bestLen*10 < total*8 {
			return cur
		}
		cur = best
	}
}

func textLen(s *goquery.Selection) int {
	return len(textnorm.Normalize(document.TextOf(s)))
}
