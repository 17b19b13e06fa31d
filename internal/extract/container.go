package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/geo"
	"hcjobs-engine/internal/pay"
	"hcjobs-engine/internal/textnorm"
)

// Job-board page containers. The description selectors double as the
// applicability test.
var (
	containerMarkers = []string{
		"#viewJobSSRRoot", "#jobDescriptionText",
		"[data-company-name]", "[data-testid='inlineHeader-companyName']", ".company-info", ".companyInfo",
		"#app_body", ".app-title",
		".posting-headline",
		".job-description", ".jobs-description",
	}
	descriptionSelectors = []string{
		"#jobDescriptionText", "#content .body", "#app_body #content",
		".posting-page .section-wrapper", ".job-description", ".jobs-description__content", ".jobs-description",
		".description",
	}
	titleSelectors = []string{
		"[data-testid='jobsearch-JobInfoHeader-title']", ".jobsearch-JobInfoHeader-title",
		".app-title", ".posting-headline h2", ".job-title", ".top-card-layout__title", "h1",
	}
	companySelectors = []string{
		"[data-testid='inlineHeader-companyName']", "[data-company-name]", ".jobsearch-CompanyInfoContainer a",
		".company-name", ".company-info .name", ".companyInfo", ".topcard__org-name-link", ".main-header-logo img[alt]",
	}
	paySelectors = []string{
		"#salaryInfoAndJobType", "[data-testid='jobsearch-OtherJobDetailsContainer']", ".salary", ".compensation",
	}
)

// Container reads job-board pages whose layout wraps each field in a known
// element, walking the description container heading by heading.
type Container struct{}

func (Container) Name() string { return domain.StrategyContainer }

func (Container) Applies(doc *document.Document) bool {
	for _, sel := range containerMarkers {
		if doc.DOM.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

func (Container) Extract(doc *document.Document) (Draft, bool) {
	dom := doc.DOM
	metaTitle, metaCompany, metaLocation := splitTitle(firstNonEmpty(doc.Meta["og:title"], doc.Title()))

	var d Draft
	d.Title = firstMatch(dom, titleSelectors, func(s *goquery.Selection) string {
		t, _, _ := splitTitle(s.Text())
		return t
	})
	if d.Title == "" {
		d.Title = metaTitle
	}

	d.Company = firstMatch(dom, companySelectors, func(s *goquery.Selection) string {
		if alt, ok := s.Attr("alt"); ok && goquery.NodeName(s) == "img" {
			return textnorm.Normalize(alt)
		}
		if v, ok := s.Attr("data-company-name"); ok && strings.TrimSpace(v) != "" && v != "true" {
			return textnorm.Normalize(v)
		}
		return textnorm.Normalize(s.Text())
	})
	if d.Company == "" {
		d.Company = metaCompany
	}
	if d.Company == "" {
		if og := textnorm.Normalize(doc.Meta["og:site_name"]); og != "" && len(og) <= 60 && !isBoardName(og) {
			d.Company = og
		}
	}

	d.Location = geo.FindLocation(dom)
	if d.Location == "" {
		d.Location = metaLocation
	}

	root := descriptionRoot(dom)
	secs := sections(blocks(root))
	descLines := render(secs, isDescriptionKind)
	d.Description = textnorm.Block(descLines)
	d.Qualifications = qualificationLines(secs)
	if len(d.Qualifications) == 0 {
		d.Qualifications = filterQualifications(descLines)
	}

	full := document.TextOf(root)
	d.Pay = firstMatch(dom, paySelectors, func(s *goquery.Selection) string {
		return pay.Find(textnorm.Normalize(document.TextOf(s)))
	})
	if d.Pay == "" {
		d.Pay = pay.Find(full)
	}
	d.Date = labeledDate(document.TextOf(dom.Find("body")))

	// structured data beats what the page layout showed
	if jp, ok := doc.JobPosting(); ok {
		applyJobPosting(&d, jp)
	}
	d.Remote = d.Remote || geo.IsRemote(d.Location, full)
	return d, true
}

// descriptionRoot is the first known description container, else the body.
func descriptionRoot(dom *goquery.Document) *goquery.Selection {
	for _, sel := range descriptionSelectors {
		if s := dom.Find(sel).First(); s.Length() > 0 && strings.TrimSpace(s.Text()) != "" {
			return s
		}
	}
	return dom.Find("body")
}

func firstMatch(dom *goquery.Document, selectors []string, read func(*goquery.Selection) string) string {
	for _, sel := range selectors {
		var out string
		dom.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			out = read(s)
			return out == ""
		})
		if out != "" && len(out) <= 200 {
			return out
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func isBoardName(s string) bool {
	switch strings.ToLower(s) {
	case "indeed", "indeed.com", "linkedin", "greenhouse", "lever", "glassdoor", "ziprecruiter":
		return true
	}
	return false
}
