package extract

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/geo"
	"hcjobs-engine/internal/textnorm"
)

// Metadata reads meta tags and schema.org JobPosting data. Each JobPosting field
// overrides the guess taken from the meta tags when both are present.
type Metadata struct{}

func (Metadata) Name() string { return domain.StrategyMetadata }

func (Metadata) Applies(doc *document.Document) bool {
	if _, ok := doc.JobPosting(); ok {
		return true
	}
	if doc.Meta["og:title"] != "" || doc.Meta["twitter:title"] != "" {
		return true
	}
	t := doc.Title()
	return reBoardSuffix.MatchString(t) || reApplication.MatchString(t)
}

func (Metadata) Extract(doc *document.Document) (Draft, bool) {
	var d Draft
	d.Title, d.Company, d.Location = splitTitle(firstNonEmpty(doc.Meta["og:title"], doc.Meta["twitter:title"], doc.Title()))
	if desc := textnorm.Normalize(firstNonEmpty(doc.Meta["og:description"], doc.Meta["description"], doc.Meta["twitter:description"])); desc != "" {
		d.Description = desc
		if loc := geo.LabeledLocation(desc); d.Location == "" && loc != "" {
			d.Location = geo.NormalizeLocation(loc)
		}
	}
	if d.Company == "" {
		if site := textnorm.Normalize(doc.Meta["og:site_name"]); site != "" && !isBoardName(site) {
			d.Company = site
		}
	}
	d.Date = firstNonEmpty(doc.Meta["article:published_time"], doc.Meta["dateposted"])

	if jp, ok := doc.JobPosting(); ok {
		applyJobPosting(&d, jp)
	}
	if len(d.Qualifications) == 0 {
		d.Qualifications = filterQualifications(textnorm.Lines(d.Description))
	}
	d.Remote = d.Remote || geo.IsRemote(d.Location, d.Description)
	return d, true
}

func applyJobPosting(d *Draft, jp map[string]any) {
	if v := textnorm.Normalize(html.UnescapeString(str(jp, "title"))); v != "" {
		d.Title, _, _ = splitTitle(v)
	}
	if v := textnorm.Normalize(firstNonEmpty(str(jp, "hiringOrganization", "name"), str(jp, "hiringOrganization"))); v != "" {
		d.Company = v
	}

	city := textnorm.Normalize(str(jp, "jobLocation", "address", "addressLocality"))
	region := textnorm.Normalize(str(jp, "jobLocation", "address", "addressRegion"))
	if city != "" || region != "" {
		d.City = city
		if code, ok := geo.StateCode(region); ok {
			d.State = code
		} else if geo.IsState(strings.ToUpper(region)) {
			d.State = strings.ToUpper(region)
		}
		d.Location = strings.Trim(city+", "+firstNonEmpty(d.State, region), ", ")
	}

	if v := salaryText(jp); v != "" {
		d.Pay = v
	}
	if v := str(jp, "datePosted"); v != "" {
		d.Date = v
	}
	if strings.EqualFold(str(jp, "jobLocationType"), "TELECOMMUTE") {
		d.Remote = true
	}

	if raw := str(jp, "description"); raw != "" {
		secs := htmlSections(html.UnescapeString(raw))
		lines := render(secs, isDescriptionKind)
		if len(lines) > 0 {
			d.Description = textnorm.Block(lines)
		}
		if q := qualificationLines(secs); len(q) > 0 {
			d.Qualifications = q
		}
	}
	for _, key := range []string{"qualifications", "experienceRequirements", "educationRequirements"} {
		if v := textnorm.Normalize(firstNonEmpty(str(jp, key), str(jp, key, "description"), str(jp, key, "credentialCategory"))); v != "" {
			d.Qualifications = append(d.Qualifications, v)
		}
	}
}

// htmlSections parses an HTML fragment such as a JobPosting description.
func htmlSections(fragment string) []section {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	return sections(blocks(dom.Find("body")))
}

// salaryText renders a MonetaryAmount as "$X - $Y per <unit>" so the pay
// normalizer can read it.
func salaryText(jp map[string]any) string {
	low, hasLow := num(jp, "baseSalary", "value", "minValue")
	high, hasHigh := num(jp, "baseSalary", "value", "maxValue")
	if v, ok := num(jp, "baseSalary", "value", "value"); ok && !hasLow {
		low, hasLow = v, true
	}
	if v, ok := num(jp, "baseSalary", "value"); ok && !hasLow {
		low, hasLow = v, true
	}
	if !hasLow && !hasHigh {
		return ""
	}
	if !hasLow {
		low, hasLow = high, true
		hasHigh = false
	}

	unit := strings.ToUpper(firstNonEmpty(str(jp, "baseSalary", "value", "unitText"), str(jp, "baseSalary", "unitText")))
	var suffix string
	switch unit {
	case "HOUR":
		suffix = "per hour"
	case "DAY":
		low, high = low/8, high/8
		suffix = "per hour"
	case "WEEK":
		low, high = low*52, high*52
		suffix = "per year"
	case "MONTH":
		suffix = "per month"
	case "YEAR":
		suffix = "per year"
	}

	text := "$" + money(low)
	if hasHigh && high != low {
		text += " - $" + money(high)
	}
	return strings.TrimSpace(text + " " + suffix)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// str walks nested JSON objects by key, taking the first element of any array
// on the way. Non-string leaves are formatted.
func str(m map[string]any, keys ...string) string {
	v := walk(m, keys...)
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return money(t)
	case nil, map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func num(m map[string]any, keys ...string) (float64, bool) {
	switch t := walk(m, keys...).(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(t), "$"), ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

func walk(v any, keys ...string) any {
	for _, k := range keys {
		if arr, ok := v.([]any); ok {
			if len(arr) == 0 {
				return nil
			}
			v = arr[0]
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		return arr[0]
	}
	return v
}
