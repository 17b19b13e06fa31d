package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
)

func parseHTML(t *testing.T, src string) *document.Document {
	t.Helper()
	return document.Parse("posting.html", document.FormatHTML, []byte(src))
}

const tablePage = `<html><body>
<p>Company: Other Co</p>
<table>
<tr><th>Company</th><th>Job Title</th><th>Job Description</th><th>Qualifications</th><th>Pay</th><th>Date Posted</th></tr>
<tr><td>HCA</td><td>Patient Access Coordinator</td><td>Register patients. Location: Boise, ID</td><td>High school diploma required</td><td>$18.50/hr</td><td>2025-01-15</td></tr>
</table>
</body></html>`

func TestSelector_TableBeatsSectionScan(t *testing.T) {
	doc := parseHTML(t, tablePage)
	require.True(t, SectionScan{}.Applies(doc))
	require.True(t, Table{}.Applies(doc))

	res := DefaultSelector().Extract(doc)
	assert.Equal(t, domain.StrategyTable, res.Strategy)
	assert.Equal(t, "HCA", res.Draft.Company)
	assert.Equal(t, "Patient Access Coordinator", res.Draft.Title)
	assert.Equal(t, "$18.50/hr", res.Draft.Pay)
	assert.Equal(t, "2025-01-15", res.Draft.Date)
	assert.Equal(t, "Boise, ID", res.Draft.Location)
	assert.Equal(t, []string{"High school diploma required"}, res.Draft.Qualifications)
}

func TestTable_RequiresFourColumns(t *testing.T) {
	doc := parseHTML(t, `<table><tr><td>Name</td><td>Phone</td><td>Pay</td><td>Date</td></tr><tr><td>a</td><td>b</td><td>c</td><td>d</td></tr></table>`)
	assert.False(t, Table{}.Applies(doc))
}

func TestMatchColumns(t *testing.T) {
	cols := matchColumns([]string{"Employer Name", "Position", "Duties", "Requirements", "Salary Range", "Closing Date"})
	assert.Len(t, cols, 6)
	assert.Equal(t, 0, cols[colCompany])
	assert.Equal(t, 4, cols[colPay])

	cols = matchColumns([]string{"Pay", "Salary"})
	assert.Len(t, cols, 1, "one column per group")
}

func TestSelector_EmptyDocumentFallsBack(t *testing.T) {
	for _, doc := range []*document.Document{
		parseHTML(t, ""),
		document.Empty(),
		document.Parse("empty.txt", document.FormatText, nil),
		document.Parse("broken.docx", document.FormatDOCX, []byte("not a zip")),
	} {
		res := DefaultSelector().Extract(doc)
		assert.Equal(t, domain.StrategyNone, res.Strategy)
		assert.Equal(t, Draft{}, res.Draft)
	}
}

func TestSelector_FallbackUsesTitleMetadata(t *testing.T) {
	res := DefaultSelector().Extract(parseHTML(t, `<html><head><title>Welcome</title></head><body></body></html>`))
	assert.Equal(t, domain.StrategyNone, res.Strategy)
	assert.Equal(t, "Welcome", res.Draft.Title)
}

type panicking struct{}

func (panicking) Name() string { return "panicking" }
func (panicking) Applies(*document.Document) bool { return true }
func (panicking) Extract(*document.Document) (Draft, bool) { panic("boom") }

type fixed struct {
	name  string
	draft Draft
}

func (f fixed) Name() string { return f.name }
func (f fixed) Applies(*document.Document) bool { return true }
func (f fixed) Extract(*document.Document) (Draft, bool) { return f.draft, true }

func TestSelector_RecoversAndDeclines(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = orig }()

	sel := NewSelector(
		panicking{},
		fixed{name: "empty"},
		fixed{name: "good", draft: Draft{Title: "Scheduler"}},
	)
	var res Result
	require.NotPanics(t, func() { res = sel.Extract(document.Empty()) })
	assert.Equal(t, "good", res.Strategy)
	assert.Equal(t, "Scheduler", res.Draft.Title)
	assert.Contains(t, buf.String(), `"strategy":"panicking"`)
	assert.Contains(t, buf.String(), "strategy crashed")
}

const indeedPage = `<html><head><title>Patient Access Representative - Boise, ID - Indeed.com</title></head><body>
<div id="viewJobSSRRoot">
<h1 class="jobsearch-JobInfoHeader-title">Patient Access Representative</h1>
<div data-testid="inlineHeader-companyName"><a>St. Luke's Health System</a></div>
<div data-testid="inlineHeader-companyLocation">Boise, ID 83702</div>
<div id="salaryInfoAndJobType"><span>$17 - $21 an hour</span></div>
<div id="jobDescriptionText">
<p>Greet and register patients at the front desk.</p>
<h3>Qualifications</h3>
<ul><li>High school diploma or equivalent</li><li>1 year of customer service experience</li></ul>
<h3>Benefits</h3>
<ul><li>Medical, dental and vision</li></ul>
</div>
</div>
</body></html>`

func TestContainer_IndeedPage(t *testing.T) {
	res := DefaultSelector().Extract(parseHTML(t, indeedPage))
	d := res.Draft

	assert.Equal(t, domain.StrategyContainer, res.Strategy)
	assert.Equal(t, "Patient Access Representative", d.Title)
	assert.Equal(t, "St. Luke's Health System", d.Company)
	assert.Contains(t, d.Location, "Boise")
	assert.Equal(t, "$17 - $21 an hour", d.Pay)
	assert.Equal(t, "Greet and register patients at the front desk.", d.Description)
	assert.Equal(t, []string{"High school diploma or equivalent", "1 year of customer service experience"}, d.Qualifications)
	assert.False(t, d.Remote)
}

func TestContainer_JobPostingOverridesLayout(t *testing.T) {
	ld := `<script type="application/ld+json">{"@context":"https://schema.org","@type":"JobPosting","title":"Patient Access Representative","hiringOrganization":{"@type":"Organization","name":"St. Luke's"},"baseSalary":{"@type":"MonetaryAmount","currency":"USD","value":{"@type":"QuantitativeValue","minValue":18,"maxValue":22,"unitText":"HOUR"}},"datePosted":"2024-03-01","jobLocationType":"TELECOMMUTE"}</script>`
	page := strings.Replace(indeedPage, "</head>", ld+"</head>", 1)

	res := DefaultSelector().Extract(parseHTML(t, page))
	d := res.Draft

	assert.Equal(t, domain.StrategyContainer, res.Strategy)
	assert.Equal(t, "St. Luke's", d.Company)
	assert.Equal(t, "$18 - $22 per hour", d.Pay)
	assert.Equal(t, "2024-03-01", d.Date)
	assert.True(t, d.Remote)
	assert.Contains(t, d.Location, "Boise")
	assert.Equal(t, "Greet and register patients at the front desk.", d.Description)
	assert.Equal(t, []string{"High school diploma or equivalent", "1 year of customer service experience"}, d.Qualifications)
}

const jsonLDPage = `<html><head><title>Revenue Cycle Analyst</title>
<meta property="og:title" content="Revenue Cycle Analyst at Intermountain Health">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"JobPosting","title":"Revenue Cycle Analyst II","hiringOrganization":{"@type":"Organization","name":"Intermountain Health"},"jobLocation":{"@type":"Place","address":{"addressLocality":"Salt Lake City","addressRegion":"UT"}},"baseSalary":{"@type":"MonetaryAmount","currency":"USD","value":{"@type":"QuantitativeValue","minValue":52000,"maxValue":62400,"unitText":"YEAR"}},"datePosted":"2025-02-03","description":"&lt;p&gt;Analyze claims.&lt;/p&gt;&lt;h3&gt;Qualifications&lt;/h3&gt;&lt;ul&gt;&lt;li&gt;Bachelor's degree in finance&lt;/li&gt;&lt;/ul&gt;"}</script>
</head><body><div>Apply now</div></body></html>`

func TestMetadata_JobPostingOverridesMetaTags(t *testing.T) {
	res := DefaultSelector().Extract(parseHTML(t, jsonLDPage))
	d := res.Draft

	assert.Equal(t, domain.StrategyMetadata, res.Strategy)
	assert.Equal(t, "Revenue Cycle Analyst II", d.Title)
	assert.Equal(t, "Intermountain Health", d.Company)
	assert.Equal(t, "Salt Lake City", d.City)
	assert.Equal(t, "UT", d.State)
	assert.Equal(t, "Salt Lake City, UT", d.Location)
	assert.Equal(t, "$52000 - $62400 per year", d.Pay)
	assert.Equal(t, "2025-02-03", d.Date)
	assert.Equal(t, "Analyze claims.", d.Description)
	assert.Equal(t, []string{"Bachelor's degree in finance"}, d.Qualifications)
}

func TestSalaryText(t *testing.T) {
	tests := []struct {
		name string
		jp   map[string]any
		want string
	}{
		{"hourly single", map[string]any{"baseSalary": map[string]any{"value": map[string]any{"value": 18.5, "unitText": "HOUR"}}}, "$18.5 per hour"},
		{"daily to hourly", map[string]any{"baseSalary": map[string]any{"value": map[string]any{"minValue": 160.0, "maxValue": 200.0, "unitText": "DAY"}}}, "$20 - $25 per hour"},
		{"plain number", map[string]any{"baseSalary": map[string]any{"value": 45000.0, "unitText": "YEAR"}}, "$45000 per year"},
		{"string amount", map[string]any{"baseSalary": map[string]any{"value": map[string]any{"minValue": "$1,200", "unitText": "WEEK"}}}, "$62400 per year"},
		{"missing", map[string]any{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, salaryText(tt.jp))
		})
	}
}

func TestSectionScan_LinkedInExport(t *testing.T) {
	txt := "Patient Access Coordinator\nAcme Health \u00b7 Boise, ID (On-site)\n\nAbout the job\nWe are hiring a coordinator. No experience required.\n\nQualifications\n\u2022 High school diploma\n\u2022 Customer service experience\n\nPay: $18.50/hr"
	res := DefaultSelector().Extract(document.Parse("linkedin_pos3.txt", document.FormatText, []byte(txt)))
	d := res.Draft

	assert.Equal(t, domain.StrategySection, res.Strategy)
	assert.Equal(t, "Patient Access Coordinator", d.Title)
	assert.Equal(t, "Acme Health", d.Company)
	assert.Contains(t, d.Location, "Boise, ID")
	assert.Equal(t, "$18.50/hr", d.Pay)
	assert.Equal(t, "We are hiring a coordinator. No experience required.", d.Description)
	assert.Equal(t, []string{"High school diploma", "Customer service experience"}, d.Qualifications)
}

const labelledPage = `<html><body><div class="posting">
<h2>Medical Billing Specialist</h2>
<p><b>Company:</b> Valley Clinic</p>
<p><b>Location:</b> Pocatello, ID</p>
<p>Valley Clinic is looking for a billing specialist to join our growing revenue team. You will submit claims, follow up on denials and work with payers daily.</p>
<h3>Requirements</h3>
<ul><li>2 years of medical billing experience</li><li>Knowledge of CPT coding</li></ul>
</div></body></html>`

func TestSectionScan_Labels(t *testing.T) {
	res := DefaultSelector().Extract(parseHTML(t, labelledPage))
	d := res.Draft

	assert.Equal(t, domain.StrategySection, res.Strategy)
	assert.Equal(t, "Medical Billing Specialist", d.Title)
	assert.Equal(t, "Valley Clinic", d.Company)
	assert.Equal(t, "Pocatello, ID", d.Location)
	assert.Contains(t, d.Description, "submit claims")
	assert.NotContains(t, d.Description, "Company:")
	assert.Equal(t, []string{"2 years of medical billing experience", "Knowledge of CPT coding"}, d.Qualifications)
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		raw                        string
		title, company, location string
	}{
		{"Job Application for Patient Access Rep at St. Luke's Health System", "Patient Access Rep", "St. Luke's Health System", ""},
		{"Billing Specialist - Boise, ID - Indeed.com", "Billing Specialist", "", "Boise, ID"},
		{"Revenue Cycle Analyst at Intermountain Health", "Revenue Cycle Analyst", "Intermountain Health", ""},
		{"Unit Clerk | LinkedIn", "Unit Clerk", "", ""},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			title, company, location := splitTitle(tt.raw)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.company, company)
			assert.Equal(t, tt.location, location)
		})
	}
}

func TestClassifyHeading(t *testing.T) {
	tests := []struct {
		line   string
		strict bool
		kind   sectionKind
		rest   string
		ok     bool
	}{
		{"Minimum Qualifications", true, kindQualifications, "", true},
		{"Requirements: HS diploma", true, kindQualifications, "HS diploma", true},
		{"Essential Functions", true, kindResponsibilities, "", true},
		{"Job Summary", true, kindOverview, "", true},
		{"About Acme Health", true, kindCompany, "", true},
		{"What we offer", true, kindBenefits, "", true},
		{"Experience with Epic preferred", true, kindOther, "", false},
		{"Experience with Epic preferred", false, kindQualifications, "", true},
		{"Greet patients", false, kindOther, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			kind, rest, ok := classifyHeading(tt.line, tt.strict)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.rest, rest)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSplitQualifications(t *testing.T) {
	desc, quals := splitQualifications([]string{
		"Schedule appointments.",
		"Qualifications:",
		"High school diploma",
		"Benefits",
		"PTO",
	})
	assert.Equal(t, []string{"Schedule appointments.", "Benefits", "PTO"}, desc)
	assert.Equal(t, []string{"High school diploma"}, quals)
}

func TestFilterQualifications(t *testing.T) {
	got := filterQualifications([]string{
		"REQUIREMENTS",
		"Bachelor's degree preferred",
		"Answer phones",
		"3+ years in a clinic",
		"Strong communication skills",
	})
	assert.Equal(t, []string{"Bachelor's degree preferred", "3+ years in a clinic", "Strong communication skills"}, got)
}
