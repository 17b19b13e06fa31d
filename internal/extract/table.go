package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/geo"
	"hcjobs-engine/internal/textnorm"
)

type column int

const (
	colCompany column = iota
	colTitle
	colDescription
	colQualifications
	colPay
	colDate
	numColumns
)

// header synonyms per column, compared after stripping non-letters
var columnSynonyms = [numColumns][]string{
	colCompany:        {"company", "employer", "organization", "hospital", "facility", "companyname"},
	colTitle:          {"jobtitle", "title", "position", "role", "jobname"},
	colDescription:    {"jobdescription", "description", "duties", "responsibilities", "summary", "jobsummary"},
	colQualifications: {"qualifications", "requirements", "skills", "education", "minimumqualifications"},
	colPay:            {"pay", "salary", "compensation", "wage", "rate", "payrange", "hourlyrange"},
	colDate:           {"date", "posted", "dateposted", "deadline", "closing"},
}

// minHeaderColumns is how many of the six columns a header row must name.
const minHeaderColumns = 4

// Table reads a posting laid out as a header row of column names followed by
// one row of values, as produced by Word job-listing templates.
type Table struct{}

func (Table) Name() string { return domain.StrategyTable }

func (Table) Applies(doc *document.Document) bool {
	_, _, _, ok := findHeaderRow(doc.DOM.Selection)
	return ok
}

func (Table) Extract(doc *document.Document) (Draft, bool) {
	header, names, row, ok := findHeaderRow(doc.DOM.Selection)
	if !ok || row == nil {
		return Draft{}, false
	}
	cells := rowCells(row)
	value := func(c column) string {
		i, ok := header[c]
		if !ok || i >= len(cells) {
			return ""
		}
		return cells[i]
	}

	descLines := textnorm.Lines(value(colDescription))
	quals := textnorm.Lines(value(colQualifications))
	if len(quals) == 0 {
		var labeled []string
		descLines, labeled = splitQualifications(descLines)
		quals = labeled
		if len(quals) == 0 {
			quals = filterQualifications(descLines)
		}
	}

	desc := textnorm.Block(descLines)
	d := Draft{
		Title:          textnorm.Normalize(value(colTitle)),
		Company:        textnorm.Normalize(value(colCompany)),
		Description:    desc,
		Qualifications: quals,
		Pay:            textnorm.Normalize(value(colPay)),
		Location:       geo.LabeledLocation(value(colDescription)),
	}
	if i, ok := header[colDate]; ok && !isClosingHeader(names[i]) {
		d.Date = textnorm.Normalize(value(colDate))
	}
	d.Remote = geo.IsRemote(d.Location, desc)
	return d, true
}

// findHeaderRow returns the column index of each recognised header cell, the
// header cell texts and the row that follows the header.
func findHeaderRow(root *goquery.Selection) (map[column]int, []string, *goquery.Selection, bool) {
	var (
		header map[column]int
		names  []string
		next   *goquery.Selection
	)
	root.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := rowCells(tr)
		if len(cells) < minHeaderColumns {
			return true
		}
		cols := matchColumns(cells)
		if len(cols) < minHeaderColumns {
			return true
		}
		header, names = cols, cells
		if n := tr.NextAllFiltered("tr").First(); n.Length() > 0 {
			next = n
		}
		return false
	})
	return header, names, next, header != nil
}

// isClosingHeader reports a date column holding the application deadline
// rather than the posting date.
func isClosingHeader(name string) bool {
	key := lettersOnly(name)
	return strings.Contains(key, "deadline") || strings.Contains(key, "clos")
}

func rowCells(tr *goquery.Selection) []string {
	var out []string
	tr.ChildrenFiltered("td,th").Each(func(_ int, c *goquery.Selection) {
		out = append(out, document.TextOf(c))
	})
	return out
}

// matchColumns maps each header cell to at most one column; each column is
// claimed by its first matching cell.
func matchColumns(cells []string) map[column]int {
	found := map[column]int{}
	for i, cell := range cells {
		key := lettersOnly(cell)
		if len(key) < 3 {
			continue
		}
		for c := column(0); c < numColumns; c++ {
			if _, taken := found[c]; taken {
				continue
			}
			if synonymMatch(key, columnSynonyms[c]) {
				found[c] = i
				break
			}
		}
	}
	return found
}

func synonymMatch(key string, synonyms []string) bool {
	for _, s := range synonyms {
		if strings.HasPrefix(key, s) {
			return true
		}
		if len(key) >= 4 && strings.HasPrefix(s, key) {
			return true
		}
	}
	return false
}

func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
