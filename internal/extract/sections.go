package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/textnorm"
)

type sectionKind int

const (
	kindOther sectionKind = iota
	kindOverview
	kindResponsibilities
	kindQualifications
	kindBenefits
	kindCompany
)

// heading keyword groups, first match wins
var headingGroups = []struct {
	kind sectionKind
	re   *regexp.Regexp
}{
	{kindOverview, regexp.MustCompile(`(?i)^(?:about\s+(?:the|this)\s+(?:job|role|position|opportunity)|(?:job|position|role)\s+(?:summary|overview|description)|overview|summary|description|the\s+role|general\s+summary)\b`)},
	{kindQualifications, regexp.MustCompile(`(?i)^(?:(?:minimum|required|preferred|basic|job)\s+(?:qualifications|requirements|skills)|qualifications|requirements|what\s+you(?:'ll|\s+will)?\s+(?:need|bring)|who\s+you\s+are|education(?:\s+(?:and|&)\s+experience)?|experience|skills|knowledge,?\s+skills(?:,?\s+and\s+abilities)?|licensure|certifications?|option\s+i+)\b`)},
	{kindResponsibilities, regexp.MustCompile(`(?i)^(?:(?:key|primary|essential|job|major)\s+(?:responsibilities|duties|functions)|essential\s+functions|responsibilities|duties|what\s+you(?:'ll|\s+will)\s+do|day\s+to\s+day|in\s+this\s+role)\b`)},
	{kindBenefits, regexp.MustCompile(`(?i)^(?:benefits|perks|what\s+we\s+offer|compensation(?:\s+and\s+benefits)?|why\s+join\b.*)\b`)},
	{kindCompany, regexp.MustCompile(`^(?i:about)\s+(?:(?i:us|the\s+company|our\s+(?:company|organization))\b|[A-Z].*)`)},
}

// classifyHeading matches a heading, or a "Heading: text" line, against the keyword
// groups; rest is any text after the colon. In strict mode a heading without a
// colon must consist of the keyword phrase alone.
func classifyHeading(line string, strict bool) (kind sectionKind, rest string, ok bool) {
	head := strings.TrimSpace(line)
	label, after, colon := strings.Cut(head, ":")
	if colon {
		head, rest = strings.TrimSpace(label), strings.TrimSpace(after)
	}
	if head == "" || len(head) > 60 || len(strings.Fields(head)) > 7 {
		return kindOther, "", false
	}
	for _, g := range headingGroups {
		loc := g.re.FindStringIndex(head)
		if loc == nil {
			continue
		}
		if strict && !colon && loc[1] != len(head) {
			return kindOther, "", false
		}
		return g.kind, rest, true
	}
	return kindOther, "", false
}

type section struct {
	heading string
	kind    sectionKind
	lines   []string
	items   []string
}

type block struct {
	text    string
	tag     string
	heading bool
	parent  *html.Node
}

var blockTags = map[string]bool{
	"p": true, "li": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"div": true, "section": true, "article": true, "main": true, "ul": true, "ol": true,
	"table": true, "tbody": true, "thead": true, "tr": true, "td": true, "th": true,
	"dl": true, "dt": true, "dd": true, "pre": true, "header": true, "footer": true, "blockquote": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "nav": true, "form": true, "button": true,
}

// blocks flattens root into leaf text blocks in document order. Inline runs
// directly inside a container become a block of their own.
func blocks(root *goquery.Selection) []block {
	var out []block
	for _, n := range root.Nodes {
		walkBlocks(n, &out)
	}
	return out
}

func walkBlocks(n *html.Node, out *[]block) {
	if n.Type == html.ElementNode && skipTags[n.Data] {
		return
	}
	if n.Type == html.ElementNode && blockTags[n.Data] && !hasBlockChild(n) {
		emit(n, n.Data, n.Parent, out)
		return
	}

	var inline []*html.Node
	flush := func() {
		if len(inline) == 0 {
			return
		}
		wrap := &html.Node{Type: html.ElementNode, Data: "div"}
		for _, c := range inline {
			wrap.AppendChild(cloneTree(c))
		}
		emit(wrap, "div", n, out)
		inline = nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (blockTags[c.Data] || skipTags[c.Data]) {
			flush()
			walkBlocks(c, out)
			continue
		}
		if c.Type == html.TextNode || c.Type == html.ElementNode {
			inline = append(inline, c)
		}
	}
	flush()
}

func emit(n *html.Node, tag string, parent *html.Node, out *[]block) {
	sel := goquery.NewDocumentFromNode(n).Selection
	lines := textnorm.Lines(document.TextOf(sel))
	bold := textnorm.Normalize(sel.Find("b,strong").Text())
	for _, ln := range lines {
		*out = append(*out, block{
			text:    ln,
			tag:     tag,
			heading: len(lines) == 1 && isHeadingBlock(tag, ln, bold == ln),
			parent:  parent,
		})
	}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if blockTags[c.Data] || hasBlockChild(c) {
			return true
		}
	}
	return false
}

func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Attr: n.Attr}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(cloneTree(k))
	}
	return c
}

func isHeadingBlock(tag, text string, boldOnly bool) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "dt", "th":
		return true
	case "li":
		return false
	}
	if len(text) > 80 {
		return false
	}
	if strings.HasSuffix(text, ":") || textnorm.IsHeading(text) || boldOnly {
		return true
	}
	_, _, ok := classifyHeading(text, true)
	return ok && !strings.Contains(text, ":")
}

// sections groups blocks under the heading that precedes them.
func sections(bs []block) []section {
	cur := section{}
	var out []section
	for _, b := range bs {
		if b.heading {
			kind, rest, _ := classifyHeading(b.text, false)
			if len(cur.lines) > 0 || cur.heading != "" {
				out = append(out, cur)
			}
			cur = section{heading: strings.TrimSpace(strings.TrimSuffix(b.text, rest)), kind: kind}
			if rest != "" {
				cur.lines = append(cur.lines, rest)
			}
			continue
		}
		if kind, rest, ok := classifyHeading(b.text, false); ok && rest != "" {
			// "Requirements: ..." inline label starts a section of its own
			if len(cur.lines) > 0 || cur.heading != "" {
				out = append(out, cur)
			}
			cur = section{heading: b.text[:len(b.text)-len(rest)], kind: kind, lines: []string{rest}}
			continue
		}
		cur.lines = append(cur.lines, b.text)
		if b.tag == "li" {
			cur.items = append(cur.items, b.text)
		}
	}
	if len(cur.lines) > 0 || cur.heading != "" {
		out = append(out, cur)
	}
	return out
}

// render writes sections back as heading-aware text.
func render(secs []section, keep func(sectionKind) bool) []string {
	var out []string
	for _, s := range secs {
		if !keep(s.kind) {
			continue
		}
		if s.heading != "" {
			out = append(out, strings.TrimSpace(s.heading))
		}
		out = append(out, s.lines...)
	}
	return out
}

// qualificationLines prefers list items under the first qualifications heading.
func qualificationLines(secs []section) []string {
	var out []string
	for _, s := range secs {
		if s.kind != kindQualifications {
			continue
		}
		if len(s.items) > 0 {
			out = append(out, s.items...)
		} else {
			out = append(out, s.lines...)
		}
	}
	return out
}

func isDescriptionKind(k sectionKind) bool {
	return k == kindOther || k == kindOverview || k == kindResponsibilities
}
