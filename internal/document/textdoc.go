package document

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"hcjobs-engine/internal/textnorm"
)

var bulletPrefixes = []string{"\u2022", "\u25e6", "\u25aa", "\u00b7", "-", "*"}

// fromText converts a plain-text export to HTML: headings become h3, bullet
// runs become lists and every other line a paragraph.
func fromText(text string) *Document {
	root, body := newHTMLTree()

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var list *html.Node
	paraStart := true

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			paraStart = true
			list = nil
			continue
		}

		if item, ok := bulletItem(line); ok {
			if list == nil {
				list = element(atom.Ul)
				body.AppendChild(list)
			}
			li := element(atom.Li)
			li.AppendChild(&html.Node{Type: html.TextNode, Data: item})
			list.AppendChild(li)
			paraStart = false
			continue
		}
		list = nil

		tag := atom.P
		if textHeading(line, paraStart, nextLine(lines, i)) {
			tag = atom.H3
		}
		n := element(tag)
		n.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		body.AppendChild(n)
		paraStart = false
	}

	return &Document{DOM: goquery.NewDocumentFromNode(root), Meta: map[string]string{}}
}

func bulletItem(line string) (string, bool) {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			rest := strings.TrimSpace(strings.TrimPrefix(line, p))
			if rest == "" || rest == line {
				return "", false
			}
			return rest, true
		}
	}
	return "", false
}

func nextLine(lines []string, i int) string {
	if i+1 < len(lines) {
		return strings.TrimSpace(lines[i+1])
	}
	return ""
}

// textHeading treats a short, unpunctuated, capitalized line that opens a
// paragraph and is followed by more text as a heading.
func textHeading(line string, paraStart bool, next string) bool {
	if textnorm.IsHeading(line) {
		return true
	}
	if !paraStart || next == "" || len(line) > 60 || len(strings.Fields(line)) > 6 {
		return false
	}
	if strings.ContainsAny(line, ",\u00b7$|") || strings.ContainsAny(line[len(line)-1:], ".!?;") {
		return false
	}
	r := []rune(line)
	return unicode.IsUpper(r[0])
}
