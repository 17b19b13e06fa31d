package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var errNoDocumentXML = errors.New("docx: word/document.xml missing")

func fromDOCX(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: %w", err)
	}

	body, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	root, bodyNode := newHTMLTree()
	if err := convertBody(body, bodyNode); err != nil {
		return nil, err
	}

	d := &Document{DOM: goquery.NewDocumentFromNode(root), Meta: map[string]string{}}
	if core, err := readZipFile(zr, "docProps/core.xml"); err == nil {
		var props coreXML
		if xml.Unmarshal(core, &props) == nil {
			if t := strings.TrimSpace(props.Title); t != "" {
				d.Meta["title"] = t
			}
			if c := strings.TrimSpace(props.Creator); c != "" {
				d.Meta["author"] = c
			}
		}
	}
	return d, nil
}

// coreXML is the part of docProps/core.xml we read.
type coreXML struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	if name == "word/document.xml" {
		return nil, errNoDocumentXML
	}
	return nil, fmt.Errorf("docx: %s missing", name)
}

func newHTMLTree() (root, body *html.Node) {
	root = &html.Node{Type: html.DocumentNode}
	htmlNode := element(atom.Html)
	head := element(atom.Head)
	body = element(atom.Body)
	root.AppendChild(htmlNode)
	htmlNode.AppendChild(head)
	htmlNode.AppendChild(body)
	return root, body
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// paragraph accumulates the runs of one w:p.
type paragraph struct {
	style string
	lines []string
	cur   strings.Builder
}

func (p *paragraph) breakLine() {
	p.lines = append(p.lines, p.cur.String())
	p.cur.Reset()
}

func (p *paragraph) node() *html.Node {
	p.breakLine()

	tag := atom.P
	style := strings.ToLower(p.style)
	switch {
	case style == "title":
		tag = atom.H1
	case strings.HasPrefix(style, "heading"):
		tag = headingAtom(strings.TrimPrefix(style, "heading"))
	case strings.Contains(style, "list"):
		tag = atom.Li
	}

	n := element(tag)
	for i, ln := range p.lines {
		if i > 0 {
			n.AppendChild(element(atom.Br))
		}
		if ln != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: ln})
		}
	}
	return n
}

func headingAtom(level string) atom.Atom {
	switch level {
	case "1":
		return atom.H1
	case "2":
		return atom.H2
	case "3":
		return atom.H3
	case "4":
		return atom.H4
	case "5":
		return atom.H5
	}
	return atom.H6
}

// convertBody walks word/document.xml in document order, mapping paragraphs and
// tables onto HTML elements under body.
func convertBody(data []byte, body *html.Node) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	stack := []*html.Node{body}
	// paragraphs nest when a run holds a text box (w:txbxContent)
	var (
		paras  []*paragraph
		inText bool
	)
	top := func() *paragraph {
		if len(paras) == 0 {
			return nil
		}
		return paras[len(paras)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("docx: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				stack = append(stack, element(atom.Table))
			case "tr":
				stack = append(stack, element(atom.Tr))
			case "tc":
				stack = append(stack, element(atom.Td))
			case "p":
				paras = append(paras, &paragraph{})
			case "pStyle":
				if para := top(); para != nil {
					para.style = attr(t, "val")
				}
			case "t":
				inText = true
			case "tab":
				if para := top(); para != nil {
					para.cur.WriteString(" ")
				}
			case "br", "cr":
				if para := top(); para != nil {
					para.breakLine()
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl", "tr", "tc":
				if len(stack) < 2 {
					continue
				}
				n := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				stack[len(stack)-1].AppendChild(n)
			case "p":
				if para := top(); para != nil {
					stack[len(stack)-1].AppendChild(para.node())
					paras = paras[:len(paras)-1]
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if para := top(); inText && para != nil {
				para.cur.Write(t)
			}
		}
	}
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
