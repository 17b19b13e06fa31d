package document

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hcjobs-engine/internal/textnorm"
)

func fromHTML(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	d := &Document{DOM: doc, Meta: map[string]string{}}
	d.readMeta()
	d.JSONLD = readJSONLD(doc)
	d.URL = d.sourceURL()
	return d, nil
}

func (d *Document) readMeta() {
	d.DOM.Find("meta").Each(func(_ int, m *goquery.Selection) {
		content, ok := m.Attr("content")
		if !ok {
			return
		}
		for _, attr := range []string{"property", "name", "itemprop"} {
			if key, ok := m.Attr(attr); ok && key != "" {
				key = strings.ToLower(strings.TrimSpace(key))
				if _, seen := d.Meta[key]; !seen {
					d.Meta[key] = strings.TrimSpace(content)
				}
			}
		}
	})
	if t := textnorm.Normalize(d.DOM.Find("title").First().Text()); t != "" {
		d.Meta["title"] = t
	}
}

func (d *Document) sourceURL() string {
	if v, ok := d.DOM.Find("#indeed-share-url").Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := d.Meta["og:url"]; v != "" {
		return v
	}
	if v, ok := d.DOM.Find(`link[rel="canonical"]`).Attr("href"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// readJSONLD decodes every ld+json block, flattening arrays and @graph lists.
// Blocks that do not decode are skipped.
func readJSONLD(doc *goquery.Document) []map[string]any {
	var out []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		out = append(out, flattenLD(v)...)
	})
	return out
}

func flattenLD(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, x := range t {
			out = append(out, flattenLD(x)...)
		}
		return out
	case map[string]any:
		if g, ok := t["@graph"]; ok {
			return flattenLD(g)
		}
		return []map[string]any{t}
	}
	return nil
}

// JobPosting returns the first JSON-LD object typed JobPosting.
func (d *Document) JobPosting() (map[string]any, bool) {
	for _, obj := range d.JSONLD {
		switch typ := obj["@type"].(type) {
		case string:
			if strings.EqualFold(typ, "JobPosting") {
				return obj, true
			}
		case []any:
			for _, x := range typ {
				if s, ok := x.(string); ok && strings.EqualFold(s, "JobPosting") {
					return obj, true
				}
			}
		}
	}
	return nil, false
}
