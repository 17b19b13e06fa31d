package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"hcjobs-engine/internal/textnorm"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is a parsed source file. DOM is always non-nil; text exports and
// Word files are converted to an equivalent HTML tree.
type Document struct {
	Path   string
	Format Format
	DOM    *goquery.Document
	// Meta holds meta tags keyed by name/property/itemprop, plus "title".
	Meta   map[string]string
	JSONLD []map[string]any
	// URL is the original posting address when the document carries one.
	URL string

	text string
}

// FormatOf maps a file extension to a format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads and parses path. Only read failures and unknown extensions are errors;
// content that cannot be parsed yields an empty document.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, format, data), nil
}

// Parse builds a document from raw bytes.
func Parse(path string, format Format, data []byte) *Document {
	var (
		d   *Document
		err error
	)
	switch format {
	case FormatHTML:
		d, err = fromHTML(bytes.NewReader(data))
	case FormatDOCX:
		d, err = fromDOCX(data)
	default:
		d = fromText(string(data))
	}
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("document not parseable, using empty document")
		d = Empty()
	}
	d.Path = path
	d.Format = format
	return d
}

// Empty is a document with no content.
func Empty() *Document {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
	return &Document{DOM: doc, Meta: map[string]string{}}
}

// Name is the base file name.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Text is the visible text of the body, one block per line.
func (d *Document) Text() string {
	if d.text == "" && d.DOM != nil {
		d.text = TextOf(d.DOM.Find("body"))
	}
	return d.text
}

// Lines is the normalized, de-duplicated list of non-blank text lines.
func (d *Document) Lines() []string {
	return textnorm.Lines(d.Text())
}

// Title is the <title> or core-properties title, if any.
func (d *Document) Title() string {
	return d.Meta["title"]
}

var platformHints = []struct {
	platform string
	sel      string
	host     string
}{
	{"indeed", "#viewJobSSRRoot, #jobDescriptionText, #indeed-share-url", "indeed.com"},
	{"greenhouse", "#app_body, .app-title, #grnhse_app", "greenhouse.io"},
	{"lever", ".posting-headline, .posting-page", "lever.co"},
	{"linkedin", ".jobs-description, .top-card-layout", "linkedin.com"},
}

// Platform names the job board the document came from, or its format family.
func (d *Document) Platform() string {
	switch d.Format {
	case FormatDOCX:
		return "word"
	case FormatText:
		if strings.Contains(strings.ToLower(d.Text()), "about the job") ||
			strings.Contains(strings.ToLower(d.Name()), "linkedin") {
			return "linkedin"
		}
		return "text"
	}

	hosts := strings.ToLower(d.URL + " " + d.Meta["og:url"] + " " + d.Meta["og:site_name"])
	for _, h := range platformHints {
		if strings.Contains(hosts, h.host) || d.DOM.Find(h.sel).Length() > 0 {
			return h.platform
		}
	}
	return "html"
}

var (
	reFileNoise = regexp.MustCompile(`(?i)(?:[_\s-]*pos\d+|_\d+)$`)
	reSeparator = regexp.MustCompile(`[_\s]+`)
)

// FilenameTitle derives a readable title from the file name, dropping any of the
// given employer prefixes ("HCA_..."), trailing "_3" / "pos3" counters and underscores.
func FilenameTitle(path string, prefixes ...string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	for _, p := range prefixes {
		if p != "" && len(name) > len(p)+1 && strings.EqualFold(name[:len(p)+1], p+"_") {
			name = name[len(p)+1:]
			break
		}
	}
	for {
		trimmed := reFileNoise.ReplaceAllString(name, "")
		if trimmed == name {
			break
		}
		name = trimmed
	}
	return textnorm.Normalize(reSeparator.ReplaceAllString(name, " "))
}
