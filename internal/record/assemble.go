package record

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"hcjobs-engine/internal/classify"
	"hcjobs-engine/internal/config"
	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/extract"
	"hcjobs-engine/internal/geo"
	"hcjobs-engine/internal/pay"
	"hcjobs-engine/internal/textnorm"
)

type alias struct {
	re     *regexp.Regexp
	name   string
	prefix string
}

// Assembler turns extraction drafts into finished records. It is safe for
// concurrent use; collectedAt never decreases across calls.
type Assembler struct {
	selector   *extract.Selector
	classifier *classify.Classifier
	aliases    []alias
	now        func() time.Time

	mu   sync.Mutex
	last time.Time
}

type Option func(*Assembler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithSelector replaces the default strategy chain.
func WithSelector(s *extract.Selector) Option {
	return func(a *Assembler) { a.selector = s }
}

// New builds an assembler from the classify and companies sections of cfg.
func New(cfg config.Config, opts ...Option) (*Assembler, error) {
	c, err := classify.New(cfg.Classify.CareerTracks, cfg.Classify.DefaultTrack)
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		selector:   extract.DefaultSelector(),
		classifier: c,
		now:        time.Now,
	}
	for _, al := range cfg.Companies.Aliases {
		re, err := classify.CompileTerm(al.Match)
		if err != nil {
			return nil, fmt.Errorf("company alias %q: %w", al.Name, err)
		}
		a.aliases = append(a.aliases, alias{re: re, name: al.Name, prefix: al.FilePrefix})
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Extract runs the strategy chain over doc and assembles the record.
func (a *Assembler) Extract(doc *document.Document) domain.JobRecord {
	return a.Assemble(doc, a.selector.Extract(doc))
}

// Assemble fills every record field from the draft, applying normalization and
// sentinels.
func (a *Assembler) Assemble(doc *document.Document, res extract.Result) domain.JobRecord {
	d := res.Draft

	title := textnorm.Normalize(d.Title)
	if title == "" {
		title = document.FilenameTitle(doc.Path, a.prefixes()...)
	}
	if title == "" || title == "." {
		title = domain.Unknown
	}

	company := a.company(textnorm.Normalize(d.Company), title, doc.Path)
	description := orUnknown(strings.TrimSpace(d.Description))

	rec := domain.JobRecord{
		JobTitle:           title,
		Company:            company,
		JobDescription:     description,
		Qualifications:     joinQualifications(d.Qualifications),
		SourcePlatform:     doc.Platform(),
		CareerTrack:        a.classifier.CareerTrack(title),
		EntryLevelFlag:     classify.EntryLevel(title, d.Description),
		CollectedAt:        a.stamp().Format(time.RFC3339),
		SourceFile:         sourceFile(doc),
		ExtractionStrategy: res.Strategy,
	}

	location := geo.NormalizeLocation(d.Location)
	if location != "" {
		rec.Location = &location
	}
	rec.City = geo.City(location)
	if c := textnorm.Normalize(d.City); c != "" {
		rec.City = c
	}
	if st := strings.ToUpper(strings.TrimSpace(d.State)); geo.IsState(st) {
		rec.State = &st
	} else {
		named := rec.Company
		if named == domain.Unknown {
			named = ""
		}
		rec.State = geo.InferState(location, named, title)
	}
	rec.Region = geo.RegionOf(rec.State)

	rec.Pay, rec.PayHourlyLow, rec.PayHourlyHigh = normalizePay(d.Pay)
	rec.Date = parseDate(d.Date)
	rec.RemoteFlag = d.Remote || geo.IsRemote(location, d.Description)

	log.Debug().
		Str("file", doc.Path).
		Str("strategy", res.Strategy).
		Str("title", title).
		Str("company", company).
		Msg("record assembled")
	return rec
}

// stamp is the current time, clamped so it never runs backwards.
func (a *Assembler) stamp() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.now().UTC().Truncate(time.Second)
	if t.Before(a.last) {
		t = a.last
	}
	a.last = t
	return t
}

func (a *Assembler) prefixes() []string {
	var out []string
	for _, al := range a.aliases {
		if al.prefix != "" {
			out = append(out, al.prefix)
		}
	}
	return out
}

// company canonicalizes a named company through the alias table. Without a
// name, the file prefix and then the title are tried.
func (a *Assembler) company(name, title, path string) string {
	if name != "" {
		for _, al := range a.aliases {
			if al.re.MatchString(name) {
				return al.name
			}
		}
		return name
	}

	file := strings.ToLower(filepath.Base(path))
	for _, al := range a.aliases {
		if al.prefix != "" && strings.HasPrefix(file, strings.ToLower(al.prefix)+"_") {
			return al.name
		}
	}
	for _, al := range a.aliases {
		if al.re.MatchString(title) {
			return al.name
		}
	}
	return domain.Unknown
}

func sourceFile(doc *document.Document) string {
	if u := canonicalURL(doc.URL); u != "" {
		return u
	}
	return doc.Path
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

// joinQualifications normalizes and de-duplicates lines, joined with "; ".
func joinQualifications(lines []string) string {
	seen := map[string]bool{}
	var out []string
	for _, ln := range lines {
		ln = strings.TrimRight(textnorm.Normalize(ln), ";")
		ln = strings.TrimSpace(strings.TrimLeft(ln, "-* "))
		if ln == "" || seen[strings.ToLower(ln)] {
			continue
		}
		seen[strings.ToLower(ln)] = true
		out = append(out, ln)
	}
	return orUnknown(strings.Join(out, "; "))
}

// normalizePay converts pay text to its hourly display. Empty or placeholder text
// yields the unknown sentinel; text without an amount is kept verbatim.
func normalizePay(text string) (string, *float64, *float64) {
	text = textnorm.Normalize(text)
	switch strings.ToLower(strings.Trim(text, " .")) {
	case "", "-", "n/a", "na", "none", "unknown", "not specified", "tbd":
		return domain.Unknown, nil, nil
	}
	p := pay.Normalize(text)
	return p.Display, p.HourlyLow, p.HourlyHigh
}
