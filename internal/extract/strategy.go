package extract

import (
	"github.com/rs/zerolog/log"

	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
)

// Draft is what a strategy read from a document. Empty fields were not found.
type Draft struct {
	Title          string
	Company        string
	Location       string
	City           string
	State          string
	Description    string
	Qualifications []string
	Pay            string
	Date           string
	Remote         bool
}

// Usable reports whether the draft names a title, a company or a description.
func (d Draft) Usable() bool {
	return d.Title != "" || d.Company != "" || d.Description != ""
}

// Strategy turns a document into a draft. Applies is a cheap structural check;
// Extract may still decline by returning false.
type Strategy interface {
	Name() string
	Applies(doc *document.Document) bool
	Extract(doc *document.Document) (Draft, bool)
}

type Result struct {
	Draft    Draft
	Strategy string
}

// Selector tries strategies in priority order and takes the first usable draft.
type Selector struct {
	strategies []Strategy
	fallback   Strategy
}

func NewSelector(strategies ...Strategy) *Selector {
	return &Selector{strategies: strategies, fallback: Fallback{}}
}

// DefaultSelector orders the built-in strategies by priority.
func DefaultSelector() *Selector {
	return NewSelector(Table{}, Container{}, Metadata{}, SectionScan{})
}

// Extract never fails: when no strategy yields a usable draft the fallback does.
func (s *Selector) Extract(doc *document.Document) Result {
	for _, st := range s.strategies {
		if d, ok := s.try(st, doc); ok {
			return Result{Draft: d, Strategy: st.Name()}
		}
	}
	d, _ := s.try(s.fallback, doc)
	return Result{Draft: d, Strategy: domain.StrategyNone}
}

func (s *Selector) try(st Strategy, doc *document.Document) (d Draft, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("strategy", st.Name()).
				Str("file", doc.Path).
				Interface("panic", r).
				Msg("strategy crashed, trying next")
			d, ok = Draft{}, false
		}
	}()

	if !st.Applies(doc) {
		return Draft{}, false
	}
	d, ok = st.Extract(doc)
	if !ok || !d.Usable() {
		log.Debug().Str("strategy", st.Name()).Str("file", doc.Path).Msg("strategy declined")
		return Draft{}, false
	}
	return d, true
}

// Fallback only recovers a title from the top heading or title metadata.
type Fallback struct{}

func (Fallback) Name() string { return domain.StrategyNone }

func (Fallback) Applies(*document.Document) bool { return true }

func (Fallback) Extract(doc *document.Document) (Draft, bool) {
	for _, sel := range []string{"h1", "h2", "h3"} {
		if t := firstText(doc.DOM.Find(sel)); t != "" {
			return Draft{Title: t}, true
		}
	}
	for _, key := range []string{"og:title", "twitter:title", "title"} {
		if t, _, _ := splitTitle(doc.Meta[key]); t != "" {
			return Draft{Title: t}, true
		}
	}
	return Draft{}, true
}
