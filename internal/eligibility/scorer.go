package eligibility

import (
	"fmt"
	"regexp"

	"hcjobs-engine/internal/classify"
	"hcjobs-engine/internal/config"
)

type rule struct {
	tag      string
	weight   int
	patterns []*regexp.Regexp
}

// DegreeScorer sums rule weights over text. Each rule counts once, on its first
// matching pattern.
type DegreeScorer struct {
	rules []rule
	min   int
}

func NewDegreeScorer(rules []config.Rule, minScore int) (*DegreeScorer, error) {
	s := &DegreeScorer{min: minScore}
	for _, r := range rules {
		cr := rule{tag: r.Tag, weight: r.Weight}
		for _, term := range r.Any {
			re, err := classify.CompileTerm(term)
			if err != nil {
				return nil, fmt.Errorf("degree rule %q: %w", r.Tag, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		s.rules = append(s.rules, cr)
	}
	return s, nil
}

func (s *DegreeScorer) Score(text string) (int, []string) {
	score := 0
	var tags []string
	for _, r := range s.rules {
		for _, re := range r.patterns {
			if re.MatchString(text) {
				score += r.weight
				tags = append(tags, r.tag)
				break
			}
		}
	}
	return score, uniq(tags)
}

// MeetsBachelorsRequirement reports whether text asks for at least a
// bachelor's-level education.
func (s *DegreeScorer) MeetsBachelorsRequirement(text string) bool {
	score, _ := s.Score(text)
	return score >= s.min
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
