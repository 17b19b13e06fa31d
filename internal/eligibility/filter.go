package eligibility

import (
	"regexp"
	"strings"

	"hcjobs-engine/internal/config"
	"hcjobs-engine/internal/domain"
)

// Reasons a record is excluded.
const (
	ReasonState     = "out_of_scope_state"
	ReasonClinical  = "clinical_role"
	ReasonEducation = "education"
)

var clinicalTitle = regexp.MustCompile(`(?i)\b(?:rn|lpn|cna|np|pa-c|registered\s+nurse|nurse\s+practitioner|physician|therapist|pharmacist|technologist|paramedic|sonographer|nurse)\b`)

// Filter decides which records are written.
type Filter struct {
	cfg    config.Config
	scorer *DegreeScorer
	states map[string]bool
}

func New(cfg config.Config) (*Filter, error) {
	s, err := NewDegreeScorer(cfg.Filters.DegreeRules, cfg.Filters.MinDegreeScore)
	if err != nil {
		return nil, err
	}
	f := &Filter{cfg: cfg, scorer: s, states: map[string]bool{}}
	for _, st := range cfg.Filters.TargetStates {
		f.states[strings.ToUpper(strings.TrimSpace(st))] = true
	}
	return f, nil
}

// ShouldKeep applies the state, clinical and education filters in that order.
// Records without a known state, and remote records, pass the state filter.
func (f *Filter) ShouldKeep(rec domain.JobRecord) (keep bool, reason string) {
	// 1) target states
	if len(f.states) > 0 && rec.State != nil && !rec.RemoteFlag && !f.states[*rec.State] {
		return false, ReasonState
	}

	// 2) licensed clinical roles
	if f.cfg.Filters.ExcludeClinical && clinicalTitle.MatchString(rec.JobTitle) {
		return false, ReasonClinical
	}

	// 3) bachelor's degree
	if f.cfg.Filters.RequireBachelors {
		text := rec.Qualifications + "\n" + rec.JobDescription
		if !f.scorer.MeetsBachelorsRequirement(text) {
			return false, ReasonEducation
		}
	}
	return true, ""
}
