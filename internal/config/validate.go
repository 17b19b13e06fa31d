package config

import (
	"fmt"
	"regexp"
	"strings"

	"hcjobs-engine/internal/geo"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into one value wrapping ErrInvalid.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("%w:\n- %s", ErrInvalid, strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.TargetStates = trimList(out.Filters.TargetStates)
	for i, s := range out.Filters.TargetStates {
		out.Filters.TargetStates[i] = strings.ToUpper(s)
		if !geo.IsState(s) {
			res.addErr("filters.target_states[%d]: %q is not a US state code", i, s)
		}
	}
	out.Classify.DefaultTrack = strings.TrimSpace(out.Classify.DefaultTrack)

	if strings.TrimSpace(out.Output.JSONDir) == "" {
		res.addErr("output.json_dir is required")
	}
	if out.Sources.HTMLDir == "" && out.Sources.WordDir == "" && out.Sources.LinkedInDir == "" {
		res.addWarn("no source directories configured; extract will find nothing.")
	}

	if out.Classify.DefaultTrack == "" {
		res.addErr("classify.default_track is required")
	}
	checkRules(&res, "classify.career_tracks", out.Classify.CareerTracks)
	checkRules(&res, "filters.degree_rules", out.Filters.DegreeRules)

	if out.Filters.MinDegreeScore < 0 {
		res.addErr("filters.min_degree_score must be >= 0")
	}
	if out.Filters.RequireBachelors && len(out.Filters.DegreeRules) == 0 {
		res.addWarn("require_bachelors is true but degree_rules is empty; every posting will be excluded.")
	}

	for i, a := range out.Companies.Aliases {
		if strings.TrimSpace(a.Name) == "" {
			res.addErr("companies.aliases[%d].name is required", i)
		}
		if _, err := regexp.Compile(a.Match); err != nil || a.Match == "" {
			res.addErr("companies.aliases[%d].match is not a valid pattern: %q", i, a.Match)
		}
	}

	return out, res
}

func checkRules(res *Validation, name string, rules []Rule) {
	for i, r := range rules {
		if r.Tag == "" {
			res.addErr("%s[%d].tag is required", name, i)
		}
		if len(r.Any) == 0 {
			res.addErr("%s[%d].any must have at least 1 term", name, i)
		}
		for j, term := range r.Any {
			if term == "" {
				res.addErr("%s[%d].any[%d] cannot be empty", name, i, j)
				continue
			}
			if _, err := regexp.Compile(term); err != nil {
				res.addErr("%s[%d].any[%d]: %v", name, i, j, err)
			}
		}
	}
}

// Validate reports every problem in cfg as one error.
func Validate(cfg Config) error {
	_, res := NormalizeAndValidate(cfg)
	return res.Err()
}
