package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is an ordered (tag, patterns) pair. Each entry of Any is a regular
// expression matched case-insensitively on word boundaries.
type Rule struct {
	Tag    string   `yaml:"tag"`
	Weight int      `yaml:"weight,omitempty"`
	Any    []string `yaml:"any"`
}

// Alias maps a company mention (regular expression) to its canonical name.
// FilePrefix, when set, also attributes files named "<prefix>_..." to the company.
type Alias struct {
	Match      string `yaml:"match"`
	Name       string `yaml:"name"`
	FilePrefix string `yaml:"file_prefix,omitempty"`
}

type Config struct {
	Sources struct {
		HTMLDir     string `yaml:"html_dir"`
		WordDir     string `yaml:"word_dir"`
		LinkedInDir string `yaml:"linkedin_dir"`
	} `yaml:"sources"`

	Output struct {
		JSONDir     string `yaml:"json_dir"`
		ExcelPath   string `yaml:"excel_path"`
		SummaryPath string `yaml:"summary_path"`
		PerPlatform bool   `yaml:"per_platform"`
	} `yaml:"output"`

	Filters struct {
		RequireBachelors bool     `yaml:"require_bachelors"`
		MinDegreeScore   int      `yaml:"min_degree_score"`
		DegreeRules      []Rule   `yaml:"degree_rules"`
		TargetStates     []string `yaml:"target_states"`
		ExcludeClinical  bool     `yaml:"exclude_clinical"`
	} `yaml:"filters"`

	Classify struct {
		DefaultTrack string `yaml:"default_track"`
		CareerTracks []Rule `yaml:"career_tracks"`
	} `yaml:"classify"`

	Companies struct {
		Aliases []Alias `yaml:"aliases"`
	} `yaml:"companies"`
}

var ErrInvalid = errors.New("config validation failed")

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
