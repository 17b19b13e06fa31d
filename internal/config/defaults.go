package config

const DefaultTrack = "Hospital Administration"

func Default() Config {
	var cfg Config
	cfg.Sources.HTMLDir = "data/html"
	cfg.Sources.WordDir = "data/word"
	cfg.Sources.LinkedInDir = "data/linkedin"

	cfg.Output.JSONDir = "data/json"
	cfg.Output.ExcelPath = "data/jobs.xlsx"
	cfg.Output.SummaryPath = "data/summary.md"
	cfg.Output.PerPlatform = true

	cfg.Filters.RequireBachelors = true
	cfg.Filters.MinDegreeScore = 2
	cfg.Filters.DegreeRules = DefaultDegreeRules()
	cfg.Filters.TargetStates = DefaultTargetStates()
	cfg.Filters.ExcludeClinical = true

	cfg.Classify.DefaultTrack = DefaultTrack
	cfg.Classify.CareerTracks = DefaultCareerTracks()

	cfg.Companies.Aliases = DefaultAliases()
	return cfg
}

// DefaultTargetStates is the Mountain West and Pacific Northwest scope.
func DefaultTargetStates() []string {
	return []string{"ID", "WA", "OR", "UT", "WY", "MT", "CO", "AZ"}
}

// DefaultCareerTracks is scanned top to bottom; the first matching track wins.
func DefaultCareerTracks() []Rule {
	return []Rule{
		{Tag: "Long-Term Care Administration", Any: []string{
			`ait`,
			`administrator[-\s]in[-\s]training`,
			`assisted living`,
			`skilled nursing`,
			`snf`,
			`memory care`,
			`long[-\s]?term care`,
		}},
		{Tag: "Hospital Administration", Any: []string{
			`patient access`,
			`registration`,
			`scheduler`,
			`scheduling`,
			`clinic`,
			`front desk`,
			`revenue cycle`,
			`billing`,
			`referrals?`,
			`prior auth\w*`,
			`authorizations?`,
			`(?-i:HIM)`,
			`health information`,
		}},
	}
}

// DefaultDegreeRules score bachelor's-level requirements positive and
// lower education floors negative.
func DefaultDegreeRules() []Rule {
	return []Rule{
		{Tag: "bachelors", Weight: 3, Any: []string{
			`bachelor'?s?(?:\s+degree)?`,
			`b\.?[as]\.?\s+(?:degree|in)`,
			`four[-\s]year degree`,
			`4[-\s]year degree`,
			`undergraduate degree`,
			`college degree`,
		}},
		{Tag: "graduate", Weight: 2, Any: []string{
			`master'?s?(?:\s+degree)?`,
			`mha`,
			`mba`,
		}},
		{Tag: "field", Weight: 1, Any: []string{
			`health(?:care)? administration`,
			`business administration`,
			`public health`,
		}},
		{Tag: "high_school", Weight: -2, Any: []string{
			`high school diploma`,
			`ged`,
			`high school or equivalent`,
		}},
		{Tag: "associate", Weight: -1, Any: []string{
			`associate'?s? degree`,
		}},
	}
}

func DefaultAliases() []Alias {
	return []Alias{
		{Match: `hca`, Name: "HCA Healthcare", FilePrefix: "HCA"},
		{Match: `intermountain`, Name: "Intermountain Health", FilePrefix: "IHC"},
		{Match: `st\.?\s+luke'?s?`, Name: "St. Luke's Health System", FilePrefix: "StLuke"},
		{Match: `university of utah|u of u health`, Name: "University of Utah Health", FilePrefix: "UofU"},
	}
}
