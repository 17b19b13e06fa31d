package domain

// Unknown is the placeholder for string fields that could not be determined.
const Unknown = "unknown"

// Extraction strategy names, stamped on every record.
const (
	StrategyTable     = "table"
	StrategyContainer = "styled-container"
	StrategyMetadata  = "platform-metadata"
	StrategySection   = "section-scan"
	StrategyNone      = "none"
)

type JobRecord struct {
	JobTitle           string   `json:"jobTitle"`
	Company            string   `json:"company"`
	Location           *string  `json:"location"`
	City               string   `json:"city"`
	State              *string  `json:"state"`
	Region             *string  `json:"region"`
	JobDescription     string   `json:"jobDescription"`
	Qualifications     string   `json:"qualifications"`
	Pay                string   `json:"pay"`
	PayHourlyLow       *float64 `json:"payHourlyLow"`
	PayHourlyHigh      *float64 `json:"payHourlyHigh"`
	Date               *string  `json:"date"`
	RemoteFlag         bool     `json:"remoteFlag"`
	SourcePlatform     string   `json:"sourcePlatform"` // indeed/linkedin/greenhouse/lever/word/html/text
	CareerTrack        string   `json:"careerTrack"`
	EntryLevelFlag     bool     `json:"entryLevelFlag"`
	CollectedAt        string   `json:"collectedAt"`
	SourceFile         string   `json:"sourceFile"`
	ExtractionStrategy string   `json:"extractionStrategy"`
}

// Text returns the searchable text of the record used by filters.
func (r JobRecord) Text() string {
	return r.JobTitle + "\n" + r.JobDescription + "\n" + r.Qualifications
}

func (r JobRecord) StateOr(def string) string {
	if r.State == nil {
		return def
	}
	return *r.State
}
