package geo

import (
	"regexp"
	"sort"
	"strings"
)

const (
	Northeast = "Northeast"
	Midwest   = "Midwest"
	South     = "South"
	West      = "West"
)

var stateNames = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",
}

var regionStates = []struct {
	region string
	codes  []string
}{
	{Northeast, []string{"CT", "ME", "MA", "NH", "RI", "VT", "NJ", "NY", "PA"}},
	{Midwest, []string{"IL", "IN", "MI", "OH", "WI", "IA", "KS", "MN", "MO", "NE", "ND", "SD"}},
	{South, []string{"DE", "DC", "FL", "GA", "MD", "NC", "SC", "VA", "WV", "AL", "KY", "MS", "TN", "AR", "LA", "OK", "TX"}},
	{West, []string{"AZ", "CO", "ID", "MT", "NV", "NM", "UT", "WY", "AK", "CA", "HI", "OR", "WA"}},
}

// cities that show up without a state in postings
var cityStates = map[string]string{
	"salt lake city":   "UT",
	"west valley city": "UT",
	"murray":           "UT",
	"sandy":            "UT",
	"provo":            "UT",
	"ogden":            "UT",
	"st. george":       "UT",
	"st george":        "UT",
	"logan":            "UT",
	"boise":            "ID",
	"meridian":         "ID",
	"nampa":            "ID",
	"twin falls":       "ID",
	"seattle":          "WA",
	"spokane":          "WA",
	"portland":         "OR",
	"denver":           "CO",
	"phoenix":          "AZ",
	"las vegas":        "NV",
	"reno":             "NV",
	"albuquerque":      "NM",
	"billings":         "MT",
	"cheyenne":         "WY",
}

// two-letter codes that are also everyday words; only trusted in upper case
var ambiguousCodes = map[string]bool{
	"al": true, "co": true, "de": true, "hi": true, "id": true, "in": true, "la": true,
	"ma": true, "me": true, "mo": true, "ne": true, "oh": true, "ok": true, "or": true, "pa": true,
}

var (
	stateRegion = map[string]string{}
	reStateName *regexp.Regexp
)

func init() {
	for _, rs := range regionStates {
		for _, c := range rs.codes {
			stateRegion[c] = rs.region
		}
	}

	names := make([]string, 0, len(stateNames))
	for n := range stateNames {
		names = append(names, regexp.QuoteMeta(n))
	}
	// longest first so "west virginia" wins over "virginia" at the same offset
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	reStateName = regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\b`)
}

// IsState reports whether code is a known two-letter state code.
func IsState(code string) bool {
	_, ok := stateRegion[strings.ToUpper(code)]
	return ok
}

// StateCode maps a full state name to its code.
func StateCode(name string) (string, bool) {
	c, ok := stateNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// RegionOf returns the census region for a state code. Unknown or nil codes map to nil.
func RegionOf(code *string) *string {
	if code == nil {
		return nil
	}
	r, ok := stateRegion[strings.ToUpper(*code)]
	if !ok {
		return nil
	}
	return &r
}
