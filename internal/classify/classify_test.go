package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcjobs-engine/internal/config"
)

func TestCareerTrack(t *testing.T) {
	c := Default()

	tests := []struct {
		text string
		want string
	}{
		{"Administrator in Training (AIT) - Skilled Nursing", "Long-Term Care Administration"},
		{"Memory Care Coordinator", "Long-Term Care Administration"},
		{"Long-term care admissions clerk", "Long-Term Care Administration"},
		{"Patient Access Representative", "Hospital Administration"},
		{"HIM Specialist", "Hospital Administration"},
		{"Scheduling and registration at the clinic", "Hospital Administration"},
		{"Marketing Analyst", config.DefaultTrack},
		{"", config.DefaultTrack},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CareerTrack(tt.text))
		})
	}
}

func TestCareerTrack_OrderWins(t *testing.T) {
	// both tracks match; the first listed wins
	assert.Equal(t, "Long-Term Care Administration", Default().CareerTrack("Front Desk - Assisted Living"))

	c, err := New([]config.Rule{
		{Tag: "B", Any: []string{"billing"}},
		{Tag: "A", Any: []string{"billing", "coding"}},
	}, "Z")
	require.NoError(t, err)
	assert.Equal(t, "B", c.CareerTrack("Billing and coding"))
	assert.Equal(t, "A", c.CareerTrack("Medical coding"))
	assert.Equal(t, "Z", c.CareerTrack("Courier"))
	assert.Equal(t, []string{"B", "A", "Z"}, c.Tracks())
}

func TestCareerTrack_WordBounded(t *testing.T) {
	c := Default()
	// "him" inside "within" and lower-case "him" are not HIM
	assert.Equal(t, config.DefaultTrack, c.CareerTrack("work within a team and help him"))
	// "ait" inside "wait" is not AIT
	assert.Equal(t, config.DefaultTrack, c.CareerTrack("Waitstaff"))
}

func TestNew_BadPattern(t *testing.T) {
	_, err := New([]config.Rule{{Tag: "X", Any: []string{"("}}}, "Z")
	assert.Error(t, err)
}

func TestEntryLevel(t *testing.T) {
	tests := []struct {
		name  string
		title string
		desc  string
		want  bool
	}{
		{"entry noun in title", "Patient Access Coordinator - Boise, ID", "no experience required", true},
		{"exclusion dominates", "Senior Director, Patient Access Coordinator", "", false},
		{"vp regardless of description", "VP of Revenue Cycle", "entry-level, no experience required", false},
		{"clinical title", "RN Care Coordinator", "", false},
		{"rn only as a word", "Intern, Returns Processing", "", true},
		{"description no experience", "Hospital Greeter", "No prior experience needed.", true},
		{"description zero to one year", "Greeter", "0-1 years of experience", true},
		{"description five plus years", "Analyst", "Requires 5+ years of experience", false},
		{"description seven or more", "Analyst", "7 or more years in healthcare", false},
		{"no signal", "Analyst", "Great benefits", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EntryLevel(tt.title, tt.desc))
		})
	}
}

func TestExcludedTitle(t *testing.T) {
	assert.True(t, ExcludedTitle("Chief Nursing Officer"))
	assert.True(t, ExcludedTitle("Sr. Manager, Billing"))
	assert.False(t, ExcludedTitle("Inpatient Registration Clerk"))
}
