package export

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hcjobs-engine/internal/domain"
)

func strp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }

func sample() []domain.JobRecord {
	return []domain.JobRecord{
		{
			JobTitle: "Patient Access Coordinator", Company: "St. Luke's Health System",
			State: strp("ID"), Region: strp("West"), City: "Boise",
			Pay: "$18.50/hr", PayHourlyLow: fp(18.5), PayHourlyHigh: fp(18.5),
			EntryLevelFlag: true, CareerTrack: "Hospital Administration",
			SourcePlatform: "indeed", ExtractionStrategy: domain.StrategyContainer,
			SourceFile: "https://www.indeed.com/viewjob?jk=1",
		},
		{
			JobTitle: "Billing Specialist", Company: "Acme | Health",
			City: domain.Unknown, Pay: domain.Unknown, RemoteFlag: true,
			CareerTrack: "Hospital Administration",
			SourcePlatform: "linkedin", ExtractionStrategy: domain.StrategySection,
			SourceFile: "data/linkedin/billing.txt",
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, WriteWorkbook(path, sample()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Job Title", rows[0][0])
	assert.Equal(t, "Source", rows[0][len(columns)-1])
	assert.Equal(t, "Patient Access Coordinator", rows[1][0])
	assert.Equal(t, "ID", rows[1][4])
	assert.Equal(t, "Yes", rows[2][10])

	last, _ := excelize.ColumnNumberToName(len(columns))
	ok, link, err := f.GetCellHyperLink(sheetName, last+"2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=1", link)

	ok, _, err = f.GetCellHyperLink(sheetName, last+"3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteWorkbook_CapsLongCells(t *testing.T) {
	long := strings.Repeat("\u00e9", maxCell+5000)
	rec := sample()[0]
	rec.JobDescription = long
	rec.Qualifications = long

	path := filepath.Join(t.TempDir(), "jobs.xlsx")
	require.NoError(t, WriteWorkbook(path, []domain.JobRecord{rec}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	for _, col := range []string{"P2", "Q2"} {
		v, err := f.GetCellValue(sheetName, col)
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(v), col)
		assert.Equal(t, maxCell, utf8.RuneCountInString(v), col)
	}
}

func TestWriteAll_PerPlatform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "jobs.xlsx")
	paths, err := WriteAll(context.Background(), path, sample(), true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		path,
		PlatformPath(path, "indeed"),
		PlatformPath(path, "linkedin"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	only, err := WriteAll(context.Background(), path, sample(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, only)
}

func TestPlatformPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "jobs_word.xlsx"), PlatformPath(filepath.Join("data", "jobs.xlsx"), "word"))
}

func TestSummary(t *testing.T) {
	out := Summary(sample(), time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(out, "# Job postings summary\n"))
	assert.Contains(t, out, "Generated 2025-03-01 09:30 UTC.")
	assert.Contains(t, out, "- Postings: 2\n")
	assert.Contains(t, out, "- Entry level: 1\n")
	assert.Contains(t, out, "- Remote: 1\n")
	assert.Contains(t, out, "Average hourly pay (1 with pay)")
	assert.Contains(t, out, "| Hospital Administration | 2 |")
	assert.Contains(t, out, "| unknown | 1 |")
	assert.Contains(t, out, `| Acme \| Health | 1 |`)
	assert.Less(t, strings.Index(out, "| Acme"), strings.Index(out, "| St. Luke's"), "ties sort by name")
}

func TestSummary_Empty(t *testing.T) {
	out := Summary(nil, time.Unix(0, 0))
	assert.Contains(t, out, "- Postings: 0\n")
	assert.NotContains(t, out, "Average hourly pay")
}
