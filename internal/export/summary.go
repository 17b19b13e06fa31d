package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"hcjobs-engine/internal/domain"
)

type count struct {
	key string
	n   int
}

// tally counts records per key, largest first, ties by name.
func tally(recs []domain.JobRecord, key func(domain.JobRecord) string) []count {
	m := map[string]int{}
	for _, r := range recs {
		m[key(r)]++
	}
	out := make([]count, 0, len(m))
	for k, n := range m {
		out = append(out, count{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}

// Summary renders a Markdown report of recs. now stamps the header.
func Summary(recs []domain.JobRecord, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Job postings summary\n\n")
	fmt.Fprintf(&b, "Generated %s.\n\n", now.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- Postings: %s\n", humanize.Comma(int64(len(recs))))

	entry, remote, paid := 0, 0, 0
	var low, high float64
	for _, r := range recs {
		if r.EntryLevelFlag {
			entry++
		}
		if r.RemoteFlag {
			remote++
		}
		if r.PayHourlyLow != nil && r.PayHourlyHigh != nil {
			paid++
			low += *r.PayHourlyLow
			high += *r.PayHourlyHigh
		}
	}
	fmt.Fprintf(&b, "- Entry level: %s\n", humanize.Comma(int64(entry)))
	fmt.Fprintf(&b, "- Remote: %s\n", humanize.Comma(int64(remote)))
	if paid > 0 {
		fmt.Fprintf(&b, "- Average hourly pay (%s with pay): $%s - $%s\n",
			humanize.Comma(int64(paid)),
			humanize.CommafWithDigits(low/float64(paid), 2),
			humanize.CommafWithDigits(high/float64(paid), 2))
	}

	sections := []struct {
		title string
		key   func(domain.JobRecord) string
	}{
		{"Employer", func(r domain.JobRecord) string { return r.Company }},
		{"State", func(r domain.JobRecord) string { return r.StateOr(domain.Unknown) }},
		{"Career track", func(r domain.JobRecord) string { return r.CareerTrack }},
		{"Platform", func(r domain.JobRecord) string { return r.SourcePlatform }},
		{"Extraction strategy", func(r domain.JobRecord) string { return r.ExtractionStrategy }},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## By %s\n\n| %s | Postings |\n|---|---:|\n", strings.ToLower(s.title), s.title)
		for _, c := range tally(recs, s.key) {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(c.key), humanize.Comma(int64(c.n)))
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteSummary writes the Markdown report to path.
func WriteSummary(path string, recs []domain.JobRecord, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Summary(recs, now)), 0o644)
}
