package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/textnorm"
)

const sheetName = "Jobs"

type column struct {
	header string
	width  float64
	wrap   bool
	value  func(domain.JobRecord) any
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}

var columns = []column{
	{"Job Title", 36, false, func(r domain.JobRecord) any { return r.JobTitle }},
	{"Company", 28, false, func(r domain.JobRecord) any { return r.Company }},
	{"Location", 24, false, func(r domain.JobRecord) any { return deref(r.Location) }},
	{"City", 18, false, func(r domain.JobRecord) any { return r.City }},
	{"State", 8, false, func(r domain.JobRecord) any { return deref(r.State) }},
	{"Region", 12, false, func(r domain.JobRecord) any { return deref(r.Region) }},
	{"Pay", 20, false, func(r domain.JobRecord) any { return r.Pay }},
	{"Hourly Low", 12, false, func(r domain.JobRecord) any { return num(r.PayHourlyLow) }},
	{"Hourly High", 12, false, func(r domain.JobRecord) any { return num(r.PayHourlyHigh) }},
	{"Date Posted", 12, false, func(r domain.JobRecord) any { return deref(r.Date) }},
	{"Remote", 8, false, func(r domain.JobRecord) any { return yesNo(r.RemoteFlag) }},
	{"Entry Level", 10, false, func(r domain.JobRecord) any { return yesNo(r.EntryLevelFlag) }},
	{"Career Track", 26, false, func(r domain.JobRecord) any { return r.CareerTrack }},
	{"Platform", 12, false, func(r domain.JobRecord) any { return r.SourcePlatform }},
	{"Strategy", 16, false, func(r domain.JobRecord) any { return r.ExtractionStrategy }},
	{"Qualifications", 60, true, func(r domain.JobRecord) any { return excelText(r.Qualifications) }},
	{"Job Description", 80, true, func(r domain.JobRecord) any { return excelText(r.JobDescription) }},
	{"Collected At", 22, false, func(r domain.JobRecord) any { return r.CollectedAt }},
	{"Source", 50, false, func(r domain.JobRecord) any { return r.SourceFile }},
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// excel cells hold at most 32767 characters
const maxCell = 32000

func excelText(s string) string {
	return textnorm.Truncate(s, maxCell)
}

// WriteWorkbook writes recs to a single-sheet workbook at path.
func WriteWorkbook(path string, recs []domain.JobRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, c.width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(sheetName, "A1", last+"1", headerStyle); err != nil {
		return err
	}

	for r, rec := range recs {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = c.value(rec)
		}
		first, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, first, &row); err != nil {
			return err
		}
		for i, c := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if c.wrap {
				if err := f.SetCellStyle(sheetName, cell, cell, wrapStyle); err != nil {
					return err
				}
			}
		}
		if strings.HasPrefix(rec.SourceFile, "http") {
			cell, _ := excelize.CoordinatesToCellName(len(columns), r+2)
			if err := f.SetCellHyperLink(sheetName, cell, rec.SourceFile, "External"); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheetName, cell, cell, linkStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if err := f.AutoFilter(sheetName, "A1:"+last+"1", nil); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// ByPlatform groups records by source platform.
func ByPlatform(recs []domain.JobRecord) map[string][]domain.JobRecord {
	out := map[string][]domain.JobRecord{}
	for _, r := range recs {
		out[r.SourcePlatform] = append(out[r.SourcePlatform], r)
	}
	return out
}

// PlatformPath is the per-platform workbook next to the combined one:
// data/jobs.xlsx -> data/jobs_linkedin.xlsx.
func PlatformPath(path, platform string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + platform + ext
}

// WriteAll writes the combined workbook and, when perPlatform is set, one
// workbook per platform. Workbooks are written in parallel; the returned paths
// are sorted.
func WriteAll(ctx context.Context, path string, recs []domain.JobRecord, perPlatform bool) ([]string, error) {
	jobs := map[string][]domain.JobRecord{path: recs}
	if perPlatform {
		for platform, group := range ByPlatform(recs) {
			jobs[PlatformPath(path, platform)] = group
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for p, group := range jobs {
		p, group := p, group
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := WriteWorkbook(p, group); err != nil {
				return fmt.Errorf("write %s: %w", p, err)
			}
			log.Info().Str("path", p).Int("rows", len(group)).Msg("workbook written")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(jobs))
	for p := range jobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
