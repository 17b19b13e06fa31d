package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/textnorm"
)

var reGenerated = regexp.MustCompile(`^\d{3,}_.+\.json$`)

// clearOutputs removes the files a previous run generated, leaving anything
// else in the directory alone.
func clearOutputs(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !(reGenerated.MatchString(e.Name()) || e.Name() == CombinedFile) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return n, fmt.Errorf("remove stale output: %w", err)
		}
		n++
	}
	return n, nil
}

func writeRecords(dir string, recs []domain.JobRecord) error {
	for i, rec := range recs {
		name := fmt.Sprintf("%03d_%s.json", i+1, FileStem(rec))
		if err := writeJSON(filepath.Join(dir, name), rec); err != nil {
			return err
		}
	}
	if recs == nil {
		recs = []domain.JobRecord{}
	}
	return writeJSON(filepath.Join(dir, CombinedFile), recs)
}

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// FileStem is a file-system safe "company_title" slug for a record.
func FileStem(rec domain.JobRecord) string {
	parts := []string{rec.JobTitle}
	if rec.Company != domain.Unknown {
		parts = []string{rec.Company, rec.JobTitle}
	}
	s := reNonAlnum.ReplaceAllString(strings.ToLower(strings.Join(parts, " ")), "_")
	s = strings.Trim(textnorm.Truncate(strings.Trim(s, "_"), 60), "_")
	if s == "" {
		return "posting"
	}
	return s
}

// writeJSON writes v through a temporary file so readers never see a partial file.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadRecords loads the combined JSON file written by a run.
func ReadRecords(dir string) ([]domain.JobRecord, error) {
	b, err := os.ReadFile(filepath.Join(dir, CombinedFile))
	if err != nil {
		return nil, err
	}
	var recs []domain.JobRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", CombinedFile, err)
	}
	return recs, nil
}
