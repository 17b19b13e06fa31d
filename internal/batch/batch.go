package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hcjobs-engine/internal/config"
	"hcjobs-engine/internal/document"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/eligibility"
	"hcjobs-engine/internal/record"
)

const (
	// LockFile guards an output directory against a second concurrent run.
	LockFile = ".hcjobs.lock"
	// CombinedFile holds every written record as one JSON array.
	CombinedFile = "jobs.json"
)

var ErrLocked = errors.New("output directory is locked by another run")

// Summary counts what a run did with its documents.
type Summary struct {
	RunID      string         `json:"runId"`
	Processed  int            `json:"processed"`
	Failed     int            `json:"failed"`
	Duplicates int            `json:"duplicates"`
	Excluded   int            `json:"excluded"`
	Written    int            `json:"written"`
	Reasons    map[string]int `json:"reasons,omitempty"`
	Strategies map[string]int `json:"strategies,omitempty"`
	Elapsed    time.Duration  `json:"elapsed"`
}

// Runner extracts every document under a set of source directories and
// writes the kept records to one output directory.
type Runner struct {
	assembler *record.Assembler
	filter    *eligibility.Filter
	outDir    string
}

func New(cfg config.Config, opts ...record.Option) (*Runner, error) {
	a, err := record.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	f, err := eligibility.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{assembler: a, filter: f, outDir: cfg.Output.JSONDir}, nil
}

// SourceDirs lists the configured source directories that are set.
func SourceDirs(cfg config.Config) []string {
	var out []string
	for _, d := range []string{cfg.Sources.HTMLDir, cfg.Sources.WordDir, cfg.Sources.LinkedInDir} {
		if strings.TrimSpace(d) != "" {
			out = append(out, d)
		}
	}
	return out
}

// Run processes dirs one document at a time. A document that cannot be read is
// counted and skipped; only output-directory failures end the run early.
func (r *Runner) Run(ctx context.Context, dirs ...string) ([]domain.JobRecord, Summary, error) {
	start := time.Now()
	sum := Summary{RunID: uuid.New().String(), Reasons: map[string]int{}, Strategies: map[string]int{}}
	logger := log.With().Str("run_id", sum.RunID).Logger()

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, sum, fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(filepath.Join(r.outDir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, sum, fmt.Errorf("lock output dir: %w", err)
	}
	if !locked {
		return nil, sum, ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	removed, err := clearOutputs(r.outDir)
	if err != nil {
		return nil, sum, err
	}
	logger.Info().Int("removed", removed).Str("dir", r.outDir).Msg("cleared stale outputs")

	seen := map[string]bool{}
	var kept []domain.JobRecord
	for _, path := range listDocuments(dirs) {
		if err := ctx.Err(); err != nil {
			return kept, sum, err
		}

		doc, err := document.Load(path)
		if err != nil {
			sum.Failed++
			logger.Error().Err(err).Str("file", path).Msg("skipping unreadable document")
			continue
		}
		rec := r.assembler.Extract(doc)
		sum.Processed++
		sum.Strategies[rec.ExtractionStrategy]++

		if seen[rec.SourceFile] {
			sum.Duplicates++
			logger.Info().Str("file", path).Str("source", rec.SourceFile).Msg("duplicate posting skipped")
			continue
		}
		seen[rec.SourceFile] = true

		if keep, why := r.filter.ShouldKeep(rec); !keep {
			sum.Excluded++
			sum.Reasons[why]++
			logger.Info().Str("file", path).Str("reason", why).Str("title", rec.JobTitle).Msg("excluded")
			continue
		}
		kept = append(kept, rec)
	}

	if err := writeRecords(r.outDir, kept); err != nil {
		return kept, sum, err
	}
	sum.Written = len(kept)
	sum.Elapsed = time.Since(start)

	logger.Info().
		Int("processed", sum.Processed).
		Int("failed", sum.Failed).
		Int("duplicates", sum.Duplicates).
		Int("excluded", sum.Excluded).
		Int("written", sum.Written).
		Dur("elapsed", sum.Elapsed).
		Msg("batch complete")
	return kept, sum, nil
}

// listDocuments returns the supported files of each directory in name order.
// Missing directories are logged and skipped.
func listDocuments(dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("source directory not readable")
			continue
		}
		var files []string
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
				continue
			}
			if _, err := document.FormatOf(name); err != nil {
				continue
			}
			files = append(files, filepath.Join(dir, name))
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out
}
