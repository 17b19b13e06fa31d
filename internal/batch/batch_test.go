package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hcjobs-engine/internal/config"
	"hcjobs-engine/internal/domain"
)

const tablePosting = `<html><head><meta property="og:url" content="https://www.indeed.com/viewjob?jk=1&from=serp"></head><body>
<table>
<tr><th>Company</th><th>Job Title</th><th>Job Description</th><th>Qualifications</th><th>Pay</th><th>Date Posted</th></tr>
<tr><td>HCA</td><td>Patient Access Coordinator</td><td>Register patients. Location: Boise, ID</td><td>High school diploma</td><td>$18.50/hr</td><td>2025-01-15</td></tr>
</table>
</body></html>`

const linkedInExport = "Patient Access Coordinator\nAcme Health \u00b7 Salt Lake City, UT (Hybrid)\n\nAbout the job\nWe are hiring.\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setup(t *testing.T) (config.Config, []string) {
	t.Helper()
	root := t.TempDir()
	htmlDir := filepath.Join(root, "html")
	liDir := filepath.Join(root, "linkedin")

	writeFile(t, filepath.Join(htmlDir, "a.html"), tablePosting)
	writeFile(t, filepath.Join(htmlDir, "b.html"), tablePosting)
	writeFile(t, filepath.Join(htmlDir, "notes.pdf"), "ignored")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.html"), filepath.Join(htmlDir, "broken.html")))
	writeFile(t, filepath.Join(liDir, "c.txt"), linkedInExport)

	cfg := config.Default()
	cfg.Output.JSONDir = filepath.Join(root, "out")
	cfg.Filters.TargetStates = []string{"UT"}
	cfg.Filters.RequireBachelors = false
	return cfg, []string{htmlDir, liDir, filepath.Join(root, "absent")}
}

func TestRun(t *testing.T) {
	cfg, dirs := setup(t)
	writeFile(t, filepath.Join(cfg.Output.JSONDir, "007_old.json"), "{}")
	writeFile(t, filepath.Join(cfg.Output.JSONDir, "notes.txt"), "keep me")

	r, err := New(cfg)
	require.NoError(t, err)
	recs, sum, err := r.Run(context.Background(), dirs...)
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Duplicates)
	assert.Equal(t, 1, sum.Excluded)
	assert.Equal(t, 1, sum.Reasons["out_of_scope_state"])
	assert.Equal(t, 1, sum.Written)
	assert.Equal(t, 2, sum.Strategies[domain.StrategyTable])

	require.Len(t, recs, 1)
	assert.Equal(t, "Acme Health", recs[0].Company)
	assert.Equal(t, "UT", *recs[0].State)

	assert.FileExists(t, filepath.Join(cfg.Output.JSONDir, "001_acme_health_patient_access_coordinator.json"))
	assert.NoFileExists(t, filepath.Join(cfg.Output.JSONDir, "007_old.json"))
	assert.FileExists(t, filepath.Join(cfg.Output.JSONDir, "notes.txt"))

	back, err := ReadRecords(cfg.Output.JSONDir)
	require.NoError(t, err)
	assert.Equal(t, recs, back)
}

func TestRun_Locked(t *testing.T) {
	cfg, dirs := setup(t)
	require.NoError(t, os.MkdirAll(cfg.Output.JSONDir, 0o755))

	held := flock.New(filepath.Join(cfg.Output.JSONDir, LockFile))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	r, err := New(cfg)
	require.NoError(t, err)
	_, _, err = r.Run(context.Background(), dirs...)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRun_Cancelled(t *testing.T) {
	cfg, dirs := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(cfg)
	require.NoError(t, err)
	_, _, err = r.Run(ctx, dirs...)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_EmptyWritesEmptyArray(t *testing.T) {
	cfg := config.Default()
	cfg.Output.JSONDir = t.TempDir()

	r, err := New(cfg)
	require.NoError(t, err)
	_, sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Written)

	b, err := os.ReadFile(filepath.Join(cfg.Output.JSONDir, CombinedFile))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(b))
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "st_luke_s_health_system_unit_clerk",
		FileStem(domain.JobRecord{Company: "St. Luke's Health System", JobTitle: "Unit Clerk"}))
	assert.Equal(t, "unit_clerk", FileStem(domain.JobRecord{Company: domain.Unknown, JobTitle: "Unit Clerk"}))
	assert.Equal(t, "posting", FileStem(domain.JobRecord{Company: domain.Unknown, JobTitle: "***"}))
}
