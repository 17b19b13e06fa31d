package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTrack, cfg.Classify.DefaultTrack)
	assert.Equal(t, "data/json", cfg.Output.JSONDir)
	assert.NotEmpty(t, cfg.Classify.CareerTracks)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hcjobs.yml")
	yml := `
output:
  json_dir: out/json
filters:
  require_bachelors: true
  target_states: [id, UT]
classify:
  career_tracks:
    - tag: Revenue Cycle
      any: [billing, coding]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out/json", cfg.Output.JSONDir)
	assert.Equal(t, "data/html", cfg.Sources.HTMLDir)
	assert.True(t, cfg.Filters.RequireBachelors)
	require.Len(t, cfg.Classify.CareerTracks, 1)
	assert.Equal(t, "Revenue Cycle", cfg.Classify.CareerTracks[0].Tag)
	assert.Equal(t, DefaultTrack, cfg.Classify.DefaultTrack)

	norm, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK(), res.Errors)
	assert.Equal(t, []string{"ID", "UT"}, norm.Filters.TargetStates)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))

	cfg := Default()
	cfg.Output.JSONDir = " "
	cfg.Filters.TargetStates = []string{"ZZ"}
	cfg.Classify.CareerTracks = append(cfg.Classify.CareerTracks, Rule{Tag: "", Any: []string{"("}})
	cfg.Companies.Aliases = append(cfg.Companies.Aliases, Alias{Match: "", Name: ""})

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{
		"output.json_dir is required",
		`"ZZ" is not a US state code`,
		"classify.career_tracks[2].tag is required",
		"classify.career_tracks[2].any[0]",
		"companies.aliases[4].name is required",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestNormalizeAndValidate_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Sources.HTMLDir, cfg.Sources.WordDir, cfg.Sources.LinkedInDir = "", "", ""
	cfg.Filters.RequireBachelors = true
	cfg.Filters.DegreeRules = nil

	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.Len(t, res.Warnings, 2)
}

func TestEnsureUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "hcjobs.yml")

	created, err := EnsureUserConfig(path)
	require.NoError(t, err)
	assert.True(t, created)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Companies.Aliases, cfg.Companies.Aliases)

	created, err = EnsureUserConfig(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSaveAtomic_KeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hcjobs.yml")
	require.NoError(t, SaveAtomic(path, Default()))

	cfg := Default()
	cfg.Output.JSONDir = "elsewhere"
	require.NoError(t, SaveAtomic(path, cfg))

	assert.FileExists(t, path+".bak")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", got.Output.JSONDir)

	bad := Default()
	bad.Output.JSONDir = ""
	assert.ErrorIs(t, SaveAtomic(path, bad), ErrInvalid)
}
