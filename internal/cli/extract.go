package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"hcjobs-engine/internal/batch"
	"hcjobs-engine/internal/config"
	"hcjobs-engine/internal/domain"
	"hcjobs-engine/internal/export"
)

var extractFlags struct {
	html, word, linkedin, out string
	export                    bool
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract records from the source directories",
	Long: `Reads every supported document in the HTML, Word and LinkedIn source
directories, writes one JSON file per kept record plus jobs.json to the
output directory, and reports what was processed, excluded and skipped.
Directory flags override the config file.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractFlags.html, "html", "", "directory of saved HTML postings")
	f.StringVar(&extractFlags.word, "word", "", "directory of Word postings")
	f.StringVar(&extractFlags.linkedin, "linkedin", "", "directory of LinkedIn text exports")
	f.StringVar(&extractFlags.out, "out", "", "output directory for JSON records")
	f.BoolVar(&extractFlags.export, "export", false, "also write the workbooks and summary")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	overrideSources(cmd, &cfg)

	runner, err := batch.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	recs, sum, err := runner.Run(ctx, batch.SourceDirs(cfg)...)
	if errors.Is(err, batch.ErrLocked) {
		return fmt.Errorf("%w: %s", err, cfg.Output.JSONDir)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Run %s\n", sum.RunID)
	cmd.Printf("Processed %d, written %d, excluded %d, duplicates %d, failed %d\n",
		sum.Processed, sum.Written, sum.Excluded, sum.Duplicates, sum.Failed)
	for _, k := range sortedKeys(sum.Reasons) {
		cmd.Printf("  excluded (%s): %d\n", k, sum.Reasons[k])
	}
	for _, k := range sortedKeys(sum.Strategies) {
		cmd.Printf("  strategy %s: %d\n", k, sum.Strategies[k])
	}

	if extractFlags.export {
		return writeReports(ctx, cmd, cfg, recs, cfg.Output.PerPlatform)
	}
	return nil
}

func overrideSources(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("html") {
		cfg.Sources.HTMLDir = extractFlags.html
	}
	if f.Changed("word") {
		cfg.Sources.WordDir = extractFlags.word
	}
	if f.Changed("linkedin") {
		cfg.Sources.LinkedInDir = extractFlags.linkedin
	}
	if f.Changed("out") {
		cfg.Output.JSONDir = extractFlags.out
	}
}

// writeReports writes the workbooks and the Markdown summary for recs.
func writeReports(ctx context.Context, cmd *cobra.Command, cfg config.Config, recs []domain.JobRecord, perPlatform bool) error {
	paths, err := export.WriteAll(ctx, cfg.Output.ExcelPath, recs, perPlatform)
	if err != nil {
		return err
	}
	for _, p := range paths {
		cmd.Printf("Wrote %s\n", p)
	}
	if err := export.WriteSummary(cfg.Output.SummaryPath, recs, time.Now()); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", cfg.Output.SummaryPath)
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
