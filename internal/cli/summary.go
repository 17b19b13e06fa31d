package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hcjobs-engine/internal/batch"
	"hcjobs-engine/internal/export"
)

var summaryFlags struct {
	in, md string
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize extracted records as Markdown",
	Long: `Reads jobs.json from the record directory and writes a Markdown report of
counts by employer, state, career track and platform. Use --md - to print the
report instead.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	f := summaryCmd.Flags()
	f.StringVar(&summaryFlags.in, "in", "", "directory holding jobs.json")
	f.StringVar(&summaryFlags.md, "md", "", "path of the Markdown report, - for stdout")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	in := cfg.Output.JSONDir
	if cmd.Flags().Changed("in") {
		in = summaryFlags.in
	}
	out := cfg.Output.SummaryPath
	if cmd.Flags().Changed("md") {
		out = summaryFlags.md
	}

	recs, err := batch.ReadRecords(in)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	if out == "-" {
		cmd.Print(export.Summary(recs, time.Now()))
		return nil
	}
	if err := export.WriteSummary(out, recs, time.Now()); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", out)
	return nil
}
