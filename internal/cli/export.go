package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hcjobs-engine/internal/batch"
	"hcjobs-engine/internal/export"
)

var exportFlags struct {
	in, xlsx    string
	perPlatform bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write Excel workbooks from extracted records",
	Long: `Reads jobs.json from the record directory and writes the combined
workbook, plus one workbook per source platform unless disabled.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.in, "in", "", "directory holding jobs.json")
	f.StringVar(&exportFlags.xlsx, "xlsx", "", "path of the combined workbook")
	f.BoolVar(&exportFlags.perPlatform, "per-platform", true, "also write one workbook per platform")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	in := cfg.Output.JSONDir
	if cmd.Flags().Changed("in") {
		in = exportFlags.in
	}
	if cmd.Flags().Changed("xlsx") {
		cfg.Output.ExcelPath = exportFlags.xlsx
	}
	perPlatform := cfg.Output.PerPlatform
	if cmd.Flags().Changed("per-platform") {
		perPlatform = exportFlags.perPlatform
	}

	recs, err := batch.ReadRecords(in)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	paths, err := export.WriteAll(context.Background(), cfg.Output.ExcelPath, recs, perPlatform)
	if err != nil {
		return err
	}
	for _, p := range paths {
		cmd.Printf("Wrote %s\n", p)
	}
	return nil
}
