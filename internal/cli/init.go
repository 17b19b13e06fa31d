package cli

import (
	"github.com/spf13/cobra"

	"hcjobs-engine/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Writes the default configuration to the --config path.
An existing file is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	created, err := config.EnsureUserConfig(configPath)
	if err != nil {
		return err
	}
	if created {
		cmd.Printf("Wrote default config to %s\n", configPath)
		return nil
	}
	cmd.Printf("Config already exists at %s\n", configPath)
	return nil
}
