package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hcjobs-engine/internal/config"
)

// ConfigEnv overrides the default config path.
const ConfigEnv = "HCJOBS_CONFIG"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hcjobs",
	Short: "Extract healthcare job postings into structured records",
	Long: `hcjobs reads saved job postings (HTML pages, Word documents and LinkedIn
text exports), extracts one normalized record per posting and writes the
records as JSON, Excel workbooks and a Markdown summary.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func defaultConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	return "hcjobs.yml"
}

func setupLogging(cmd *cobra.Command, debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig reads and validates the config file. Warnings are logged.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Warn().Str("config", configPath).Msg(w)
	}
	return cfg, res.Err()
}
