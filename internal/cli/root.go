// Package cli implements the neurosym commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/config"
	"github.com/danielpatrickdp/neurosym-core/internal/logging"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
)

var (
	configPath     string
	dbFlag         string
	strictnessFlag string
	jsonOut        bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:          "neurosym",
	Short:        "Neurosymbolic decision and fusion core",
	Long:         "Rubric assessment, seed matching, hybrid decisions, fusion and constraint verification for a supportive chat layer.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("NEUROSYM_CONFIG"), "YAML config file")
	RootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database path (overrides config and $NEUROSYM_DB)")
	RootCmd.PersistentFlags().StringVar(&strictnessFlag, "strictness", "", "flexible, moderate or strict")
	RootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output as JSON")
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if strictnessFlag != "" {
		cfg.Strictness = rubricLevelFlag()
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func rubricLevelFlag() rubric.Level {
	return rubric.Level(strictnessFlag)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
