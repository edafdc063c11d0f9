// orgair-cli scores companies and checks model calibration without running
// the service.
//
// Usage:
//
//	orgair-cli score -f company.yaml [--sector NAME] [--config config.yaml]
//	orgair-cli calibrate [--json] [--config config.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/config"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/logging"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "orgair-cli",
		Short: "Score companies with the Org-AI-R model",
		Long:  "orgair-cli runs the Org-AI-R scoring pipeline locally against\nevidence files and the reference calibration companies.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		Version:      version,
	}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to service config YAML (scoring section is used)")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newCalibrateCmd(opts))
	return cmd
}

// engine builds the scoring engine from the configured model.
func (o *rootOptions) engine(cmd *cobra.Command) (*scoring.Engine, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.Init(level, "text", cmd.ErrOrStderr())

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	model, err := scoring.ModelFromConfig(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return scoring.NewEngine(model, logger)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
