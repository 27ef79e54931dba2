package cmd

import (
	"fmt"
	"os"

	"github.com/sofmeright/lintscope/src/config"
	"github.com/sofmeright/lintscope/src/logging"
	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	cfgPath string // path of the loaded config file
	res     *resolver.Resolver
)

var rootCmd = &cobra.Command{
	Use:   "lintscope",
	Short: "Resolve per-file lint configuration",
	Long: `lintscope resolves the effective lint configuration of any file from an
ordered list of glob-scoped override blocks.

Blocks are applied in declaration order; for every option and rule the last
matching block wins. Global ignores exclude files before any block applies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if verbose && level == "" {
			level = "debug"
		}
		if err := logging.Configure(logging.Config{Level: level, Format: logFormat, Output: os.Stderr}); err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}

		// Skip config loading for commands that don't need it or load it themselves.
		switch cmd.Name() {
		case "version", "validate":
			return nil
		}

		f, r, warnings, err := config.Open(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger := logging.WithComponent("cli")
		for _, w := range warnings {
			logger.Warn().Str("config", f.Path).Msg(w)
		}
		logger.Debug().Str("config", f.Path).Int("blocks", len(f.Blocks)).Msg("config loaded")

		cfgPath = f.Path
		res = r
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .lintscope.{yml,yaml,toml,json,hcl})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: $LINTSCOPE_LOG_LEVEL, then warn)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (default: console on a terminal)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
