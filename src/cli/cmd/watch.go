package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sofmeright/lintscope/src/config"
	"github.com/sofmeright/lintscope/src/logging"
	"github.com/sofmeright/lintscope/src/output"
	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>...",
	Short: "Re-resolve paths whenever the config file changes",
	Long: `Watch the config file and print the effective configuration of the given
paths after every successful reload. A reload that fails keeps the previous
configuration in effect. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.WithComponent("cli")
	printer := output.NewPrinter()
	printer.Writer = cmd.OutOrStdout()

	show := func(r *resolver.Resolver) {
		for _, p := range args {
			cfg, _ := r.Resolve(p)
			printer.Config(p, cfg)
		}
	}

	holder := config.NewHolder(cfgPath, res)
	updates := make(chan *resolver.Resolver, 1)
	holder.Subscribe(updates)

	if err := holder.StartWatcher(ctx); err != nil {
		return err
	}
	defer holder.Stop()

	show(holder.Get())
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-updates:
			logger.Info().Str("config", cfgPath).Msg("config reloaded")
			show(r)
		}
	}
}
