package cmd

import (
	"fmt"

	"github.com/sofmeright/lintscope/src/output"
	"github.com/spf13/cobra"
)

var (
	ignoredQuiet  bool
	ignoredStrict bool
)

var ignoredCmd = &cobra.Command{
	Use:   "ignored <path>...",
	Short: "Report whether paths are globally ignored",
	Long: `Report for each path whether the global ignore patterns exclude it.

With --quiet only the ignored paths are printed, one per line, which makes
the output usable as a filter in scripts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIgnored,
}

func init() {
	ignoredCmd.Flags().BoolVarP(&ignoredQuiet, "quiet", "q", false, "print only ignored paths")
	ignoredCmd.Flags().BoolVar(&ignoredStrict, "strict", false, "exit non-zero if any path is ignored")

	rootCmd.AddCommand(ignoredCmd)
}

func runIgnored(cmd *cobra.Command, args []string) error {
	printer := output.NewPrinter()
	printer.Writer = cmd.OutOrStdout()

	var count int
	for _, p := range args {
		ignored := res.IsIgnored(p)
		if ignored {
			count++
		}
		printer.Ignored(p, ignored, ignoredQuiet)
	}

	if ignoredStrict && count > 0 {
		return fmt.Errorf("%d of %d paths ignored", count, len(args))
	}
	return nil
}
