package cmd

import (
	"fmt"

	"github.com/sofmeright/lintscope/src/config"
	"github.com/sofmeright/lintscope/src/output"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file",
	Long: `Load, validate and compile the config file, reporting every problem found.

Warnings (unused rule sets, blocks without effect, rules from unregistered
plugins) are printed but do not fail the command.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	color := output.UseColor()

	f, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	warnings, verr := config.Validate(f)
	for _, msg := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
	if verr != nil {
		return fmt.Errorf("%s: %w", f.Path, verr)
	}

	r, err := f.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", f.Path, err)
	}

	fmt.Fprintf(w, "%s %s: %d blocks, %d rule sets, %d global ignores\n",
		output.StatusOK.Icon(color), f.Path, len(r.Blocks()), len(f.Rulesets), len(r.Ignores()))
	return nil
}
