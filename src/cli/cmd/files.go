package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sofmeright/lintscope/src/logging"
	"github.com/sofmeright/lintscope/src/output"
	"github.com/sofmeright/lintscope/src/scan"
	"github.com/spf13/cobra"
)

var (
	filesChanged bool
	filesTarget  string
	filesDrift   bool
	filesWorkers int
	filesList    bool
	filesReports string
	filesClear   bool
)

var filesCmd = &cobra.Command{
	Use:   "files [root]",
	Short: "Resolve every file in a tree",
	Long: `Walk the tree (default: current directory), skip globally ignored paths
and resolve every remaining file concurrently.

With --changed only files changed relative to the target branch are
resolved. With --drift the resulting effective configurations are compared
with the snapshot saved by the previous --drift run, which is then replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFiles,
}

func init() {
	filesCmd.Flags().BoolVar(&filesChanged, "changed", false, "only files changed relative to the target branch")
	filesCmd.Flags().StringVar(&filesTarget, "target-branch", "", "branch to diff against (overrides $"+scan.TargetBranchEnv+"; then CI vars, origin/HEAD, main)")
	filesCmd.Flags().BoolVar(&filesDrift, "drift", false, "report files whose effective config changed since the last snapshot")
	filesCmd.Flags().IntVar(&filesWorkers, "workers", 0, "concurrent resolvers (default: 2x CPUs)")
	filesCmd.Flags().BoolVar(&filesList, "list", false, "list every file with its parser and matched blocks")
	filesCmd.Flags().BoolVar(&filesClear, "clear-cache", false, "discard the stored snapshot before scanning")
	filesCmd.Flags().StringVar(&filesReports, "junit-dir", "", "write a JUnit drift report here (default in CI: .lintscope/reports)")

	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	if filesChanged && filesDrift {
		return errors.New("--drift needs a full scan and cannot be combined with --changed")
	}

	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	ctx := cmd.Context()
	logger := logging.WithComponent("cli")
	w := cmd.OutOrStdout()
	color := output.UseColor()

	cache := &scan.Cache{RootDir: rootDir}
	if filesClear {
		if err := cache.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		logger.Debug().Str("root", rootDir).Msg("snapshot cache cleared")
	}

	start := time.Now()
	files, err := scan.CollectFiles(rootDir, res)
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}

	if filesChanged {
		delta := &scan.Delta{RootDir: rootDir, TargetBranch: filesTarget}
		changedSet, err := delta.ChangedFiles(ctx)
		if err != nil {
			return fmt.Errorf("computing changed files: %w", err)
		}
		if changedSet != nil {
			all := len(files)
			files = scan.FilterByDelta(files, changedSet)
			logger.Debug().Int("changed", len(files)).Int("total", all).Msg("delta applied")
		}
	}

	plans, err := scan.Plan(ctx, res, files, filesWorkers)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}
	elapsed := time.Since(start)

	output.CIHeader(w)
	output.ContextBlock(w, []output.KV{
		{Key: "config", Value: cfgPath},
		{Key: "root", Value: rootDir},
	})

	// ── Plan section ──
	output.SectionStart(w, "ls_plan", "Plan")
	sec := output.NewSection(w, "Plan", elapsed, color)
	output.SectionSummary(sec, scan.Summarize(plans))
	sec.Close()
	output.SectionEnd(w, "ls_plan")

	// ── Files section ──
	if filesList && len(plans) > 0 {
		output.SectionStartCollapsed(w, "ls_files", "Files")
		fsec := output.NewSection(w, "Files", 0, color)
		for _, p := range plans {
			switch {
			case p.Excluded:
				fsec.Row("%s  %s", p.Path, output.Dimmed("excluded", color))
			case p.Config.Empty():
				fsec.Row("%s  %s", p.Path, output.Dimmed("no matching blocks", color))
			default:
				parser := p.Config.Parser()
				if parser == "" {
					parser = scan.DefaultParser
				}
				fsec.Row("%s  %s  %s", p.Path, parser, output.Dimmed(strings.Join(p.Config.Matched, ", "), color))
			}
		}
		fsec.Close()
		output.SectionEnd(w, "ls_files")
	}

	if !filesDrift {
		return nil
	}

	// ── Drift section ──
	prev, havePrev, err := cache.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable snapshot")
	}

	var drift []scan.DriftEntry
	output.SectionStart(w, "ls_drift", "Drift")
	dsec := output.NewSection(w, "Drift", 0, color)
	if havePrev {
		drift = scan.Drift(prev, plans)
		output.SectionDrift(dsec, drift)
	} else {
		dsec.Status("snapshot", "none found, recording baseline", output.StatusSkipped)
	}
	dsec.Close()
	output.SectionEnd(w, "ls_drift")

	if err := cache.Save(scan.NewSnapshot(plans)); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	scan.EnsureGitignore(rootDir)

	reports := filesReports
	if reports == "" && output.IsCI() {
		reports = ".lintscope/reports"
	}
	if reports != "" {
		if err := output.WriteDriftJUnit(reports, plans, drift, elapsed); err != nil {
			logger.Warn().Err(err).Msg("failed to write junit report")
		}
	}

	return nil
}
