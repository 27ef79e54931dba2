package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sofmeright/lintscope/src/output"
	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	resolveFormat  string
	resolveRule    string
	resolveExplain bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>...",
	Short: "Print the effective configuration of files",
	Long: `Print the effective configuration of each path: the options and rule
settings folded from every matching block in declaration order.

Paths are matched as given, relative to the project root; the files do not
need to exist. Globally ignored paths are reported as ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "text", "output format: text, json or yaml")
	resolveCmd.Flags().StringVar(&resolveRule, "rule", "", "only show rules whose id matches this glob (e.g. \"@typescript-eslint/*\")")
	resolveCmd.Flags().BoolVar(&resolveExplain, "explain", false, "show the block that set each rule")

	rootCmd.AddCommand(resolveCmd)
}

type resolvedFile struct {
	Path    string                    `json:"path" yaml:"path"`
	Ignored bool                      `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Config  *resolver.EffectiveConfig `json:"config,omitempty" yaml:"config,omitempty"`
	Sources map[string]string         `json:"sources,omitempty" yaml:"sources,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	results := make([]resolvedFile, 0, len(args))
	for _, p := range args {
		cfg, ok := res.Resolve(p)
		if !ok {
			results = append(results, resolvedFile{Path: p, Ignored: true})
			continue
		}
		if resolveRule != "" {
			rules, err := cfg.FilterRules(resolveRule)
			if err != nil {
				return fmt.Errorf("--rule: %w", err)
			}
			cfg.Rules = rules
			for id := range cfg.Sources {
				if _, keep := rules[id]; !keep {
					delete(cfg.Sources, id)
				}
			}
		}
		r := resolvedFile{Path: p, Config: cfg}
		if resolveExplain {
			r.Sources = cfg.Sources
		}
		results = append(results, r)
	}

	w := cmd.OutOrStdout()
	switch resolveFormat {
	case "text":
		printer := output.NewPrinter()
		printer.Writer = w
		printer.Explain = resolveExplain
		for _, r := range results {
			printer.Config(r.Path, r.Config)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", resolveFormat)
	}
}
