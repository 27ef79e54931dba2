package scan

import (
	"context"
	"runtime"
	"sort"

	"github.com/sofmeright/lintscope/src/resolver"
	"golang.org/x/sync/errgroup"
)

// FilePlan is the resolution outcome for one file.
type FilePlan struct {
	Path     string                    `json:"path" yaml:"path"`
	Excluded bool                      `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Config   *resolver.EffectiveConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// Plan resolves every file against r using up to workers goroutines
// (0 means twice the CPU count). The result is in the order of files.
func Plan(ctx context.Context, r *resolver.Resolver, files []FileInfo, workers int) ([]FilePlan, error) {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	plans := make([]FilePlan, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg, ok := r.Resolve(f.Path)
			plans[i] = FilePlan{Path: f.Path, Excluded: !ok, Config: cfg}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Summary aggregates a set of plans.
type Summary struct {
	Files     int            `json:"files" yaml:"files"`
	Excluded  int            `json:"excluded" yaml:"excluded"`
	Unmatched int            `json:"unmatched" yaml:"unmatched"`
	ByParser  map[string]int `json:"by_parser" yaml:"by_parser"`
	ByBlock   map[string]int `json:"by_block" yaml:"by_block"`
}

// DefaultParser labels files whose configuration names no parser.
const DefaultParser = "(default)"

// Summarize counts files per outcome, parser and matching block.
func Summarize(plans []FilePlan) Summary {
	s := Summary{
		Files:    len(plans),
		ByParser: make(map[string]int),
		ByBlock:  make(map[string]int),
	}
	for _, p := range plans {
		if p.Excluded {
			s.Excluded++
			continue
		}
		if p.Config.Empty() {
			s.Unmatched++
			continue
		}
		parser := p.Config.Parser()
		if parser == "" {
			parser = DefaultParser
		}
		s.ByParser[parser]++
		for _, b := range p.Config.Matched {
			s.ByBlock[b]++
		}
	}
	return s
}

// Keys returns the keys of a summary count map in order.
func Keys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
