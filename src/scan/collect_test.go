package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
	return root
}

func newResolver(t *testing.T, ignores ...string) *resolver.Resolver {
	t.Helper()
	r, err := resolver.Load([]resolver.OverrideBlock{
		{
			Name:    "ts",
			Files:   []string{"**/*.ts"},
			Options: map[string]any{"parser": "@typescript-eslint/parser"},
			Rules:   map[string]resolver.RuleSetting{"semi": resolver.Rule(resolver.SeverityError)},
		},
		{
			Name:  "specs",
			Files: []string{"**/*.spec.ts"},
			Rules: map[string]resolver.RuleSetting{"semi": resolver.Rule(resolver.SeverityOff)},
		},
		{
			Name:  "html",
			Files: []string{"**/*.html"},
			Rules: map[string]resolver.RuleSetting{"template/eqeqeq": resolver.Rule(resolver.SeverityWarn)},
		},
	}, ignores)
	require.NoError(t, err)
	return r
}

func paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestCollectFiles(t *testing.T) {
	root := writeTree(t,
		".git/HEAD",
		".lintscope/cache/plan.json",
		"dist/main.js",
		"docs/readme.md",
		"node_modules/rxjs/index.js",
		"src/app.spec.ts",
		"src/app.ts",
		"src/deep/node_modules/x.js",
	)
	r := newResolver(t, "dist/", "node_modules")

	files, err := CollectFiles(root, r)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/readme.md", "src/app.spec.ts", "src/app.ts", "src/deep/node_modules/x.js"}, paths(files))

	for _, f := range files {
		assert.Equal(t, filepath.Join(root, filepath.FromSlash(f.Path)), f.AbsPath)
		assert.Equal(t, int64(len(f.Path)), f.Size)
	}
}

func TestCollectFiles_NegationDisablesPruning(t *testing.T) {
	root := writeTree(t, "build/drop.js", "build/keep.js", "src/app.ts")
	r := newResolver(t, "build/**", "!build/keep.js")

	files, err := CollectFiles(root, r)
	require.NoError(t, err)
	assert.Equal(t, []string{"build/keep.js", "src/app.ts"}, paths(files))
}

func TestCollectFiles_MissingRoot(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "nope"), newResolver(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
