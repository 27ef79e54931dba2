package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SaveLoad(t *testing.T) {
	c := &Cache{RootDir: t.TempDir()}

	_, ok, err := c.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	plans, err := Plan(context.Background(), newResolver(t, "dist"), []FileInfo{
		{Path: "src/app.ts"}, {Path: "dist/x.js"},
	}, 1)
	require.NoError(t, err)

	snap := NewSnapshot(plans)
	assert.Len(t, snap.Files, 1, "excluded files are not recorded")
	require.NoError(t, c.Save(snap))

	got, ok, err := c.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	require.NoError(t, c.Clear())
	_, ok, err = c.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_LoadIgnoresOtherVersions(t *testing.T) {
	c := &Cache{RootDir: t.TempDir()}
	require.NoError(t, os.MkdirAll(filepath.Dir(c.path()), 0o755))
	require.NoError(t, os.WriteFile(c.path(), []byte(`{"version": 99, "files": {"a": "b"}}`), 0o644))

	_, ok, err := c.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(c.path(), []byte(`{`), 0o644))
	_, _, err = c.Load()
	assert.Error(t, err)
}

func TestDrift(t *testing.T) {
	files := []FileInfo{{Path: "a.ts"}, {Path: "b.ts"}, {Path: "c.html"}}
	before, err := Plan(context.Background(), newResolver(t), files, 2)
	require.NoError(t, err)
	prev := NewSnapshot(before)

	assert.Empty(t, Drift(prev, before))

	changed, err := resolver.Load([]resolver.OverrideBlock{
		{Files: []string{"**/*.ts"}, Rules: map[string]resolver.RuleSetting{"semi": resolver.Rule(resolver.SeverityWarn)}},
		{Files: []string{"**/*.html"}, Rules: map[string]resolver.RuleSetting{"template/eqeqeq": resolver.Rule(resolver.SeverityWarn)}},
	}, []string{"b.ts"})
	require.NoError(t, err)

	after, err := Plan(context.Background(), changed, append(files, FileInfo{Path: "d.ts"}), 2)
	require.NoError(t, err)

	assert.Equal(t, []DriftEntry{
		{Path: "a.ts", Kind: DriftChanged},
		{Path: "b.ts", Kind: DriftRemoved},
		{Path: "d.ts", Kind: DriftAdded},
	}, Drift(prev, after))
}

func TestEnsureGitignore(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("node_modules/"), 0o644))

	EnsureGitignore(root)
	EnsureGitignore(root)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "node_modules/\n.lintscope/\n", string(data))
}
