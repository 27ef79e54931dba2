package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sofmeright/lintscope/src/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const angularYAML = `version: 1
ignores: [node_modules, dist]
plugins:
  import: eslint-plugin-import
  "@typescript-eslint": "@typescript-eslint/eslint-plugin"
  "@stylistic/ts": "@stylistic/eslint-plugin-ts"
rulesets:
  base-style:
    rules:
      import/order: "off"
      "@stylistic/ts/indent": [error, 4, {SwitchCase: 1}]
blocks:
  - name: specs
    files: ["**/*.spec.ts"]
    parser: "@typescript-eslint/parser"
    extends: [base-style]
    options:
      globals: [jasmine]
    rules:
      no-restricted-globals: [error, event, fit, fdescribe]
  - name: typescript
    files: ["**/*.ts"]
    ignores: ["**/*.spec.ts"]
    parser: "@typescript-eslint/parser"
    extends: [base-style]
    options:
      globals: [browser, node]
    rules:
      "@typescript-eslint/no-explicit-any": error
      complexity: [warn, 15]
`

const angularTOML = `version = 1
ignores = ["node_modules", "dist"]

[plugins]
import = "eslint-plugin-import"
"@typescript-eslint" = "@typescript-eslint/eslint-plugin"
"@stylistic/ts" = "@stylistic/eslint-plugin-ts"

[rulesets.base-style.rules]
"import/order" = "off"
"@stylistic/ts/indent" = ["error", 4, { SwitchCase = 1 }]

[[blocks]]
name = "specs"
files = ["**/*.spec.ts"]
parser = "@typescript-eslint/parser"
extends = ["base-style"]
options = { globals = ["jasmine"] }

[blocks.rules]
no-restricted-globals = ["error", "event", "fit", "fdescribe"]

[[blocks]]
name = "typescript"
files = ["**/*.ts"]
ignores = ["**/*.spec.ts"]
parser = "@typescript-eslint/parser"
extends = ["base-style"]
options = { globals = ["browser", "node"] }

[blocks.rules]
"@typescript-eslint/no-explicit-any" = "error"
complexity = ["warn", 15]
`

const angularJSON = `{
  "version": 1,
  "ignores": ["node_modules", "dist"],
  "plugins": {
    "import": "eslint-plugin-import",
    "@typescript-eslint": "@typescript-eslint/eslint-plugin",
    "@stylistic/ts": "@stylistic/eslint-plugin-ts"
  },
  "rulesets": {
    "base-style": {
      "rules": {
        "import/order": "off",
        "@stylistic/ts/indent": ["error", 4, {"SwitchCase": 1}]
      }
    }
  },
  "blocks": [
    {
      "name": "specs",
      "files": ["**/*.spec.ts"],
      "parser": "@typescript-eslint/parser",
      "extends": ["base-style"],
      "options": {"globals": ["jasmine"]},
      "rules": {"no-restricted-globals": ["error", "event", "fit", "fdescribe"]}
    },
    {
      "name": "typescript",
      "files": ["**/*.ts"],
      "ignores": ["**/*.spec.ts"],
      "parser": "@typescript-eslint/parser",
      "extends": ["base-style"],
      "options": {"globals": ["browser", "node"]},
      "rules": {
        "@typescript-eslint/no-explicit-any": "error",
        "complexity": ["warn", 15]
      }
    }
  ]
}
`

const angularHCL = `version = 1
ignores = ["node_modules", "dist"]
plugins = {
  import               = "eslint-plugin-import"
  "@typescript-eslint" = "@typescript-eslint/eslint-plugin"
  "@stylistic/ts"      = "@stylistic/eslint-plugin-ts"
}

ruleset "base-style" {
  rules = {
    "import/order"         = "off"
    "@stylistic/ts/indent" = ["error", 4, { SwitchCase = 1 }]
  }
}

block "specs" {
  files   = ["**/*.spec.ts"]
  parser  = "@typescript-eslint/parser"
  extends = ["base-style"]
  options = { globals = ["jasmine"] }
  rules = {
    "no-restricted-globals" = ["error", "event", "fit", "fdescribe"]
  }
}

block "typescript" {
  files   = ["**/*.ts"]
  ignores = ["**/*.spec.ts"]
  parser  = "@typescript-eslint/parser"
  extends = ["base-style"]
  options = { globals = ["browser", "node"] }
  rules = {
    "@typescript-eslint/no-explicit-any" = "error"
    complexity                           = ["warn", 15]
  }
}
`

func TestOpen_YAML(t *testing.T) {
	f, r, warnings, err := Open(writeConfig(t, "lint.yml", angularYAML))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, f.Blocks, 2)

	cfg, ok := r.Resolve("src/app/app.component.ts")
	require.True(t, ok)
	assert.Equal(t, "@typescript-eslint/parser", cfg.Parser())
	assert.Equal(t, []string{"typescript"}, cfg.Matched)
	assert.Equal(t, []string{
		"@stylistic/ts/indent",
		"@typescript-eslint/no-explicit-any",
		"complexity",
		"import/order",
	}, cfg.RuleIDs())
	assert.False(t, cfg.Rules["import/order"].Enabled())
	assert.Equal(t, []any{"browser", "node"}, cfg.Options["globals"])

	cfg, ok = r.Resolve("src/app/app.component.spec.ts")
	require.True(t, ok)
	assert.Equal(t, []string{"specs"}, cfg.Matched)
	assert.Contains(t, cfg.Rules, "no-restricted-globals")
	assert.NotContains(t, cfg.Rules, "@typescript-eslint/no-explicit-any")

	assert.True(t, r.IsIgnored("dist/main.js"))
	assert.True(t, r.IsIgnored("node_modules/rxjs/index.js"))
}

func TestOpen_FormatsAgree(t *testing.T) {
	_, want, _, err := Open(writeConfig(t, "lint.yaml", angularYAML))
	require.NoError(t, err)

	sources := map[string]string{
		"lint.toml": angularTOML,
		"lint.json": angularJSON,
		"lint.hcl":  angularHCL,
	}
	paths := []string{"src/app.ts", "src/app.spec.ts", "src/index.html", "README.md"}

	for name, content := range sources {
		t.Run(name, func(t *testing.T) {
			_, r, warnings, err := Open(writeConfig(t, name, content))
			require.NoError(t, err)
			assert.Empty(t, warnings)

			for _, p := range paths {
				w, _ := want.Resolve(p)
				g, ok := r.Resolve(p)
				require.True(t, ok, p)
				assert.Equal(t, w.Fingerprint(), g.Fingerprint(), p)
				assert.Equal(t, w.Matched, g.Matched, p)
			}
			assert.Equal(t, want.IsIgnored("dist/x.js"), r.IsIgnored("dist/x.js"))
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		is      error
		msg     string
	}{
		{"unknown extension", "lint.ini", "", ErrUnknownFormat, ""},
		{"empty yaml", "lint.yml", "", ErrVersion, "no version field"},
		{"missing version", "lint.json", `{"blocks": []}`, ErrVersion, "no version field"},
		{"future version with new fields", "lint.yml", "version: 2\nscopes: []\n", ErrVersion, "latest supported: 1"},
		{"future toml version", "lint.toml", "version = 3\n", ErrVersion, ""},
		{"unknown yaml field", "lint.yml", "version: 1\nblokcs: []\n", nil, "blokcs"},
		{"unknown json field", "lint.json", `{"version": 1, "ignore": []}`, nil, "ignore"},
		{"unknown toml field", "lint.toml", "version = 1\nignore = []\n", nil, "ignore"},
		{"hcl syntax", "lint.hcl", "version = \n", nil, "parsing hcl"},
		{"hcl options not an object", "lint.hcl", "version = 1\nblock \"a\" {\n  files = [\"**\"]\n  options = [\"x\"]\n}\n", nil, "expected an object"},
		{"hcl duplicate ruleset", "lint.hcl", "version = 1\nruleset \"a\" {}\nruleset \"a\" {}\n", nil, "duplicate ruleset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.file, []byte(tt.content))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	_, err := Discover(dir)
	assert.ErrorIs(t, err, ErrNoConfigFile)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lintscope.toml"), []byte(angularTOML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lintscope.hcl"), []byte(angularHCL), 0o644))
	got, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".lintscope.toml"), got)
}

func TestLoad_RecordsPath(t *testing.T) {
	path := writeConfig(t, "lint.yml", angularYAML)
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckMinVersion(t *testing.T) {
	assert.NoError(t, checkMinVersionAgainst("", "1.0.0"))
	assert.NoError(t, checkMinVersionAgainst(">= 0.3.0", "0.4.1"))
	assert.NoError(t, checkMinVersionAgainst(">= 9.0.0", "dev"))
	assert.ErrorIs(t, checkMinVersionAgainst(">= 1.2.0", "1.1.0"), ErrMinVersion)

	err := checkMinVersionAgainst("not a constraint", "1.0.0")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMinVersion)
	assert.Contains(t, err.Error(), "min_version")
}

func TestOpen_DocsExample(t *testing.T) {
	_, r, warnings, err := Open(filepath.Join("..", "..", "docs", "angular.lintscope.yml"))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	cfg, ok := r.Resolve("src/app/app.component.html")
	require.True(t, ok)
	assert.Equal(t, "@angular-eslint/template-parser", cfg.Parser())

	cfg, ok = r.Resolve("src/app/app.component.ts")
	require.True(t, ok)
	assert.Equal(t, resolver.SeverityWarn, cfg.Rules["@angular-eslint/prefer-on-push-component-change-detection"].Severity)
	assert.Equal(t, resolver.SeverityOff, cfg.Rules["import/order"].Severity)
	assert.Equal(t, []any{"smart"}, cfg.Rules["eqeqeq"].Params)
}
