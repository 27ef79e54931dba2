package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Configure(Config{Level: "warn", Format: "json", Output: &bytes.Buffer{}}) })

	l := WithComponent("scan")
	l.Debug().Str("path", "src/app.ts").Msg("resolved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scan", entry["component"])
	assert.Equal(t, "src/app.ts", entry["path"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigureLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "error", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Configure(Config{Level: "warn", Format: "json", Output: &bytes.Buffer{}}) })

	l := Base()
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestConfigureRejectsBadLevel(t *testing.T) {
	assert.Error(t, Configure(Config{Level: "loud", Output: &bytes.Buffer{}}))
}

func TestConfigureRejectsBadFormat(t *testing.T) {
	err := Configure(Config{Level: "info", Format: "xml", Output: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
