package tracer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
enabled: true
service_name: checkout
collector_endpoint: localhost:4317
langfuse:
  enabled: true
  environment: staging
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, config.Enabled)
	assert.Equal(t, "checkout", config.ServiceName)
	assert.Equal(t, "localhost:4317", config.CollectorEndpoint)
	assert.True(t, config.Langfuse.Enabled)
	assert.Equal(t, "staging", config.Langfuse.Environment)
}

func TestSubspanEnabledDefaultsToTrue(t *testing.T) {
	path := writeConfigFile(t, "enabled: false\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, config.SubspanEnabled())
}

func TestSubspanEnabledExplicitFalse(t *testing.T) {
	path := writeConfigFile(t, "surround_calls_with_subspan: false\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, config.SubspanEnabled())
}

func TestLoadConfigRejectsInvalidPaths(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig("../../../etc/passwd")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "enabled: [not a bool\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
