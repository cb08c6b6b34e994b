package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/timeaxis/pkg/constants"
	"github.com/agentstation/timeaxis/pkg/logging"
)

// isolate points HOME at an empty directory so a developer's
// ~/.timeaxis.yaml does not leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, constants.DefaultJobs, config.Jobs)
	assert.Equal(t, constants.TruncSuffix, config.TruncSuffix)
	assert.False(t, config.Copy)
	assert.NotEmpty(t, config.LogFormat)
	assert.NotEmpty(t, config.LogOutput)
}

// TestConfig_EnvironmentVariables verifies TIMEAXIS_ environment variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("TIMEAXIS_JOBS", "12")
	t.Setenv("TIMEAXIS_COPY", "true")
	t.Setenv("TIMEAXIS_OUTPUT_DIR", "/scratch/out")
	t.Setenv("TIMEAXIS_UNITS_OUT", "/tmp/units.txt")
	t.Setenv("TIMEAXIS_FORMAT", "json")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, config.Jobs)
	assert.True(t, config.Copy)
	assert.Equal(t, "/scratch/out", config.OutputDir)
	assert.Equal(t, "/tmp/units.txt", config.UnitsOut)
	assert.Equal(t, "json", config.Format)
}

// TestConfig_InvalidJobs verifies a non-positive job count falls back to the default.
func TestConfig_InvalidJobs(t *testing.T) {
	isolate(t)
	t.Setenv("TIMEAXIS_JOBS", "0")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultJobs, config.Jobs)
}

// TestLoadConfigFile verifies an explicit YAML config file.
func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "timeaxis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: 3\ncopy: true\ntrunc_suffix: .cut\noutput_dir: /data/out\n"), 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, 3, config.Jobs)
	assert.True(t, config.Copy)
	assert.Equal(t, ".cut", config.TruncSuffix)
	assert.Equal(t, "/data/out", config.OutputDir)

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("TIMEAXIS_JOBS", "9")
		config, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, 9, config.Jobs)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})
}

// TestConfig_HomeFile verifies ~/.timeaxis.yaml is picked up.
func TestConfig_HomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".timeaxis.yaml"), []byte("jobs: 5\n"), 0o600))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, config.Jobs)
	assert.Equal(t, filepath.Join(home, ".timeaxis.yaml"), config.ConfigFile)
}

// TestConfig_UpdateFromFlags verifies flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "json", "debug")
	assert.True(t, config.Quiet)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}

// TestConfig_BrokenHomeFile verifies that an unreadable config file found by
// search is reported and skipped.
func TestConfig_BrokenHomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".timeaxis.yaml"), []byte("jobs: [3\n"), 0o644))

	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })
	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultJobs, config.Jobs)
	assert.Contains(t, buf.String(), "Ignoring unreadable config file")
}
