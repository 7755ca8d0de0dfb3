package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/anthropics/audioengine/pkg/engine"
	"github.com/anthropics/audioengine/pkg/spatial"
)

// writeYAMLFixture marshals v with yaml.v3 and writes it to a fresh file
// under t.TempDir(), so fixtures stay structured data instead of hand-typed
// YAML strings that could silently drift from the mapstructure tags above.
func writeYAMLFixture(t *testing.T, v any) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "audioengine.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadWithNoFilePresentReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := writeYAMLFixture(t, map[string]any{"SampleRate": 48000, "Channels": 2})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, cfg.SampleRate)
}

// TestEnvOverridesDefault exercises scenario 8: precedence is
// defaults < file < env, so with no file present an env var wins over the
// default. TestEnvOverridesFileValue covers env over a file value.
func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("ENGINE_SAMPLE_RATE", "96000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 96000, cfg.SampleRate, "env must override the documented default")
}

func TestEnvOverridesFileValue(t *testing.T) {
	path := writeYAMLFixture(t, map[string]any{"SampleRate": 48000})
	t.Setenv("ENGINE_SAMPLE_RATE", "96000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 96000, cfg.SampleRate, "viper's native precedence puts env above file")
}

func TestLoadRejectsUnknownRolloff(t *testing.T) {
	path := writeYAMLFixture(t, map[string]any{"SpatialRolloff": "quadratic"})

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAcceptsInverseSquareRolloff(t *testing.T) {
	path := writeYAMLFixture(t, map[string]any{"SpatialRolloff": "inverse_square"})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, spatial.RolloffInverseSquare, cfg.SpatialRolloff)
}
