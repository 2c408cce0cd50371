package canodds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Setenv(AssetsEnvVar, "")
	config := DefaultConfig()
	require.NoError(t, ValidateConfig(config))
	assert.Equal(t, "assets", config.AssetsPath)
	assert.Equal(t, HomeBoost, config.Prediction.HomeBoost)
	assert.Equal(t, 15, config.Server.TeamStatsLimit)
}

func TestDefaultConfigAssetsFromEnv(t *testing.T) {
	t.Setenv(AssetsEnvVar, "/srv/canodds")
	config := DefaultConfig()
	assert.Equal(t, "/srv/canodds", config.AssetsPath)
	assert.Equal(t, filepath.Join("/srv/canodds", "models/feature_columns.json"), config.Resolve(config.FeaturesPath))
	assert.Equal(t, "/abs/model.json", config.Resolve("/abs/model.json"))
}

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "canodds.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canodds.toml")
	content := `
assets_path = "/data"

[stats]
source = "sqlite"
db_path = "stats.db"

[prediction]
home_boost = 1.1

[server]
http_addr = ":8080"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", config.AssetsPath)
	assert.Equal(t, StatsSourceSQLite, config.Stats.Source)
	assert.Equal(t, 1.1, config.Prediction.HomeBoost)
	assert.Equal(t, ":8080", config.Server.HTTPAddr)
	assert.Equal(t, 15, config.Server.TeamStatsLimit, "unset keys keep their defaults")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"boost":    "[prediction]\nhome_boost = 3.0\n",
		"source":   "[stats]\nsource = \"mongo\"\n",
		"postgres": "[stats]\nsource = \"postgres\"\n",
		"log":      "[log]\noutput = \"z\"\n",
		"syntax":   "assets_path = \n",
	} {
		path := filepath.Join(dir, name+".toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err, name)
	}
}
