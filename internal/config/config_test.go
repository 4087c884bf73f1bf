package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"US", "GB", "CA", "AU"}, cfg.Catalog.Regions)
	assert.Equal(t, 5, cfg.Catalog.VideosPerKeyword)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.Catalog.BaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, int32(4), cfg.Warehouse.MaxConns)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TUBEPULSE_WAREHOUSE_DATABASE_URL", "postgres://etl@wh/analytics")
	t.Setenv("TUBEPULSE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://etl@wh/analytics", cfg.Warehouse.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateLoad(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateLoad()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse.database_url")
	assert.Contains(t, err.Error(), "blob.root_dir")

	cfg.Warehouse.DatabaseURL = "postgres://etl@wh/analytics"
	cfg.Blob.RootDir = "/var/lib/tubepulse"
	assert.NoError(t, cfg.ValidateLoad())
}

func TestValidateCollect(t *testing.T) {
	cfg := &Config{}
	cfg.Blob.RootDir = "/var/lib/tubepulse"
	err := cfg.ValidateCollect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.api_key")

	cfg.Catalog.APIKey = "key"
	assert.NoError(t, cfg.ValidateCollect())
}

func TestRules_DefaultWhenNoPath(t *testing.T) {
	cfg := &Config{}
	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, []int{28}, rules.PositiveCategories)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
