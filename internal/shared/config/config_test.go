package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "OBJECT_STORE", "METADATA_STORE", "LLM_PROVIDER", "REDIS_DB", "RENDER_WIDTH", "REDIS_KEY_PREFIX", "SUBMIT_RATE_PER_MINUTE", "SUBMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, "memory", cfg.MetadataStore)
	assert.Equal(t, "", cfg.LLMProvider)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 1600, cfg.RenderWidth)
	assert.Equal(t, "resume:", cfg.RedisKeyPrefix)
	assert.Equal(t, 6, cfg.SubmitPerMinute)
	assert.Equal(t, 3, cfg.SubmitBurst)
}

func TestLoadNormalizesValues(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("METADATA_STORE", "pg")
	t.Setenv("LLM_PROVIDER", "Google")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "s3", cfg.ObjectStoreType)
	assert.Equal(t, "postgres", cfg.MetadataStore)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigin)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("RENDER_WIDTH", "wide")
	assert.Equal(t, 1600, getEnvInt("RENDER_WIDTH", 1600))
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RF_TEST_FROM_FILE=file\nRF_TEST_PRESET=file\n"), 0o600))

	t.Setenv("RF_TEST_PRESET", "env")
	t.Cleanup(func() { _ = os.Unsetenv("RF_TEST_FROM_FILE") })

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)
	assert.Equal(t, "file", os.Getenv("RF_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("RF_TEST_PRESET"))
}
