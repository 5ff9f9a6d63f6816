package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/config"
	"resume-feedback/internal/shared/server/middleware"
	"resume-feedback/internal/shared/storage/kv"
)

func TestBuildDevDefaults(t *testing.T) {
	cfg := config.Config{
		LocalStoreDir: t.TempDir(),
		MetadataStore: "memory",
		LogLevel:      "error",
	}
	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "dev", app.Config.Env)
	assert.IsType(t, &kv.MemoryStore{}, app.Metadata)
	assert.IsType(t, llm.PlaceholderClient{}, app.AI)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRejectsIncompleteProviders(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "s3 without bucket", cfg: config.Config{ObjectStoreType: "s3"}},
		{name: "postgres without url", cfg: config.Config{MetadataStore: "postgres"}},
		{name: "openai without key", cfg: config.Config{LLMProvider: "openai", LLMModel: "gpt-4o-mini"}},
		{name: "gemini without key", cfg: config.Config{LLMProvider: "gemini"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.LocalStoreDir = t.TempDir()
			_, err := Build(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestSubmitRule(t *testing.T) {
	assert.Equal(t, middleware.RateLimitRule{}, submitRule(config.Config{}))
	assert.Equal(t, middleware.RateLimitRule{Rate: 0.1, Burst: 1}, submitRule(config.Config{SubmitPerMinute: 6}))
	assert.Equal(t, middleware.RateLimitRule{Rate: 1, Burst: 3}, submitRule(config.Config{SubmitPerMinute: 60, SubmitBurst: 3}))
}
