package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("HELPERLY_DATABASE_URL", "postgres://localhost/helperly")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 1000, cfg.ChunkSize)
		assert.Equal(t, 200, cfg.ChunkOverlap)
		assert.Equal(t, 1536, cfg.EmbeddingDimensions)
		assert.Equal(t, 5, cfg.TopKDefault)
		assert.Equal(t, 0.7, cfg.MinScoreDefault)
		assert.Equal(t, 7, cfg.UploadMaxMB)
		assert.Equal(t, "helperly-uploads", cfg.S3Bucket)
		assert.False(t, cfg.HasOpenAI())
		assert.False(t, cfg.HasS3())
		assert.False(t, cfg.HasAPIKey())
	})

	t.Run("requires a database url", func(t *testing.T) {
		t.Setenv("HELPERLY_DATABASE_URL", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("HELPERLY_DATABASE_URL", "postgres://localhost/helperly")
		t.Setenv("HELPERLY_PORT", "9090")
		t.Setenv("HELPERLY_CHUNK_SIZE", "500")
		t.Setenv("HELPERLY_CHUNK_OVERLAP", "50")
		t.Setenv("HELPERLY_OPENAI_API_KEY", "sk-test")
		t.Setenv("HELPERLY_API_KEY", "static-key")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 500, cfg.ChunkSize)
		assert.Equal(t, 50, cfg.ChunkOverlap)
		assert.True(t, cfg.HasOpenAI())
		assert.True(t, cfg.HasAPIKey())
	})

	t.Run("rejects overlap at or above chunk size", func(t *testing.T) {
		t.Setenv("HELPERLY_DATABASE_URL", "postgres://localhost/helperly")
		t.Setenv("HELPERLY_CHUNK_SIZE", "100")
		t.Setenv("HELPERLY_CHUNK_OVERLAP", "100")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestConfig_UploadMaxBytes(t *testing.T) {
	cfg := &Config{UploadMaxMB: 7}
	assert.Equal(t, int64(7*1024*1024), cfg.UploadMaxBytes())
}
