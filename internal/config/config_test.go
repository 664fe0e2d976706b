package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("CHAPTER_COOLDOWN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/bookforge.db", cfg.DatabasePath)
	assert.Equal(t, "books", cfg.OutputDir)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, "llama3.2", cfg.OllamaModel)
	assert.Equal(t, 10*time.Second, cfg.ChapterCooldown)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/custom.db")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("CHAPTER_COOLDOWN", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DatabasePath)
	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.Equal(t, 30*time.Second, cfg.ChapterCooldown)
}

func TestLoadBadCooldown(t *testing.T) {
	t.Setenv("CHAPTER_COOLDOWN", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAPTER_COOLDOWN")
}

func TestValidateForGeneration(t *testing.T) {
	cfg := &Config{DatabasePath: "db", OutputDir: "out", GeminiAPIKey: "key"}
	assert.NoError(t, cfg.ValidateForGeneration())

	cfg.GeminiAPIKey = ""
	err := cfg.ValidateForGeneration()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg = &Config{OutputDir: "out", GeminiAPIKey: "key"}
	assert.Error(t, cfg.ValidateForGeneration())
}

func TestNormalizeOllamaHost(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "http://localhost:11434"},
		{"0.0.0.0", "http://localhost:11434"},
		{"0.0.0.0:11434", "http://localhost:11434"},
		{"localhost:11434", "http://localhost:11434"},
		{"http://remote:11434", "http://remote:11434"},
		{"https://remote", "https://remote"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeOllamaHost(tc.in), "input %q", tc.in)
	}
}
