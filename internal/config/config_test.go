package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.LLM.APIURL)
	assert.Equal(t, "deepseek-chat", cfg.LLM.Model)
	assert.Equal(t, language.Chinese, cfg.Translate.TargetLanguage)
	assert.Equal(t, 20, cfg.Translate.BatchTarget)
	assert.Equal(t, 15, cfg.Translate.BatchMin)
	assert.Equal(t, 30, cfg.Translate.BatchMax)
	assert.Equal(t, 3, cfg.Translate.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Translate.RetryDelay())
	assert.Equal(t, []string{"/media"}, cfg.Library.Dirs)
	assert.Equal(t, 1, cfg.Jobs.Workers)
	assert.Equal(t, "data/jobs.db", cfg.Jobs.DBPath)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("TARGET_LANGUAGE", "ja")
	t.Setenv("BATCH_TARGET", "8")
	t.Setenv("BATCH_MIN", "5")
	t.Setenv("BATCH_MAX", "10")
	t.Setenv("LIBRARY_DIRS", "/movies, /shows")
	t.Setenv("JOB_WORKERS", "4")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, language.Japanese, cfg.Translate.TargetLanguage)
	assert.Equal(t, 8, cfg.Translate.BatchTarget)
	assert.Equal(t, []string{"/movies", "/shows"}, cfg.Library.Dirs)
	assert.Equal(t, 4, cfg.Jobs.Workers)
}

func TestNewFromEnv_MissingAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestNewFromEnv_InvalidBatchSizes(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("BATCH_MIN", "10")
	t.Setenv("BATCH_TARGET", "5")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_MIN")
}

func TestNewFromEnv_Options(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := NewFromEnv(WithTargetLanguage(language.Korean))
	require.NoError(t, err)
	assert.Equal(t, language.Korean, cfg.Translate.TargetLanguage)
}
