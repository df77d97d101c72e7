package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 10, cfg.Retry.DelaySecs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mistral", cfg.Convert.Provider)
	assert.Equal(t, "pdftotext", cfg.Convert.PdfToTextPath)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FILING_STORE_DRIVER", "sqlite")
	t.Setenv("FILING_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("FILING_LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestRetryDelay(t *testing.T) {
	r := RetryConfig{DelaySecs: 10}
	assert.Equal(t, 10*time.Second, r.Delay())
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}
