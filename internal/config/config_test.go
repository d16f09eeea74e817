package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/emi-oracle-go/internal/validators"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "DEV_BASE_URL", "TIMEOUT", "HEADLESS", "BROWSER", "MIN_PRINCIPAL", "TOLERANCE_PERCENT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "chromium", cfg.Browser)
	assert.Equal(t, 1.0, cfg.TolerancePercent)
	assert.Equal(t, validators.DefaultBounds(), cfg.Bounds())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("STAGING_BASE_URL", "http://localhost:3000")
	t.Setenv("TIMEOUT", "5000")
	t.Setenv("HEADLESS", "true")
	t.Setenv("BROWSER", "Firefox")
	t.Setenv("MIN_PRINCIPAL", "50000")
	t.Setenv("MAX_TENURE", "240")
	t.Setenv("RETRIES", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.Equal(t, 50000.0, cfg.Bounds().MinPrincipal)
	assert.Equal(t, 240, cfg.Bounds().MaxTenure)
	assert.Equal(t, 2, cfg.Retries, "unparsable value falls back to default")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "inverted principal bounds", key: "MIN_PRINCIPAL", value: "1000000000"},
		{name: "unknown browser", key: "BROWSER", value: "netscape"},
		{name: "zero timeout", key: "TIMEOUT", value: "0"},
		{name: "negative tolerance", key: "TOLERANCE_PERCENT", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
