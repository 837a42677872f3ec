package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRE", "2d")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("ENABLE_API_DOCS", "yes")
	t.Setenv("ADMIN_EMAILS", " Admin@Example.com, ,ops@example.com")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.DocsEnabled())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.IsAdminEmail("ADMIN@example.com"))
	assert.False(t, cfg.IsAdminEmail("someone@example.com"))
	assert.Equal(t, 10, cfg.RateLimitBurst)
}

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Duration{
		"":    7 * 24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"1d":  24 * time.Hour,
		"90m": 90 * time.Minute,
	}
	for input, want := range cases {
		got, err := parseExpiry(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"0d", "xd", "-1h", "soon"} {
		_, err := parseExpiry(input)
		assert.Error(t, err, input)
	}
}

func TestDocsEnabledOnlyInDevelopment(t *testing.T) {
	assert.False(t, (&Config{AppEnv: "production", EnableDocs: true}).DocsEnabled())
	assert.False(t, (&Config{AppEnv: "development", EnableDocs: false}).DocsEnabled())
	assert.True(t, (&Config{AppEnv: "development", EnableDocs: true}).DocsEnabled())
}
