package config_test

import (
	"testing"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "軽の森", cfg.SiteName)
	assert.Equal(t, "Asia/Tokyo", cfg.SiteTimezone)
	assert.Equal(t, "noreply@keinomori.com", cfg.MailFromAddress)
	assert.Equal(t, 10*time.Second, cfg.MailSendTimeout)
	assert.Equal(t, "verify", cfg.TokenMode)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.NotEmpty(t, cfg.CarTypes)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MAIL_DRIVER", "LOG")
	t.Setenv("MAIL_SEND_TIMEOUT", "3s")
	t.Setenv("INQUIRY_TOKEN_MODE", "presence")
	t.Setenv("RATE_LIMIT_INQUIRY_THRESHOLD", "5")
	t.Setenv("RATE_LIMIT_TOKEN_THRESHOLD", "20")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("INQUIRY_STORES", "堺本店,泉北店")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "log", cfg.MailDriver)
	assert.Equal(t, 3*time.Second, cfg.MailSendTimeout)
	assert.Equal(t, "presence", cfg.TokenMode)
	assert.Equal(t, 5, cfg.RateLimitInquiryThreshold)
	assert.Equal(t, 20, cfg.RateLimitTokenThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"堺本店", "泉北店"}, cfg.Stores)
}

func TestLoadConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("MAIL_SEND_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "a minute")
	t.Setenv("INQUIRY_CAR_TYPES", " , ")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.MailSendTimeout)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.NotEmpty(t, cfg.CarTypes)
}
