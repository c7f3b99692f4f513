package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nemora-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "5174", cfg.Port)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "auto", cfg.AIProvider)
	assert.Equal(t, 700, cfg.AIMaxTokens)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.NotifyTimeout)
	assert.False(t, cfg.WebhookEnabled())
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.EmailEnabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/nemora")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,192.168.0.0/16")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.SMTPSecure)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, "/srv/nemora", cfg.DataDir)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NEMORA_TEST_WEBHOOK=1\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NEMORA_TEST_WEBHOOK") })

	_, err := config.Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "1", os.Getenv("NEMORA_TEST_WEBHOOK"))
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{Port: "8080", SMTPPort: 587, AIMaxTokens: 700, NotifyWorkers: 1}
	assert.NoError(t, cfg.Validate())

	cfg.AIMaxTokens = 0
	assert.Error(t, cfg.Validate())

	cfg.AIMaxTokens = 700
	cfg.SupabaseURL = "https://x.supabase.co"
	assert.Error(t, cfg.Validate())
}

func TestEmailEnabled_RequiresRecipient(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com"}
	assert.False(t, cfg.EmailEnabled())

	cfg.EmailTo = "orders@example.com"
	assert.True(t, cfg.EmailEnabled())
}
