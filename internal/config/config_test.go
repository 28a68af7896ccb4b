package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "SERVER_PORT", "JWT_TTL", "COMPLETE_REQUIRES_ADMIN", "SHOP_TIMEZONE", "AUDIT_QUEUE_SIZE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "Europe/Istanbul", cfg.Shop.Timezone)
	assert.False(t, cfg.Policies.CompleteRequiresAdmin)
	assert.Equal(t, 100, cfg.Audit.QueueSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("COMPLETE_REQUIRES_ADMIN", "true")
	t.Setenv("S3_BUCKET", "servis-photos")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://panel.oto.test,http://localhost:5173")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Policies.CompleteRequiresAdmin)
	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, []string{"https://panel.oto.test", "http://localhost:5173"}, cfg.App.CORSAllowedOrigins)
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
