package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":3000", cfg.EndpointAddrHTTP)
	assert.Equal(t, BackendDiscord, cfg.StorageBackend)
	assert.Equal(t, "https", cfg.ServiceProtocol)
	assert.Equal(t, 15*time.Minute, cfg.S3PresignValidity)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":  ":8080",
		"database_dsn":        "postgres://json",
		"secret_key":          "json-secret",
		"service_protocol":    "http",
		"service_domain":      "files.example.com",
		"storage_backend":     "s3",
		"discord_api_base":    "https://discord.test/api",
		"discord_bot_token":   "bot-token",
		"discord_channel_id":  "123",
		"s3_root_user":        "ju",
		"s3_root_password":    "jp",
		"s3_bucket":           "jb",
		"s3_region":           "jr",
		"s3_base_endpoint":    "http://s3.test/",
		"s3_presign_validity": "30m",
	})
	os.Args = []string{"app", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, "files.example.com", cfg.ServiceDomain)
	assert.Equal(t, BackendS3, cfg.StorageBackend)
	assert.Equal(t, 30*time.Minute, cfg.S3PresignValidity)
}

func TestLoadConfig_FlagsWinOverJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":  ":8080",
		"database_dsn":        "postgres://json",
		"secret_key":          "json-secret",
		"service_protocol":    "http",
		"service_domain":      "files.example.com",
		"storage_backend":     "discord",
		"s3_presign_validity": "30m",
	})
	os.Args = []string{"app", "-c", path, "-a", ":9999", "-s", "flag-secret"}

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
}

func TestLoadConfig_EnvOverridesSecrets(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"app"}

	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("DISCORD_TOKEN", "env-bot-token")
	t.Setenv("DISCORD_CHANNEL_ID", "chan-42")

	cfg := LoadConfig()

	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, "env-bot-token", cfg.DiscordBotToken)
	assert.Equal(t, "chan-42", cfg.DiscordChannelID)
}
