package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL.Duration)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Presets.AutoAdvance, "auto advance is opt-in")
	assert.False(t, cfg.AdminEnabled(), "no secret, no admin")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hukuk.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090
read_timeout = "5s"

[auth]
jwt_secret = "s3cret"
admin_password_hash = "$2a$10$abc"

[log]
level = "debug"
format = "console"

[presets]
active = "tr-2025-h2"
auto_advance = true
check_interval = "10m"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout.Duration, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tr-2025-h2", cfg.Presets.Active)
	assert.Equal(t, 10*time.Minute, cfg.Presets.CheckInterval.Duration)
	assert.True(t, cfg.AdminEnabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HUKUK_JWT_SECRET", "from-env")
	t.Setenv("HUKUK_DB_PATH", ":memory:")
	t.Setenv("HUKUK_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad duration", "[auth]\ntoken_ttl = \"soon\"\n"},
		{"bad port", "[server]\nport = 70000\n"},
		{"bad log format", "[log]\nformat = \"xml\"\n"},
		{"zero interval with auto advance", "[presets]\nauto_advance = true\ncheck_interval = \"0s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "hukuk.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("HUKUK_PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)
}
