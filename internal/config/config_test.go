package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
driver = "postgres"
host = "localhost"
dbname = "venues"
user = "venue"

[availability]
timezone = "Asia/Kolkata"
point_check_projection = true

[retry]
max_attempts = 5

[rate_limit]
max_clients = 500

[[seed_spaces]]
name = "Grant Hall"
location = "Level 2"
capacity = 120

[[seed_spaces]]
name = "Annex"
capacity = 20
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Availability.Timezone)
	assert.True(t, cfg.Availability.PointCheckProjection)
	assert.Equal(t, 31, cfg.Availability.MaxSeriesDays)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.InitialBackoff())
	assert.Equal(t, 500, cfg.RateLimit.MaxClients)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.IdleTTL())
	require.Len(t, cfg.SeedSpaces, 2)
	assert.Equal(t, "Grant Hall", cfg.SeedSpaces[0].Name)
	require.NotNil(t, cfg.SeedSpaces[0].Location)
	assert.Equal(t, "Level 2", *cfg.SeedSpaces[0].Location)
	assert.Nil(t, cfg.SeedSpaces[1].Location)
	assert.Equal(t, 20, cfg.SeedSpaces[1].Capacity)
	assert.Equal(t, "host=localhost port=5432 user=venue password= dbname=venues sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("VENUE_SERVER_HTTP_PORT", "7070")
	t.Setenv("VENUE_RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("VENUE_REDIS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("VENUE_DATABASE_DRIVER", "sqlite")
	t.Setenv("VENUE_DATABASE_SQLITE_PATH", "/tmp/venue-test.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:/tmp/venue-test.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown driver", "[database]\ndriver = \"mysql\"\n"},
		{"postgres without host", "[database]\ndriver = \"postgres\"\n"},
		{"bad timezone", "[database]\ndriver = \"sqlite\"\n[availability]\ntimezone = \"Mars/Olympus\"\n"},
		{"broken toml", "[database\n"},
		{"seed without name", "[database]\ndriver = \"sqlite\"\n[[seed_spaces]]\ncapacity = 10\n"},
		{"seed without capacity", "[database]\ndriver = \"sqlite\"\n[[seed_spaces]]\nname = \"Annex\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
