package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
[database]
driver = "memory"

[auth]
jwt_secret = "secret"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30, cfg.Parking.LowWaitMinutes)
	assert.Equal(t, 15, cfg.Parking.HighWaitMinutes)
	assert.Equal(t, 50.0, cfg.Parking.OccupancyThresholdPercent)
	assert.Equal(t, 120, cfg.Parking.SeedTotalSlots)
	assert.Equal(t, 24, cfg.Parking.SeedReservedSlots)
	assert.Equal(t, "PARKING", cfg.Parking.SeedSlotPrefix)
	assert.Empty(t, cfg.Parking.SweepSchedule)

	policy := cfg.Parking.WaitPolicy()
	assert.Equal(t, 30*time.Minute, policy.LowWait)
	assert.Equal(t, 15*time.Minute, policy.HighWait)
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[server]
http_port = 9000

[database]
driver = "postgres"
host = "db"
port = 5432
user = "parking"
password = "pw"
dbname = "parking"

[auth]
jwt_secret = "secret"

[parking]
low_wait_minutes = 45
high_wait_minutes = 10
occupancy_threshold_percent = 70
sweep_schedule = "@every 30s"
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "host=db port=5432 user=parking password=pw dbname=parking sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 45, cfg.Parking.LowWaitMinutes)
	assert.Equal(t, 70.0, cfg.Parking.OccupancyThresholdPercent)
	assert.Equal(t, "@every 30s", cfg.Parking.SweepSchedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOW_WAIT_MINUTES", "40")
	t.Setenv("HIGH_WAIT_MINUTES", "5")
	t.Setenv("OCCUPANCY_THRESHOLD_PERCENT", "75.5")
	t.Setenv("SWEEP_SCHEDULE", "@every 2m")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_DRIVER", "postgres")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Parking.LowWaitMinutes)
	assert.Equal(t, 5, cfg.Parking.HighWaitMinutes)
	assert.Equal(t, 75.5, cfg.Parking.OccupancyThresholdPercent)
	assert.Equal(t, "@every 2m", cfg.Parking.SweepSchedule)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, ErrReadConfig)
	})

	t.Run("bad env number", func(t *testing.T) {
		t.Setenv("LOW_WAIT_MINUTES", "thirty")
		_, err := Load(writeConfig(t, minimalConfig))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	tests := []struct {
		name string
		body string
	}{
		{"no secret", "[database]\ndriver = \"memory\"\n"},
		{"unknown driver", "[database]\ndriver = \"mongo\"\n[auth]\njwt_secret = \"s\"\n"},
		{"negative wait", minimalConfig + "[parking]\nlow_wait_minutes = -1\n"},
		{"threshold above 100", minimalConfig + "[parking]\noccupancy_threshold_percent = 120\n"},
		{"reserved above total", minimalConfig + "[parking]\nseed_total_slots = 5\nseed_reserved_slots = 6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
