package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, ":8000", c.Addr())
	assert.Equal(t, "postgres", c.Database.Driver)
	assert.Equal(t, 500, c.Mission.BatchSize)
	assert.Equal(t, 10*time.Minute, c.Mission.FailureCooldown)
	assert.Equal(t, time.UTC, c.Location())
	assert.False(t, c.Schedule.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: 9000
database:
  driver: sqlite
  dsn: file::memory:
mission:
  timezone: Asia/Seoul
  batch_size: 0
  failure_cooldown: 15m
schedule:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example/abc")
	t.Setenv("PORT", "9100")

	c := Load(path)

	assert.Equal(t, ":9100", c.Addr())
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "https://hooks.example/abc", c.Slack.WebhookURL)
	assert.Equal(t, 500, c.Mission.BatchSize)
	assert.Equal(t, 15*time.Minute, c.Mission.FailureCooldown)
	assert.Equal(t, "Asia/Seoul", c.Location().String())
	assert.True(t, c.Schedule.Enabled)
}

func TestScheduleEnabledFromEnv(t *testing.T) {
	t.Setenv("SCHEDULE_ENABLED", "true")
	t.Setenv("MISSION_TIMEZONE", "Asia/Seoul")
	c := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, c.Schedule.Enabled)
	assert.Equal(t, "Asia/Seoul", c.Mission.Timezone)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	c := &Config{Mission: MissionConfig{Timezone: "Nowhere/Atlantis"}}
	assert.Equal(t, time.UTC, c.Location())
}

func TestOpenGormDBSQLite(t *testing.T) {
	c := &Config{Database: DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"}}
	db, err := c.OpenGormDB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestOpenGormDBUnknownDriver(t *testing.T) {
	c := &Config{Database: DatabaseConfig{Driver: "oracle"}}
	_, err := c.OpenGormDB()
	assert.ErrorContains(t, err, "unsupported database driver")
}
