package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Validation.MaxFutureDays)
	assert.Equal(t, 20*time.Second, cfg.Validation.LockWait)
	assert.Equal(t, "Compliance", cfg.Report.Prefix)
	assert.False(t, cfg.AutoClose.Enabled)
	assert.NotEmpty(t, cfg.Database.Path)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
database:
  path: /tmp/test.db
validation:
  max_future_days: 3
  role_activities:
    aide: [DUTY, LUNCH]
report:
  prefix: "District 12"
autoclose:
  enabled: true
  schedule: "0 19 * * FRI"
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 3, cfg.Validation.MaxFutureDays)
	assert.Equal(t, []string{"DUTY", "LUNCH"}, cfg.Validation.RoleActivities["aide"])
	assert.Equal(t, "District 12", cfg.Report.Prefix)
	assert.True(t, cfg.AutoClose.Enabled)
	assert.Equal(t, "0 19 * * FRI", cfg.AutoClose.Schedule)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20*time.Second, cfg.Report.LockWait)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRANTHOURS_DATABASE_PATH", "/var/lib/granthours.db")
	t.Setenv("GRANTHOURS_REPORT_PREFIX", "Pilot")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/granthours.db", cfg.Database.Path)
	assert.Equal(t, "Pilot", cfg.Report.Prefix)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/no/such/config.yaml")
	require.Error(t, err)
}
