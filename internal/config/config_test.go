package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktime/internal/storage"
)

func TestLoadFileWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worktime", "config.json")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// The written template must parse back to the same defaults.
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), again)
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `// comment line
{
  "settings": {
    // explicit zero stays zero
    "driver_compensation_percent": 0,
    "expected_monthly_hours": 150
  },
  "storage": {"driver": "sqlite"}
}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Settings.DriverCompensationPercent)
	assert.Equal(t, 90.0, cfg.Settings.PassengerCompensationPercent)
	assert.Equal(t, 8.0, cfg.Settings.DefaultWorkHours)
	require.NotNil(t, cfg.Settings.ExpectedMonthlyHours)
	assert.Equal(t, 150.0, *cfg.Settings.ExpectedMonthlyHours)
	assert.Equal(t, storage.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, DefaultLocation, cfg.Outlook.DefaultLocation)
}

func TestLoadFileEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"settings": {"passenger_compensation_percent": 50}}`), 0o600))

	t.Setenv("WORKTIME_PASSENGER_PERCENT", "75")
	t.Setenv("WORKTIME_DEFAULT_WORK_HOURS", "7.5")
	t.Setenv("WORKTIME_LOG_LEVEL", "debug")
	t.Setenv("WORKTIME_SERVER_ADDR", ":9000")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Settings.PassengerCompensationPercent)
	assert.Equal(t, 7.5, cfg.Settings.DefaultWorkHours)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadFileInvalid(t *testing.T) {
	tests := map[string]string{
		"bad json":        `{"settings": `,
		"negative pct":    `{"settings": {"driver_compensation_percent": -1}}`,
		"too many hours":  `{"settings": {"default_work_hours": 25}}`,
		"unknown driver":  `{"storage": {"driver": "postgres"}}`,
		"negative target": `{"settings": {"expected_monthly_hours": -5}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestStripLineComments(t *testing.T) {
	in := []byte("// header\n{\n  // inside\n  \"a\": 1\n}\n")
	assert.Equal(t, "{\n  \"a\": 1\n}\n\n", string(stripLineComments(in)))
}

func TestEffectiveWithTeamFile(t *testing.T) {
	dir := t.TempDir()
	team := filepath.Join(dir, "team.yaml")
	require.NoError(t, os.WriteFile(team, []byte("team: field-service\npassenger_compensation_percent: 80\ndefault_work_hours: 7.5\n"), 0o600))

	cfg := Default()
	cfg.TeamFile = team
	eff, err := cfg.Effective()
	require.NoError(t, err)
	assert.Equal(t, 100.0, eff.DriverCompensationPercent)
	assert.Equal(t, 80.0, eff.PassengerCompensationPercent)
	assert.Equal(t, 7.5, eff.DefaultWorkHours)
	assert.Nil(t, eff.ExpectedMonthlyHours)
}

func TestEffectiveMissingTeamFile(t *testing.T) {
	cfg := Default()
	cfg.TeamFile = filepath.Join(t.TempDir(), "missing.yaml")
	eff, err := cfg.Effective()
	assert.Error(t, err)
	assert.Equal(t, 90.0, eff.PassengerCompensationPercent, "falls back to personal settings")
}

func TestStoragePath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = "/data/wt"
	p, err := cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, "/data/wt", p)

	t.Setenv("HOME", "/home/tester")
	cfg.Storage = StorageConfig{Driver: storage.DriverSQLite}
	p, err = cfg.StoragePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".worktime", "worktime.db"), p)
}
