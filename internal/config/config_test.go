package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
[database]
host = "localhost"
dbname = "reservations"

[catalog]
url = "http://catalog:8080"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(minimal)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "host=localhost port=5432 user= password= dbname=reservations sslmode=disable", cfg.Database.DSN())

	loc, err := cfg.Engine.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing database", data: `[catalog]
url = "http://catalog"`},
		{name: "missing catalog", data: `[database]
host = "db"
dbname = "x"`},
		{name: "bad timezone", data: minimal + `
[engine]
timezone = "Mars/Olympus"`},
		{name: "redis without address", data: minimal + `
[redis]
enabled = true`},
		{name: "notifier without url", data: minimal + `
[notifier]
enabled = true`},
		{name: "bad port", data: minimal + `
[server]
http_port = 70000`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_MalformedTOML(t *testing.T) {
	_, err := Parse("[database\nhost=")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("RESERVATION_DB_PASSWORD", "s3cret")
	t.Setenv("RESERVATION_TZ", "UTC")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimal+`
[engine]
timezone = "${RESERVATION_TZ}"
`), 0o644))

	withPassword := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(withPassword, []byte(`
[database]
host = "localhost"
dbname = "reservations"
password = "${RESERVATION_DB_PASSWORD}"

[catalog]
url = "http://catalog:8080"
`), 0o644))

	cfg, err := Load(withPassword)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Engine.Timezone)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
