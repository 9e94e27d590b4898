package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, conf.API.Environment)
	assert.Equal(t, "8000", conf.API.Port)
	assert.Equal(t, DriverSQLite, conf.Database.Driver)
	assert.Equal(t, "access_token", conf.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, conf.Auth.SessionTTL)
	assert.Equal(t, 4, conf.Camp.MaxReservationHours)
	assert.Equal(t, "Europe/Rome", conf.Camp.Location().String())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  environment: test
  port: 9000
camp:
  timezone: UTC
  max_reservation_hours: 6
`)
	t.Setenv("API_PORT", "9100")
	t.Setenv("AUTH_SIGNING_KEY", "from-env")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvTest, conf.API.Environment)
	assert.Equal(t, "9100", conf.API.Port)
	assert.Equal(t, "from-env", conf.Auth.SigningKey)
	assert.Equal(t, 6, conf.Camp.MaxReservationHours)
	assert.Equal(t, time.UTC, conf.Camp.Location())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "insecure key in production",
			body: "api:\n  environment: production\n",
			want: ErrInsecureSigningKey,
		},
		{name: "unknown environment", body: "api:\n  environment: staging\n"},
		{name: "unknown driver", body: "database:\n  driver: mysql\n"},
		{name: "bad time zone", body: "camp:\n  timezone: Mars/Olympus\n"},
		{name: "short csrf key", body: "api:\n  csrf_key: short\n"},
		{name: "zero reservation hours", body: "camp:\n  max_reservation_hours: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	var level atomic.Value
	require.NoError(t, Watch(path, func(conf *AppConfig) {
		level.Store(conf.Log.Level)
	}, func(err error) {
		t.Log(err)
	}))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "warn"
	}, 5*time.Second, 50*time.Millisecond)
}
