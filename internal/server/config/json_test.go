package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseJson_OverlaysValues(t *testing.T) {
	path := writeConfigFile(t, `{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://json",
		"access_token_secret": "json-access",
		"refresh_token_secret": "json-refresh",
		"access_token_validity_duration": "20m",
		"refresh_token_validity_duration": "72h",
		"password_hash_cost": 14,
		"cors_allowed_origins": "https://x.example,https://y.example"
	}`)

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, c.EndpointAddr, ":7070")
	assert.Equal(t, c.DatabaseDSN, "postgres://json")
	assert.Equal(t, c.AccessTokenSecret, "json-access")
	assert.Equal(t, c.RefreshTokenSecret, "json-refresh")
	assert.Equal(t, c.AccessTokenValidityDuration, 20*time.Minute)
	assert.Equal(t, c.RefreshTokenValidityDuration, 72*time.Hour)
	assert.Equal(t, c.PasswordHashCost, 14)
	assert.Equal(t, c.CORSAllowedOrigins, []string{"https://x.example", "https://y.example"})
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"endpoint_addr": ":7071"}`)

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, c.EndpointAddr, ":7071")
	assert.Equal(t, c.AccessTokenValidityDuration, 15*time.Minute)
	assert.Equal(t, c.AccessTokenSecret, "access-secret-key")
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, c.EndpointAddr, ":8080")
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := writeConfigFile(t, `{not json`)

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-c", path}

	var c Config
	c.LoadDefaults()
	require.Panics(t, func() { parseJson(&c) })
}
