package config

import (
	"os"
	"path/filepath"
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = `
[jwt]
secret = "s3cret"

[media]
bucket = "docs"
access_key_id = "id"
secret_access_key = "key"
public_url = "https://cdn.example.com"
`

func write(t *testing.T, body string) string {
	t.Helper()
	v.Reset()
	t.Cleanup(v.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))

	return dir
}

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, Load(write(t, base)))

	assert.Equal(t, "info", v.GetString("app.log_level"))
	assert.Equal(t, 8080, v.GetInt("host.port"))
	assert.Equal(t, "http://localhost", v.GetString("host.origin"))
	assert.Equal(t, "sqlite", v.GetString("db.driver"))
	assert.EqualValues(t, 10<<20, v.GetInt64("upload.max_size"))
	assert.Equal(t, "secure-documents", v.GetString("media.base_folder"))
}

func TestLoadOrigin(t *testing.T) {
	require.NoError(t, Load(write(t, base+`
[host]
origin = "https://docs.example.com/"
`)))

	assert.Equal(t, "https://docs.example.com", v.GetString("host.origin"))
}

func TestLoadErrors(t *testing.T) {
	v.Reset()
	t.Cleanup(v.Reset)
	assert.EqualError(t, Load(t.TempDir()), "config.toml file is missing")

	assert.ErrorIs(t, Load(write(t, `
[media]
bucket = "docs"
`)), ErrNoJWTSecret)

	assert.EqualError(t, Load(write(t, base+`
[app]
log_level = "loud"
`)), "invalid log level provided")

	assert.EqualError(t, Load(write(t, base+`
[db]
driver = "mysql"
`)), "invalid database driver provided")

	assert.EqualError(t, Load(write(t, base+`
[host.ssl]
enabled = true
`)), "no ssl certificate path provided")

	assert.EqualError(t, Load(write(t, base+`
[cloudflare.turnstile]
enabled = true
`)), "turnstile secret token is missing")
}

func TestGenSecret(t *testing.T) {
	assert.Len(t, GenSecret(), 128)
}
