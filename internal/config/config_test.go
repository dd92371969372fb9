package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: memory
store:
  namespace: test
  timezone: Europe/Madrid
jwt:
  secret: from-file
  expiration: 30m
sync:
  interval: 1m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "test", cfg.Store.Namespace)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.S3.URLExpiry)

	loc, err := cfg.Store.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{Driver: DriverMongo},
		JWT:      JWTConfig{Secret: "s"},
		Sync:     SyncConfig{Enabled: true, Interval: time.Minute},
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Database.Driver = "sqlite"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.S3.Enabled = true
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Store.Timezone = "Mars/Olympus"
	assert.Error(t, bad.Validate())
}
