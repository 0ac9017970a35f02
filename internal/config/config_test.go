package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbseal/encscan/internal/errs"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeTemp(t, `
database:
  host: db.internal
  port: 3307
  user: auditor
  name: payments
  workers: 4
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, 4, cfg.Database.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched defaults survive.
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 1, cfg.Database.Workers)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("ENCSCAN_DB_PASSWORD", "from-env")
	t.Setenv("ENCSCAN_SMTP_PASSWORD", "mail-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "mail-env", cfg.Mail.Password)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeTemp(t, "database: [not a map")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Database.User = "auditor"
	valid.Database.Name = "payments"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "missing user", mutate: func(c *Config) { c.Database.User = "" }, wantErr: true},
		{name: "missing database name", mutate: func(c *Config) { c.Database.Name = "" }, wantErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Database.Workers = 0 }, wantErr: true},
		{name: "mail enabled without recipient", mutate: func(c *Config) {
			c.Mail.Enabled = true
			c.Mail.Host = "smtp.internal"
			c.Mail.From = "audit@corp.example"
		}, wantErr: true},
		{name: "mail enabled fully configured", mutate: func(c *Config) {
			c.Mail.Enabled = true
			c.Mail.Host = "smtp.internal"
			c.Mail.From = "audit@corp.example"
			c.Mail.To = "dba@corp.example"
		}, wantErr: false},
		{name: "store enabled without bucket", mutate: func(c *Config) {
			c.Store.Enabled = true
			c.Store.Endpoint = "minio:9000"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Database.Password = "hunter2"
	cfg.Mail.Password = "app-password"

	red := cfg.Redacted()
	assert.Equal(t, "[redacted]", red.Database.Password)
	assert.Equal(t, "[redacted]", red.Mail.Password)
	// Original untouched.
	assert.Equal(t, "hunter2", cfg.Database.Password)
}
