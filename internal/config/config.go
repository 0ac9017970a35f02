// Package config loads the encscan configuration from a YAML file, with
// environment-variable overrides for secrets. CLI flags are layered on top
// by the cmd package.
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/dbseal/encscan/internal/errs"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Mail     MailConfig     `yaml:"mail"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

type DatabaseConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	QueryTimeout   time.Duration `yaml:"queryTimeout"`
	Workers        int           `yaml:"workers"`
}

type OutputConfig struct {
	// Path of the persisted JSON report. Empty means a generated
	// filename in the working directory.
	Path string `yaml:"path"`
}

type MailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

type StoreConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           3306,
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   30 * time.Second,
			Workers:        1,
		},
		Mail: MailConfig{Port: 587},
		Log:  LogConfig{Level: "info", Format: "console"},
		Server: ServerConfig{
			Addr: ":8490",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path returns defaults plus env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "cannot read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "cannot parse config file", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays secret values from the environment so they never need
// to live in the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("ENCSCAN_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("ENCSCAN_SMTP_PASSWORD"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("ENCSCAN_STORE_SECRET_KEY"); v != "" {
		c.Store.SecretKey = v
	}
}

// Validate checks that everything a scan needs is present.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errs.New(errs.ErrKindInvalidInput, "database.host is required")
	}
	if c.Database.User == "" {
		return errs.New(errs.ErrKindInvalidInput, "database.user is required")
	}
	if c.Database.Name == "" {
		return errs.New(errs.ErrKindInvalidInput, "database.name is required")
	}
	if c.Database.Workers < 1 {
		return errs.New(errs.ErrKindInvalidInput, "database.workers must be at least 1")
	}
	if c.Mail.Enabled {
		if c.Mail.Host == "" || c.Mail.From == "" || c.Mail.To == "" {
			return errs.New(errs.ErrKindInvalidInput, "mail.host, mail.from and mail.to are required when mail is enabled")
		}
	}
	if c.Store.Enabled {
		if c.Store.Endpoint == "" || c.Store.Bucket == "" {
			return errs.New(errs.ErrKindInvalidInput, "store.endpoint and store.bucket are required when store is enabled")
		}
	}
	return nil
}

// Redacted returns a copy safe for logging: secrets replaced.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Database.Password != "" {
		out.Database.Password = "[redacted]"
	}
	if out.Mail.Password != "" {
		out.Mail.Password = "[redacted]"
	}
	if out.Store.SecretKey != "" {
		out.Store.SecretKey = "[redacted]"
	}
	return &out
}

// String implements fmt.Stringer with secrets redacted.
func (c *Config) String() string {
	return fmt.Sprintf("database=%s@%s:%d/%s workers=%d mail=%v store=%v",
		c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name,
		c.Database.Workers, c.Mail.Enabled, c.Store.Enabled)
}
