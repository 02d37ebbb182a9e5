package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:               "8080",
		Env:                "development",
		Driver:             "postgres",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		DBPassword:         "secure-password",
		DBSSLMode:          "require",
		TracingSampleRatio: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.Driver = "mongo" }, true},
		{"sqlite without path", func(c *Config) { c.Driver = "sqlite"; c.DBPath = "" }, true},
		{"sqlite with path", func(c *Config) { c.Driver = "sqlite"; c.DBPath = ":memory:" }, false},
		{"sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"production default secret", func(c *Config) { c.Env = "production"; c.JWTSecret = defaultJWTSecret }, true},
		{"production short secret", func(c *Config) { c.Env = "prod"; c.JWTSecret = "short" }, true},
		{"production weak password", func(c *Config) { c.Env = "production"; c.DBPassword = "password" }, true},
		{"production disabled ssl", func(c *Config) { c.Env = "production"; c.DBSSLMode = "disable" }, true},
		{"production sqlite", func(c *Config) { c.Env = "production"; c.Driver = "sqlite"; c.DBPath = "x.db" }, true},
		{"production valid", func(c *Config) { c.Env = "production" }, false},
		{"production database url", func(c *Config) {
			c.Env = "production"
			c.DBPassword = ""
			c.DatabaseURL = "postgresql://app:s3cret@db:5432/chirper?sslmode=require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("FEATURE_FLAGS", "comment_events=off")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "comment_events=off", cfg.FeatureFlags)
	assert.Equal(t, 60, cfg.JWTTTLMinutes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_TestProfileWithoutFile(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
}
