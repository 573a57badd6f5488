package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:             "development",
		Port:            "3800",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		JWTTTLHours:     720,
		DBDriver:        DriverPostgres,
		DBPassword:      "secure-password",
		DBSSLMode:       "require",
		UploadDir:       "./uploads",
		StorageBackend:  StorageLocal,
		UsersPageSize:   5,
		FollowsPageSize: 4,
		FeedPageSize:    4,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid", func(*Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Zero ttl", func(c *Config) { c.JWTTTLHours = 0 }, true},
		{"Zero feed page size", func(c *Config) { c.FeedPageSize = 0 }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"Sqlite driver", func(c *Config) { c.DBDriver = DriverSQLite }, false},
		{"Unknown storage", func(c *Config) { c.StorageBackend = "ftp" }, true},
		{"S3 without bucket", func(c *Config) { c.StorageBackend = StorageS3 }, true},
		{"S3 with bucket", func(c *Config) { c.StorageBackend = StorageS3; c.S3Bucket = "media" }, false},
		{"Short secret outside production", func(c *Config) { c.JWTSecret = "short" }, false},
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

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		secret      string
		password    string
		expectError bool
	}{
		{"Production with require SSL mode", "production", "require", "secure-secret-at-least-32-chars-long", "secure-password", false},
		{"Production with disable SSL mode", "production", "disable", "secure-secret-at-least-32-chars-long", "secure-password", true},
		{"Prod with empty SSL mode", "prod", "", "secure-secret-at-least-32-chars-long", "secure-password", true},
		{"Production with short secret", "production", "require", "short", "secure-password", true},
		{"Production with default password", "production", "require", "secure-secret-at-least-32-chars-long", "password", true},
		{"Development with disable SSL mode", "development", "disable", "dev", "password", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode
			c.JWTSecret = tt.secret
			c.DBPassword = tt.password

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
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "env-provided-secret-with-enough-length")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("FEED_PAGE_SIZE", "7")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-provided-secret-with-enough-length", c.JWTSecret)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 7, c.FeedPageSize)
	assert.Equal(t, 5, c.UsersPageSize)
	assert.Equal(t, 4, c.FollowsPageSize)
	assert.Equal(t, "3800", c.Port)
	assert.Equal(t, 720, c.JWTTTLHours)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
