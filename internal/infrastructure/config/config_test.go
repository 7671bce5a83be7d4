package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"FACTORING_APP_NAME":                os.Getenv("FACTORING_APP_NAME"),
		"FACTORING_APP_ENV":                 os.Getenv("FACTORING_APP_ENV"),
		"FACTORING_APP_PORT":                os.Getenv("FACTORING_APP_PORT"),
		"FACTORING_DATABASE_HOST":           os.Getenv("FACTORING_DATABASE_HOST"),
		"FACTORING_DATABASE_PORT":           os.Getenv("FACTORING_DATABASE_PORT"),
		"FACTORING_DATABASE_USER":           os.Getenv("FACTORING_DATABASE_USER"),
		"FACTORING_DATABASE_PASSWORD":       os.Getenv("FACTORING_DATABASE_PASSWORD"),
		"FACTORING_DATABASE_DBNAME":         os.Getenv("FACTORING_DATABASE_DBNAME"),
		"FACTORING_DATABASE_SSLMODE":        os.Getenv("FACTORING_DATABASE_SSLMODE"),
		"FACTORING_DATABASE_MAX_OPEN_CONNS": os.Getenv("FACTORING_DATABASE_MAX_OPEN_CONNS"),
		"FACTORING_DATABASE_MAX_IDLE_CONNS": os.Getenv("FACTORING_DATABASE_MAX_IDLE_CONNS"),
		"FACTORING_JWT_SECRET":              os.Getenv("FACTORING_JWT_SECRET"),
		"FACTORING_REGISTRY_ADMIN_ID":       os.Getenv("FACTORING_REGISTRY_ADMIN_ID"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "factoring-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "factoring", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "https://assets.example.com/meta/", cfg.Registry.BaseURI)
	})

	t.Run("loads values from environment variables with FACTORING prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("FACTORING_APP_NAME", "test-app")
		os.Setenv("FACTORING_APP_ENV", "testing")
		os.Setenv("FACTORING_APP_PORT", "9000")
		os.Setenv("FACTORING_DATABASE_HOST", "testdb.local")
		os.Setenv("FACTORING_DATABASE_PORT", "5433")
		os.Setenv("FACTORING_DATABASE_USER", "testuser")
		os.Setenv("FACTORING_DATABASE_PASSWORD", "testpass")
		os.Setenv("FACTORING_DATABASE_DBNAME", "testdb")
		os.Setenv("FACTORING_DATABASE_SSLMODE", "require")
		os.Setenv("FACTORING_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("FACTORING_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("FACTORING_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("FACTORING_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("FACTORING_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("FACTORING_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects malformed admin identity", func(t *testing.T) {
		clearEnv()
		os.Setenv("FACTORING_REGISTRY_ADMIN_ID", "not-a-uuid")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry.admin_id must be a valid UUID")
	})

	t.Run("accepts a valid admin identity", func(t *testing.T) {
		clearEnv()
		os.Setenv("FACTORING_REGISTRY_ADMIN_ID", "11111111-1111-1111-1111-111111111111")

		cfg, err := Load()
		require.NoError(t, err)

		id, err := cfg.Registry.AdminUUID()
		require.NoError(t, err)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", id.String())
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"FACTORING_APP_ENV":                       os.Getenv("FACTORING_APP_ENV"),
		"FACTORING_JWT_SECRET":                    os.Getenv("FACTORING_JWT_SECRET"),
		"FACTORING_DATABASE_PASSWORD":             os.Getenv("FACTORING_DATABASE_PASSWORD"),
		"FACTORING_DATABASE_SSLMODE":              os.Getenv("FACTORING_DATABASE_SSLMODE"),
		"FACTORING_REGISTRY_ADMIN_ID":             os.Getenv("FACTORING_REGISTRY_ADMIN_ID"),
		"FACTORING_REGISTRY_EXCHANGE_OPERATOR_ID": os.Getenv("FACTORING_REGISTRY_EXCHANGE_OPERATOR_ID"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("FACTORING_APP_ENV", "production")
		os.Setenv("FACTORING_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("FACTORING_DATABASE_PASSWORD", "secure-password")
		os.Setenv("FACTORING_DATABASE_SSLMODE", "require")
		os.Setenv("FACTORING_REGISTRY_ADMIN_ID", "11111111-1111-1111-1111-111111111111")
		os.Setenv("FACTORING_REGISTRY_EXCHANGE_OPERATOR_ID", "22222222-2222-2222-2222-222222222222")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("FACTORING_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("FACTORING_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("FACTORING_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("FACTORING_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires registry identities in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("FACTORING_REGISTRY_ADMIN_ID")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry.admin_id is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
