package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUserService(t *testing.T) {
	t.Run("requires JWT_SECRET", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := LoadUserService()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("SERVER_PORT", "")
		t.Setenv("PORT", "")
		t.Setenv("JWT_TTL", "")
		t.Setenv("CORS_ORIGINS", "")
		t.Setenv("REACT_APP_URI", "")

		cfg, err := LoadUserService()
		require.NoError(t, err)
		assert.Equal(t, "user-service", cfg.ServiceName)
		assert.Equal(t, "3001", cfg.ServerPort)
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	})

	t.Run("rejects inconsistent pool sizes", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DB_MAX_CONNS", "2")
		t.Setenv("DB_MIN_CONNS", "5")

		_, err := LoadUserService()
		require.Error(t, err)
	})
}

func TestLoadEventService(t *testing.T) {
	t.Run("derives database from mongo uri", func(t *testing.T) {
		t.Setenv("MONGO_URI", "mongodb://mongo:27017/events_prod?retryWrites=true")
		t.Setenv("MONGO_DATABASE", "")
		t.Setenv("USER_SERVICE_URI", "http://users:3001/")

		cfg, err := LoadEventService()
		require.NoError(t, err)
		assert.Equal(t, "events_prod", cfg.MongoDatabase)
		assert.Equal(t, "http://users:3001", cfg.UserServiceURL)
		assert.Equal(t, "3002", cfg.ServerPort)
	})

	t.Run("rejects relative user service uri", func(t *testing.T) {
		t.Setenv("USER_SERVICE_URI", "users:3001")

		_, err := LoadEventService()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "USER_SERVICE_URI")
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		t.Setenv("USER_SERVICE_URI", "")
		t.Setenv("LOG_FORMAT", "xml")

		_, err := LoadEventService()
		require.Error(t, err)
	})
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "fallback", databaseFromURI("mongodb://localhost:27017", "fallback"))
	assert.Equal(t, "db", databaseFromURI("mongodb://localhost:27017/db", "fallback"))
}

func TestLoadDev(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("USER_SERVICE_PORT", "4001")
	t.Setenv("EVENT_SERVICE_PORT", "4002")
	t.Setenv("LOG_FORMAT", "")

	users, events, err := LoadDev()
	require.NoError(t, err)
	assert.Empty(t, users.JWTSecret)
	assert.Equal(t, "4001", users.ServerPort)
	assert.Equal(t, "4002", events.ServerPort)
	assert.Equal(t, "http://localhost:4001", events.UserServiceURL)
}

func TestLoadMigrate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/users")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017/events")
	t.Setenv("MONGO_DATABASE", "")

	cfg, err := LoadMigrate()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/users", cfg.DatabaseURL)
	assert.Equal(t, "events", cfg.MongoDatabase)
}
