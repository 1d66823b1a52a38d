package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_PORT", "DATABASE_URL", "JWT_SECRET", "JWT_ALGORITHM",
		"ACCESS_TOKEN_EXPIRE_MINUTES", "REFRESH_TOKEN_EXPIRE_DAYS",
		"KAFKA_BROKERS", "ES_URL", "ES_TASK_INDEX", "TOKEN_PURGE_INTERVAL", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExpire)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpire)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tasks", cfg.ESTaskIndex)
	assert.Equal(t, time.Hour, cfg.TokenPurgeInterval)
	assert.Nil(t, cfg.KafkaBrokers)

	require.Error(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "2")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("TOKEN_PURGE_INTERVAL", "15m")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, cfg.TokenPurgeInterval)

	tc := cfg.Tokens()
	assert.Equal(t, []byte("s3cret"), tc.Secret)
	assert.Equal(t, "HS512", tc.Algorithm)
	assert.Equal(t, 5*time.Minute, tc.AccessTTL)
	assert.Equal(t, 48*time.Hour, tc.RefreshTTL)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "-5m")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.Equal(t, time.Minute, EnvDurationDefault("X_DUR", time.Minute))
	assert.Equal(t, "def", EnvDefault("X_MISSING", "def"))
}
