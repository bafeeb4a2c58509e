package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catena")
	t.Setenv("BUCKET_NAME", "brand-treasury")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "http://localhost:9000", cfg.Storage.PublicBaseURL)
	assert.False(t, cfg.Auth.GeneratedSecret)
}

func TestLoad_GeneratesDevelopmentSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catena")
	t.Setenv("BUCKET_NAME", "brand-treasury")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Auth.JWTSecret, 32)
	assert.True(t, cfg.Auth.GeneratedSecret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catena")
	t.Setenv("BUCKET_NAME", "brand-treasury")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BUCKET_NAME", "brand-treasury")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"},
		splitList(" http://localhost:5173, ,https://app.example.com "))
	assert.Nil(t, splitList(""))
}
