package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "mongodb", cfg.Store.Driver)
	assert.Equal(t, "gamework", cfg.MongoDB.Database)
	assert.Equal(t, 86400, cfg.JWT.ExpiresIn)
}

func TestLoad_EnvironmentOverridesNestedKeys(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "9999", cfg.Server.Port)
}
