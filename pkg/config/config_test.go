package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-usuario/estoque-pro/pkg/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "estoque", cfg.DB.DBName)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db.interno")
	t.Setenv("DB_PORT", "6543")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "db.interno", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestConnectionStringPrefereDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app:secreta@db:5432/estoque?sslmode=require")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:secreta@db:5432/estoque?sslmode=require", cfg.DB.ConnectionString())
}

func TestDSNEscapaSenha(t *testing.T) {
	db := config.DBConfig{
		Host: "localhost", Port: 5432, User: "app",
		Password: "p@ss#w0rd", DBName: "estoque", SSLMode: "disable",
	}
	dsn := db.DSN()
	assert.Contains(t, dsn, "p%40ss%23w0rd", "caracteres especiais na senha devem ser escapados")
	assert.Contains(t, dsn, "sslmode=disable")
}
