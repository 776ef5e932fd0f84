package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/pkg/config"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef-access")
	t.Setenv("JWT_REFRESH_SECRET", "0123456789abcdef0123456789abcdef-refresh")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://erp.example.com, https://admin.example.com")
}

func TestLoad_ConfiguracionValida(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AI_PROVIDER", "OpenAI")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://erp.example.com", "https://admin.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, config.AIProviderOpenAI, cfg.AI.Provider)
	assert.True(t, cfg.HTTP.CookieSecure, "en producción la cookie debe ser Secure por defecto")
	assert.False(t, cfg.App.IsDevelopment())
}

func TestLoad_SinSecretoJWT_Falla(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_SecretoCorto_EnProduccion_Falla(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "corto")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_SecretosIguales_Falla(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_REFRESH_SECRET", "0123456789abcdef0123456789abcdef-access")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distintos")
}

func TestLoad_ProveedorIAInvalido_Falla(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "watson")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoad_PuertoNoNumerico_Falla(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_PORT", "abc")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoad_OrigenCORSInvalido_Falla(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "erp.example.com")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss/word", DBName: "biz", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss%2Fword@db:5432/biz?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
