package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/pkg/logger"
)

func TestSecurity_IncluyeEventType(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Security(logger.EventAuthFailure).Str("email", "a@b.kr").Msg("login fallido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "auth_failure", entry["event_type"])
	assert.Equal(t, "security", entry["category"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "login fallido", entry["message"])
}

func TestNew_NivelFiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no debe aparecer")
	assert.Empty(t, buf.String())

	log.Error().Msg("sí aparece")
	assert.Contains(t, buf.String(), "sí aparece")
}
