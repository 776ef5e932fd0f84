package sms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/sms"
	"github.com/jhoicas/bizledger-api/pkg/config"
)

func TestAlimtalkSender_EnviaPlantillaConRespaldo(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"code":"0000","message":"ok"}`))
	}))
	defer srv.Close()

	s := sms.NewAlimtalkSender(config.SMSConfig{APIURL: srv.URL, APIKey: "key-1", SenderKey: "sk", SenderPhone: "02-123-4567"})
	ok, err := s.Send(context.Background(), "010-1234-5678", ports.TemplateMessage{
		Template: ports.TemplateOTP, Vars: map[string]string{"code": "123456"}, Text: "인증번호 123456",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "01012345678", got["receiver"])
	assert.Equal(t, ports.TemplateOTP, got["templateCode"])
	fallback, _ := got["fallback"].(map[string]any)
	assert.Equal(t, "021234567", fallback["from"])
}

func TestAlimtalkSender_Rechazado_DevuelveFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"3018","message":"template not found"}`))
	}))
	defer srv.Close()

	ok, err := sms.NewAlimtalkSender(config.SMSConfig{APIURL: srv.URL, APIKey: "k"}).
		Send(context.Background(), "01000000000", ports.TemplateMessage{Template: "X"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAlimtalkSender_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := sms.NewAlimtalkSender(config.SMSConfig{APIURL: srv.URL, APIKey: "k"}).
		Send(context.Background(), "01000000000", ports.TemplateMessage{Template: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestAlimtalkSender_SinConfiguracion(t *testing.T) {
	_, err := sms.NewAlimtalkSender(config.SMSConfig{}).Send(context.Background(), "010", ports.TemplateMessage{})
	assert.ErrorIs(t, err, sms.ErrNotConfigured)
}
