// Package sms entrega mensajes Alimtalk (KakaoTalk) con SMS de respaldo.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/pkg/config"
)

var _ ports.MessageSender = (*AlimtalkSender)(nil)

// ErrNotConfigured la pasarela no tiene URL o credenciales.
var ErrNotConfigured = errors.New("pasarela alimtalk no configurada")

// AlimtalkSender envía plantillas a la pasarela HTTP del proveedor.
type AlimtalkSender struct {
	cfg        config.SMSConfig
	httpClient *http.Client
}

// NewAlimtalkSender construye el cliente con un timeout corto: el envío es best effort.
func NewAlimtalkSender(cfg config.SMSConfig) *AlimtalkSender {
	return &AlimtalkSender{cfg: cfg, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type alimtalkRequest struct {
	SenderKey    string            `json:"senderKey"`
	TemplateCode string            `json:"templateCode"`
	Receiver     string            `json:"receiver"`
	Variables    map[string]string `json:"variables,omitempty"`
	Fallback     *fallbackSMS      `json:"fallback,omitempty"`
}

type fallbackSMS struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
}

type alimtalkResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send devuelve true si la pasarela aceptó el mensaje (code "0000").
func (s *AlimtalkSender) Send(ctx context.Context, phone string, msg ports.TemplateMessage) (bool, error) {
	if s.cfg.APIURL == "" || s.cfg.APIKey == "" {
		return false, ErrNotConfigured
	}
	body := alimtalkRequest{
		SenderKey:    s.cfg.SenderKey,
		TemplateCode: msg.Template,
		Receiver:     digits(phone),
		Variables:    msg.Vars,
	}
	if msg.Text != "" && s.cfg.SenderPhone != "" {
		body.Fallback = &fallbackSMS{Type: "SMS", From: digits(s.cfg.SenderPhone), Text: msg.Text}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("alimtalk: serializar: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(raw))
	if err != nil {
		return false, fmt.Errorf("alimtalk: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("alimtalk: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("alimtalk: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out alimtalkResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, fmt.Errorf("alimtalk: respuesta inválida: %w", err)
	}
	if out.Code != "0000" {
		log.Warn().Str("code", out.Code).Str("template", msg.Template).Msg("alimtalk: mensaje rechazado")
		return false, nil
	}
	return true, nil
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
