package sms

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
)

var _ ports.MessageSender = LogSender{}

// LogSender escribe el mensaje en el log en lugar de enviarlo (desarrollo, pasarela sin configurar).
type LogSender struct{}

func (LogSender) Send(_ context.Context, phone string, msg ports.TemplateMessage) (bool, error) {
	log.Info().
		Str("phone", mask(phone)).
		Str("template", msg.Template).
		Str("text", msg.Text).
		Msg("sms: envío simulado")
	return true, nil
}

// mask deja visibles los últimos 4 dígitos.
func mask(phone string) string {
	d := digits(phone)
	if len(d) <= 4 {
		return d
	}
	return "***" + d[len(d)-4:]
}
