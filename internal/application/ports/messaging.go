package ports

import "context"

// Plantillas Alimtalk registradas.
const (
	TemplateOTP        = "OTP_CODE"
	TemplateWelcome    = "WELCOME"
	TemplateSignedSale = "SALE_SIGNED"
)

// TemplateMessage plantilla y variables a enviar.
type TemplateMessage struct {
	Template string
	Vars     map[string]string
	// Text versión en texto plano (SMS de respaldo).
	Text string
}

// MessageSender pasarela SMS/Alimtalk: teléfono + plantilla, devuelve si se entregó.
type MessageSender interface {
	Send(ctx context.Context, phone string, msg TemplateMessage) (bool, error)
}
