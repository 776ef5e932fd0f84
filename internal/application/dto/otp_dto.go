package dto

import "time"

// OTPSendRequest solicitud de envío de código.
type OTPSendRequest struct {
	Phone   string `json:"phone" validate:"required,phone_kr"`
	Purpose string `json:"purpose" validate:"required,oneof=signup login reset_password verify_phone"`
}

// OTPSendResponse vencimiento del código enviado.
type OTPSendResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Delivered bool      `json:"delivered"`
}

// OTPVerifyRequest verificación de código.
type OTPVerifyRequest struct {
	Phone   string `json:"phone" validate:"required,phone_kr"`
	Purpose string `json:"purpose" validate:"required,oneof=signup login reset_password verify_phone"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
}
