package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
)

// Errores propios de la capa HTTP; se traducen con la misma tabla que los de dominio.
var (
	ErrInvalidBody   = errors.New("cuerpo de la petición inválido")
	ErrMissingToken  = errors.New("token ausente")
	ErrInvalidToken  = errors.New("token inválido o expirado")
	ErrRateLimited   = errors.New("demasiadas peticiones")
	ErrCSRF          = errors.New("token CSRF inválido")
	ErrFileTooLarge  = errors.New("archivo demasiado grande")
	ErrFileRequired  = errors.New("archivo requerido")
	ErrRouteNotFound = errors.New("ruta no encontrada")
)

// APIError código estable, status HTTP y mensaje para el usuario.
type APIError struct {
	Status  int
	Code    string
	Message string
}

type errorEntry struct {
	err error
	api APIError
}

// errorTable se recorre en orden; el primer errors.Is que coincide gana.
var errorTable = []errorEntry{
	{ErrInvalidBody, APIError{fiber.StatusBadRequest, "ERR_VAL_002", "요청 형식이 올바르지 않습니다."}},
	{domain.ErrInvalidInput, APIError{fiber.StatusBadRequest, "ERR_VAL_001", "입력값을 확인해주세요."}},

	{ErrMissingToken, APIError{fiber.StatusUnauthorized, "ERR_AUTH_001", "로그인이 필요합니다."}},
	{domain.ErrUnauthorized, APIError{fiber.StatusUnauthorized, "ERR_AUTH_001", "로그인이 필요합니다."}},
	{domain.ErrInvalidCredentials, APIError{fiber.StatusUnauthorized, "ERR_AUTH_002", "이메일 또는 비밀번호가 올바르지 않습니다."}},
	{ErrInvalidToken, APIError{fiber.StatusUnauthorized, "ERR_AUTH_003", "인증이 만료되었거나 유효하지 않습니다. 다시 로그인해주세요."}},
	{domain.ErrInactiveUser, APIError{fiber.StatusForbidden, "ERR_AUTH_004", "비활성화된 계정입니다. 관리자에게 문의해주세요."}},
	{domain.ErrForbidden, APIError{fiber.StatusForbidden, "ERR_AUTH_005", "접근 권한이 없습니다."}},
	{ErrCSRF, APIError{fiber.StatusForbidden, "ERR_AUTH_006", "보안 토큰이 유효하지 않습니다. 페이지를 새로고침해주세요."}},

	{domain.ErrBusinessNotFound, APIError{fiber.StatusNotFound, "ERR_BIZ_001", "사업장을 찾을 수 없습니다."}},
	{domain.ErrBusinessNumberUsed, APIError{fiber.StatusConflict, "ERR_BIZ_002", "이미 등록된 사업자등록번호입니다."}},
	{domain.ErrEmailAlreadyExists, APIError{fiber.StatusConflict, "ERR_USER_001", "이미 가입된 이메일입니다."}},
	{domain.ErrUserNotFound, APIError{fiber.StatusNotFound, "ERR_USER_002", "사용자를 찾을 수 없습니다."}},

	{domain.ErrNotFound, APIError{fiber.StatusNotFound, "ERR_DB_001", "요청한 데이터를 찾을 수 없습니다."}},
	{domain.ErrDuplicate, APIError{fiber.StatusConflict, "ERR_DB_002", "이미 존재하는 데이터입니다."}},
	{domain.ErrCodeAlreadyExists, APIError{fiber.StatusConflict, "ERR_DB_003", "이미 사용 중인 코드입니다."}},
	{domain.ErrConflict, APIError{fiber.StatusConflict, "ERR_DB_004", "현재 상태에서는 처리할 수 없는 요청입니다."}},

	{domain.ErrInvalidSignature, APIError{fiber.StatusBadRequest, "ERR_SALE_001", "서명은 JPEG 이미지여야 합니다."}},
	{domain.ErrAlreadySigned, APIError{fiber.StatusConflict, "ERR_SALE_002", "이미 서명된 거래입니다."}},

	{domain.ErrOTPMismatch, APIError{fiber.StatusBadRequest, "ERR_OTP_001", "인증번호가 일치하지 않습니다."}},
	{domain.ErrOTPExpired, APIError{fiber.StatusBadRequest, "ERR_OTP_002", "인증번호가 만료되었습니다. 다시 요청해주세요."}},
	{domain.ErrOTPTooManyAttempts, APIError{fiber.StatusTooManyRequests, "ERR_OTP_003", "인증 시도 횟수를 초과했습니다. 인증번호를 다시 요청해주세요."}},
	{domain.ErrOTPSendLimit, APIError{fiber.StatusTooManyRequests, "ERR_OTP_004", "오늘 인증번호 발송 한도를 초과했습니다."}},

	{domain.ErrUnsupportedFile, APIError{fiber.StatusBadRequest, "ERR_FILE_001", "지원하지 않는 파일 형식입니다."}},
	{ErrFileRequired, APIError{fiber.StatusBadRequest, "ERR_FILE_002", "파일을 첨부해주세요."}},
	{ErrFileTooLarge, APIError{fiber.StatusRequestEntityTooLarge, "ERR_FILE_003", "파일 크기가 너무 큽니다."}},

	{ErrRateLimited, APIError{fiber.StatusTooManyRequests, "ERR_RATE_001", "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."}},
	{ErrRouteNotFound, APIError{fiber.StatusNotFound, "ERR_ROUTE_001", "요청한 경로를 찾을 수 없습니다."}},
}

var errInternal = APIError{fiber.StatusInternalServerError, "ERR_SERVER_001", "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."}

// Lookup devuelve la entrada de la tabla para err; ok=false si no hay ninguna.
func Lookup(err error) (APIError, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.api, true
		}
	}
	return APIError{}, false
}

// NewErrorHandler ErrorHandler de Fiber: todos los handlers devuelven el error y se traduce aquí.
// Con dev=true las respuestas 500 incluyen el detalle del error.
func NewErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := errorBody(c, err, dev)
		return c.Status(body.status).JSON(body.resp)
	}
}

type renderedError struct {
	status int
	resp   dto.ErrorResponse
}

func errorBody(c *fiber.Ctx, err error, dev bool) renderedError {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		api, _ := Lookup(domain.ErrInvalidInput)
		return renderedError{api.Status, dto.ErrorResponse{Code: api.Code, Message: api.Message, Errors: verr.Fields}}
	}
	if api, ok := Lookup(err); ok {
		return renderedError{api.Status, dto.ErrorResponse{Code: api.Code, Message: api.Message}}
	}

	// Errores del propio Fiber (404 de ruta, 405, 413 por BodyLimit...).
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		switch ferr.Code {
		case fiber.StatusNotFound:
			api, _ := Lookup(ErrRouteNotFound)
			return renderedError{api.Status, dto.ErrorResponse{Code: api.Code, Message: api.Message}}
		case fiber.StatusRequestEntityTooLarge:
			api, _ := Lookup(ErrFileTooLarge)
			return renderedError{api.Status, dto.ErrorResponse{Code: api.Code, Message: api.Message}}
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			api, _ := Lookup(ErrInvalidBody)
			return renderedError{api.Status, dto.ErrorResponse{Code: api.Code, Message: api.Message}}
		case fiber.StatusMethodNotAllowed:
			return renderedError{ferr.Code, dto.ErrorResponse{Code: "ERR_ROUTE_002", Message: "허용되지 않는 요청 방식입니다."}}
		}
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("error interno")
	resp := dto.ErrorResponse{Code: errInternal.Code, Message: errInternal.Message}
	if dev {
		resp.Detail = err.Error()
	}
	return renderedError{errInternal.Status, resp}
}
