package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizledger-api/internal/application/auth"
	"github.com/jhoicas/bizledger-api/internal/application/dto"
)

// AuthHandler maneja registro, login, rotación de tokens y el perfil propio.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	v            *Validator
	cookieSecure bool
	maxUpload    int64
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, v *Validator, cookieSecure bool, maxUpload int64) *AuthHandler {
	return &AuthHandler{uc: uc, v: v, cookieSecure: cookieSecure, maxUpload: maxUpload}
}

func (h *AuthHandler) setCookies(c *fiber.Ctx, t dto.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieAccess,
		Value:    t.AccessToken,
		Path:     "/",
		Expires:  t.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     CookieRefresh,
		Value:    t.RefreshToken,
		Path:     "/api/auth",
		Expires:  t.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookies expira las cookies de sesión (logout y baja de cuenta).
func ClearSessionCookies(c *fiber.Ctx, secure bool) {
	past := time.Unix(0, 0)
	c.Cookie(&fiber.Cookie{Name: CookieAccess, Value: "", Path: "/", Expires: past, HTTPOnly: true, Secure: secure, SameSite: fiber.CookieSameSiteLaxMode})
	c.Cookie(&fiber.Cookie{Name: CookieRefresh, Value: "", Path: "/api/auth", Expires: past, HTTPOnly: true, Secure: secure, SameSite: fiber.CookieSameSiteStrictMode})
}

// Signup godoc
// @Summary      Registrar admin y primer negocio
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "usuario y negocio"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Signup(c.UserContext(), in, c.IP())
	if err != nil {
		return err
	}
	h.setCookies(c, out.Tokens)
	return created(c, out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.Response
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in, c.IP())
	if err != nil {
		return err
	}
	h.setCookies(c, out.Tokens)
	return ok(c, out)
}

func refreshToken(c *fiber.Ctx) string {
	if v := c.Cookies(CookieRefresh); v != "" {
		return v
	}
	var in dto.RefreshRequest
	_ = c.BodyParser(&in)
	return in.RefreshToken
}

// Refresh POST /api/auth/refresh rota ambos tokens.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshToken(c)
	if token == "" {
		return ErrMissingToken
	}
	out, err := h.uc.Refresh(c.UserContext(), token)
	if err != nil {
		ClearSessionCookies(c, h.cookieSecure)
		return err
	}
	h.setCookies(c, out.Tokens)
	return ok(c, out)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), refreshToken(c)); err != nil {
		return err
	}
	ClearSessionCookies(c, h.cookieSecure)
	return message(c, "로그아웃되었습니다.")
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// UpdateMe PUT /api/auth/me
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// ChangePassword PUT /api/auth/me/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := bindBody(c, h.v, &in); err != nil {
		return err
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return err
	}
	return message(c, "비밀번호가 변경되었습니다.")
}

// UploadAvatar POST /api/auth/me/avatar (multipart "avatar", JPEG o PNG).
func (h *AuthHandler) UploadAvatar(c *fiber.Ctx) error {
	data, err := readUpload(c, "avatar", h.maxUpload)
	if err != nil {
		return err
	}
	out, err := h.uc.UploadAvatar(c.UserContext(), GetUserID(c), data)
	if err != nil {
		return err
	}
	return ok(c, out)
}
