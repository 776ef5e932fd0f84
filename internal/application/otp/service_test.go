package otp_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/otp"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/memory"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, phone string, msg ports.TemplateMessage) (bool, error) {
	args := m.Called(ctx, phone, msg)
	return args.Bool(0), args.Error(1)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T) (*otp.Service, *mockSender, *clock) {
	t.Helper()
	sender := &mockSender{}
	sender.On("Send", mock.Anything, "01012345678", mock.MatchedBy(func(m ports.TemplateMessage) bool {
		return m.Template == ports.TemplateOTP && m.Vars["code"] == "123456"
	})).Return(true, nil)
	svc := otp.NewService(memory.NewStore().Repositories().OTPs, sender, "session-secret")
	c := &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.SetClock(c.now)
	svc.SetGenerator(func() (string, error) { return "123456", nil })
	return svc, sender, c
}

func sendReq() dto.OTPSendRequest {
	return dto.OTPSendRequest{Phone: "010-1234-5678", Purpose: "verify_phone"}
}

func verifyReq(code string) dto.OTPVerifyRequest {
	return dto.OTPVerifyRequest{Phone: "010-1234-5678", Purpose: "verify_phone", Code: code}
}

func TestOTP_EnviarYVerificar(t *testing.T) {
	svc, sender, c := newService(t)
	ctx := context.Background()

	res, err := svc.Send(ctx, sendReq())
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Equal(t, c.t.Add(otp.CodeTTL), res.ExpiresAt)
	sender.AssertExpectations(t)

	assert.ErrorIs(t, svc.Verify(ctx, verifyReq("000000")), domain.ErrOTPMismatch)
	require.NoError(t, svc.Verify(ctx, verifyReq("123456")))
	assert.ErrorIs(t, svc.Verify(ctx, verifyReq("123456")), domain.ErrOTPExpired, "un código verificado no se reutiliza")
}

func TestOTP_Expira(t *testing.T) {
	svc, _, c := newService(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, sendReq())
	require.NoError(t, err)

	c.t = c.t.Add(otp.CodeTTL)
	assert.ErrorIs(t, svc.Verify(ctx, verifyReq("123456")), domain.ErrOTPExpired)
}

func TestOTP_DemasiadosIntentos(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, sendReq())
	require.NoError(t, err)

	for i := 0; i < otp.MaxAttempts; i++ {
		assert.ErrorIs(t, svc.Verify(ctx, verifyReq("999999")), domain.ErrOTPMismatch)
	}
	assert.ErrorIs(t, svc.Verify(ctx, verifyReq("123456")), domain.ErrOTPTooManyAttempts)
}

func TestOTP_LimiteDiarioDeEnvios(t *testing.T) {
	svc, _, c := newService(t)
	ctx := context.Background()
	for i := 0; i < otp.MaxSends; i++ {
		_, err := svc.Send(ctx, sendReq())
		require.NoError(t, err)
		c.t = c.t.Add(time.Minute)
	}
	_, err := svc.Send(ctx, sendReq())
	assert.ErrorIs(t, err, domain.ErrOTPSendLimit)

	c.t = c.t.Add(otp.SendWindow)
	_, err = svc.Send(ctx, sendReq())
	assert.NoError(t, err)
}

func TestOTP_IntentosConcurrentesNoSuperanElMaximo(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Send(ctx, sendReq())
	require.NoError(t, err)

	const n = 30
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Verify(ctx, verifyReq("999999"))
		}(i)
	}
	wg.Wait()

	var mismatches, locked int
	for _, err := range errs {
		switch {
		case errors.Is(err, domain.ErrOTPMismatch):
			mismatches++
		case errors.Is(err, domain.ErrOTPTooManyAttempts):
			locked++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, otp.MaxAttempts, mismatches, "sólo MaxAttempts códigos llegan a compararse")
	assert.Equal(t, n-otp.MaxAttempts, locked)
	assert.ErrorIs(t, svc.Verify(ctx, verifyReq("123456")), domain.ErrOTPTooManyAttempts, "el código correcto ya no se acepta")
}

func TestOTPRepo_IncrementAttemptsRespetaElMaximo(t *testing.T) {
	repo := memory.NewStore().Repositories().OTPs
	ctx := context.Background()
	o := &entity.OTP{ID: "otp-1", Phone: "01012345678", Purpose: "verify_phone", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, o))

	for want := 1; want <= 2; want++ {
		got, err := repo.IncrementAttempts(ctx, o.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := repo.IncrementAttempts(ctx, o.ID, 2)
	assert.ErrorIs(t, err, domain.ErrOTPTooManyAttempts)
	_, err = repo.IncrementAttempts(ctx, "no-existe", 2)
	assert.ErrorIs(t, err, domain.ErrOTPTooManyAttempts)
}
