package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_Access(t *testing.T) {
	tok, err := jwt.Generate(secret, "bizledger", jwt.Payload{
		UserID: "u-1", BusinessID: "b-1", Role: "sales_viewer", Type: jwt.TokenAccess,
	}, time.Minute)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, tok, jwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "b-1", claims.BusinessID)
	assert.Equal(t, "sales_viewer", claims.Role)
	assert.Equal(t, "bizledger", claims.Issuer)
}

func TestParse_RefreshComoAccess_Falla(t *testing.T) {
	tok, err := jwt.Generate(secret, "bizledger", jwt.Payload{
		UserID: "u-1", Role: "admin", Type: jwt.TokenRefresh, SessionID: "s-1",
	}, time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok, jwt.TokenAccess)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)

	claims, err := jwt.Parse(secret, tok, jwt.TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.ID)
}

func TestParse_Expirado_Falla(t *testing.T) {
	tok, err := jwt.Generate(secret, "bizledger", jwt.Payload{UserID: "u-1", Role: "admin"}, -time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok, jwt.TokenAccess)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta_Falla(t *testing.T) {
	tok, err := jwt.Generate(secret, "bizledger", jwt.Payload{UserID: "u-1", Role: "admin"}, time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", tok, jwt.TokenAccess)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto_Falla(t *testing.T) {
	_, err := jwt.Generate("", "bizledger", jwt.Payload{UserID: "u-1"}, time.Minute)
	assert.Error(t, err)
}
