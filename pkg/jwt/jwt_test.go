package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "operador-1", "inventario-test", 5)
	require.NoError(t, err)

	userID, err := pkgjwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "operador-1", userID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "operador-1", "inventario-test", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "operador-1", "inventario-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u", "i", 5)
	assert.Error(t, err)
	_, err = pkgjwt.Parse("", "x")
	assert.Error(t, err)
}

func TestVerifier_Emisor(t *testing.T) {
	tok, err := pkgjwt.Generate("secreto", "operador-1", "inventario-test", 5)
	require.NoError(t, err)

	v, err := pkgjwt.NewVerifier("secreto", "inventario-test")
	require.NoError(t, err)
	claims, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "operador-1", claims.Operator())

	otro, err := pkgjwt.NewVerifier("secreto", "otro-emisor")
	require.NoError(t, err)
	_, err = otro.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerifier_SecretVacio(t *testing.T) {
	_, err := pkgjwt.NewVerifier("", "x")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestClaims_OperadorDesdeSubject(t *testing.T) {
	c := pkgjwt.Claims{}
	c.Subject = "sub-7"
	assert.Equal(t, "sub-7", c.Operator())
	c.UserID = "user-9"
	assert.Equal(t, "user-9", c.Operator())
}
