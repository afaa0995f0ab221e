package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("jwt: secret vacío")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// leeway tolerancia de reloj entre el emisor y este servicio.
const leeway = 30 * time.Second

// Claims claims estándar JWT más el operador que firma las operaciones.
// Los tokens los emite el servicio de autenticación externo; aquí solo se validan.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Operator el operador del token: user_id si viene, si no el subject.
func (c Claims) Operator() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Generate genera un token HS256 para userID. Lo usan las pruebas y herramientas internas.
func Generate(secret, userID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verifier valida tokens HMAC con un secreto compartido y, opcionalmente, un emisor fijo.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier crea el verificador. issuer vacío acepta cualquier emisor.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}, nil
}

// Verify valida firma, expiración y emisor; devuelve los claims del token.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Operator() == "" {
		return nil, fmt.Errorf("%w: sin operador", ErrInvalidToken)
	}
	return claims, nil
}

// Parse valida el token y devuelve el ID del operador, sin verificar emisor.
func Parse(secret, tokenString string) (string, error) {
	v, err := NewVerifier(secret, "")
	if err != nil {
		return "", err
	}
	claims, err := v.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Operator(), nil
}
