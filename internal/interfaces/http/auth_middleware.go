package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// LocalOperatorID clave en c.Locals del operador autenticado.
const LocalOperatorID = "operator_id"

// AuthMiddleware valida el Bearer Token emitido por la aplicación que hospeda el motor
// y deja el ID del operador en c.Locals. Los movimientos lo registran como CreatedBy.
func AuthMiddleware(verifier *jwt.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, code, msg := bearerToken(c.Get(fiber.HeaderAuthorization))
		if code != "" {
			return unauthorized(c, code, msg)
		}
		claims, err := verifier.Verify(tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalOperatorID, claims.Operator())
		return c.Next()
	}
}

// bearerToken extrae el token del header; code no vacío indica el motivo del rechazo.
func bearerToken(header string) (token, code, msg string) {
	if header == "" {
		return "", "MISSING_TOKEN", "Authorization header requerido"
	}
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "INVALID_TOKEN", "formato: Bearer <token>"
	}
	token = strings.TrimSpace(rest)
	if token == "" {
		return "", "MISSING_TOKEN", "token vacío"
	}
	return token, "", ""
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetOperatorID devuelve el operador del contexto; vacío si la API corre sin autenticación.
func GetOperatorID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalOperatorID).(string)
	return s
}
