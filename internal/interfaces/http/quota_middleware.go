package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
)

// quotaChecker es el contrato mínimo que necesita el middleware para verificar el plan.
// Lo implementa *account.ProfileUseCase.
type quotaChecker interface {
	CanCreateInvoice(ctx context.Context, userID string) (bool, string, error)
}

// RequireInvoiceQuota corta la creación de facturas cuando el plan gratuito ya no lo permite.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 402 Payment Required → límite de facturas alcanzado o prueba vencida.
//   - 404 / 500 → según respondError (perfil inexistente o fallo de persistencia).
//
// El caso de uso vuelve a verificar dentro de la transacción.
func RequireInvoiceQuota(checker quotaChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		ok, reason, err := checker.CanCreateInvoice(c.Context(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    "QUOTA_EXCEEDED",
				Message: "límite del plan gratuito alcanzado: " + reason,
			})
		}

		return c.Next()
	}
}
