package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/webhook"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings orden de evaluación con errors.Is; el primero que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrReturnCommentRequired, fiber.StatusBadRequest, "VALIDATION", "el comentario de devolución es obligatorio"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrOrganizerCodeNotFound, fiber.StatusNotFound, "ORGANIZER_CODE_NOT_FOUND", "código de organizador inexistente"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "registro duplicado"},
	{domain.ErrInvoiceLocked, fiber.StatusConflict, "INVOICE_LOCKED", "la factura está en revisión del organizador"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", ""},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrQuotaExceeded, fiber.StatusPaymentRequired, "QUOTA_EXCEEDED", "límite del plan gratuito alcanzado"},
	{domain.ErrTooManyAttempts, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "demasiados intentos, pruebe más tarde"},
	{webhook.ErrInvalidSignature, fiber.StatusBadRequest, "INVALID_SIGNATURE", "firma del webhook inválida"},
	{webhook.ErrInvalidPayload, fiber.StatusBadRequest, "INVALID_PAYLOAD", "evento inválido"},
}

// respondError traduce errores de dominio a dto.ErrorResponse.
// Mensaje vacío en el mapeo = se expone err.Error() (errores de validación y de estado).
// Lo no mapeado es 500 con mensaje genérico y el detalle queda en el log.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
