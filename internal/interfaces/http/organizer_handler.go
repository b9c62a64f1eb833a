package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/application/dto"
)

// OrganizerHandler código de organizador: verificación por el talento y gestión por el organizador.
type OrganizerHandler struct {
	uc *account.OrganizerUseCase
}

// NewOrganizerHandler construye el handler.
func NewOrganizerHandler(uc *account.OrganizerUseCase) *OrganizerHandler {
	return &OrganizerHandler{uc: uc}
}

// Verify godoc
// @Summary      Verificar código de organizador
// @Description  Acepta minúsculas, espacios y caracteres de ancho completo.
// @Tags         organizer
// @Produce      json
// @Security     BearerAuth
// @Param        code  query  string  true  "código"
// @Success      200   {object}  dto.VerifyOrganizerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/organizers/verify [get]
func (h *OrganizerHandler) Verify(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code requerido"})
	}
	out, err := h.uc.Verify(c.Context(), GetUserID(c), code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me datos del organizador autenticado, con su código.
// GET /api/organizer
func (h *OrganizerHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegenerateCode emite un código nuevo; el anterior deja de resolver.
// POST /api/organizer/code
func (h *OrganizerHandler) RegenerateCode(c *fiber.Ctx) error {
	out, err := h.uc.RegenerateCode(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
