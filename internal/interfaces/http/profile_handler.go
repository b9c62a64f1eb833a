package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-invoice/internal/application/account"
	"github.com/jhoicas/talent-invoice/internal/application/dto"
)

// ProfileHandler perfil del talento y límites de su plan.
type ProfileHandler struct {
	uc *account.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *account.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get godoc
// @Summary      Perfil del talento
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil y datos bancarios
// @Description  Los datos bancarios se copian a las facturas vinculadas que se creen después.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateProfileRequest  true  "perfil"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Limits godoc
// @Summary      Límites del plan
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SubscriptionLimitsResponse
// @Router       /api/subscription/limits [get]
func (h *ProfileHandler) Limits(c *fiber.Ctx) error {
	out, err := h.uc.Limits(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
