package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
)

// ReviewHandler rutas del organizador sobre las facturas recibidas (protegido, rol organizer).
type ReviewHandler struct {
	uc    *invoicing.ReviewUseCase
	pdfUC *invoicing.PDFUseCase
}

// NewReviewHandler construye el handler.
func NewReviewHandler(uc *invoicing.ReviewUseCase, pdfUC *invoicing.PDFUseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc, pdfUC: pdfUC}
}

// List godoc
// @Summary      Facturas recibidas por el organizador
// @Tags         organizer
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending | approved | returned | paid"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrganizerInvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/organizer/invoices [get]
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de factura recibida
// @Tags         organizer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura del organizador"
// @Success      200  {object}  dto.OrganizerInvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/organizer/invoices/{id} [get]
func (h *ReviewHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar factura
// @Tags         organizer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura del organizador"
// @Success      200  {object}  dto.OrganizerInvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/organizer/invoices/{id}/approve [post]
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Registrar pago
// @Description  Solo desde approved; también marca pagada la factura del talento.
// @Tags         organizer
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la factura del organizador"
// @Success      200  {object}  dto.OrganizerInvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/organizer/invoices/{id}/pay [post]
func (h *ReviewHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Devolver factura al talento
// @Tags         organizer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID de la factura del organizador"
// @Param        body  body  dto.ReturnInvoiceRequest  true  "comentario obligatorio"
// @Success      200   {object}  dto.OrganizerInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/organizer/invoices/{id}/return [post]
func (h *ReviewHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Return(c.Context(), GetUserID(c), c.Params("id"), in.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetPDF PDF de una factura recibida.
// GET /api/organizer/invoices/:id/pdf
func (h *ReviewHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.OrganizerInvoicePDF(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, pdfBytes, filename)
}
