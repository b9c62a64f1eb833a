package invoicing

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

// PDFUseCase genera la representación imprimible de una factura a partir de la instantánea guardada.
type PDFUseCase struct {
	invoiceRepo    repository.InvoiceRepository
	orgInvoiceRepo repository.OrganizerInvoiceRepository
	organizerRepo  repository.OrganizerRepository
	profileRepo    repository.ProfileRepository
	generator      InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	orgInvoiceRepo repository.OrganizerInvoiceRepository,
	organizerRepo repository.OrganizerRepository,
	profileRepo repository.ProfileRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:    invoiceRepo,
		orgInvoiceRepo: orgInvoiceRepo,
		organizerRepo:  organizerRepo,
		profileRepo:    profileRepo,
		generator:      generator,
	}
}

// TalentInvoicePDF PDF de una factura propia del talento.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe o no es del talento.
func (uc *PDFUseCase) TalentInvoicePDF(ctx context.Context, talentID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil || inv.TalentID != talentID {
		return nil, "", domain.ErrNotFound
	}
	profile, err := uc.profileRepo.GetByUserID(ctx, talentID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener perfil: %w", err)
	}
	if profile == nil {
		return nil, "", fmt.Errorf("%w: perfil del talento", domain.ErrNotFound)
	}

	doc := PDFDocument{Invoice: inv, Issuer: *profile}
	if inv.IsLinked() {
		if org, err := uc.organizerRepo.GetByID(ctx, inv.OrganizerID); err == nil && org != nil {
			doc.Organizer = org.Name
		}
	}
	return uc.render(ctx, doc)
}

// OrganizerInvoicePDF PDF de una factura recibida. Emisor, ítems y montos salen de la copia
// del organizador, no del perfil actual del talento.
func (uc *PDFUseCase) OrganizerInvoicePDF(ctx context.Context, userID, orgInvoiceID string) ([]byte, string, error) {
	org, err := uc.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener organizador: %w", err)
	}
	if org == nil {
		return nil, "", domain.ErrForbidden
	}
	oi, err := uc.orgInvoiceRepo.GetByID(ctx, orgInvoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura del organizador: %w", err)
	}
	if oi == nil || oi.OrganizerID != org.ID {
		return nil, "", domain.ErrNotFound
	}
	src, err := uc.invoiceRepo.GetByID(ctx, oi.InvoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if src == nil {
		return nil, "", domain.ErrNotFound
	}

	inv := *src
	inv.InvoiceNumber = oi.InvoiceNumber
	inv.Items = oi.Items
	inv.Subtotal, inv.Tax, inv.Withholding, inv.Total = oi.Subtotal, oi.Tax, oi.Withholding, oi.Total
	issuer := entity.Profile{
		UserID:      oi.TalentID,
		DisplayName: oi.TalentName,
		Email:       oi.TalentEmail,
		Bank:        oi.Bank,
	}
	return uc.render(ctx, PDFDocument{Invoice: &inv, Issuer: issuer, Organizer: org.Name})
}

func (uc *PDFUseCase) render(ctx context.Context, doc PDFDocument) ([]byte, string, error) {
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", doc.Invoice.InvoiceNumber), nil
}
