package invoicing

import (
	"context"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

// TxRunner ejecuta fn con repos atados a una misma transacción; cualquier error hace rollback de todo.
type TxRunner interface {
	RunInvoicing(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		orgInvoiceRepo repository.OrganizerInvoiceRepository,
		profileRepo repository.ProfileRepository,
		eventRepo repository.InvoiceEventRepository,
	) error) error
}

// OrganizerResolver resuelve un código de organizador ingresado por un actor.
// Devuelve domain.ErrOrganizerCodeNotFound o domain.ErrTooManyAttempts.
type OrganizerResolver interface {
	Resolve(ctx context.Context, actorID, rawCode string) (*entity.Organizer, error)
}

// TransitionRecorder métricas de transiciones (puede ser nil).
type TransitionRecorder interface {
	RecordTransition(action, from, to string)
}

// InvoicePDFGenerator genera el PDF a partir de la instantánea guardada.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc PDFDocument) ([]byte, error)
}

// PDFDocument datos que necesita el generador; nada se recalcula al renderizar.
type PDFDocument struct {
	Invoice *entity.Invoice
	Issuer  entity.Profile
	// Organizer nombre del organizador cuando la factura está vinculada.
	Organizer string
}
