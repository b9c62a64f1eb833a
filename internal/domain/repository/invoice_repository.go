package repository

import (
	"context"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para las facturas del talento.
// Los Get devuelven (nil, nil) cuando no existe la fila.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// NumberExists informa si el talento ya usó ese número de factura.
	NumberExists(ctx context.Context, talentID, number string) (bool, error)
	// ListByTalent ordena por created_at DESC.
	ListByTalent(ctx context.Context, talentID string, limit, offset int) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// OrganizerInvoiceRepository puerto de persistencia del lado organizador.
type OrganizerInvoiceRepository interface {
	Create(ctx context.Context, oi *entity.OrganizerInvoice) error
	Update(ctx context.Context, oi *entity.OrganizerInvoice) error
	GetByID(ctx context.Context, id string) (*entity.OrganizerInvoice, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.OrganizerInvoice, error)
	GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.OrganizerInvoice, error)
	GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*entity.OrganizerInvoice, error)
	// ListByOrganizer filtra por status cuando no está vacío. Orden created_at DESC.
	ListByOrganizer(ctx context.Context, organizerID, status string, limit, offset int) ([]*entity.OrganizerInvoice, error)
	Delete(ctx context.Context, id string) error
}
