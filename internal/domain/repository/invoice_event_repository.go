package repository

import (
	"context"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// InvoiceEventRepository historial de transiciones (solo inserción).
type InvoiceEventRepository interface {
	Create(ctx context.Context, event *entity.InvoiceEvent) error
	// ListByInvoice en orden cronológico.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceEvent, error)
}
