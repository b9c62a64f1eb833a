package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var _ repository.InvoiceEventRepository = (*InvoiceEventRepo)(nil)

// InvoiceEventRepo historial de transiciones, solo inserción.
type InvoiceEventRepo struct {
	q Querier
}

// NewInvoiceEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceEventRepository(q Querier) *InvoiceEventRepo {
	return &InvoiceEventRepo{q: q}
}

func (r *InvoiceEventRepo) Create(ctx context.Context, e *entity.InvoiceEvent) error {
	query := `
		INSERT INTO invoice_events (id, invoice_id, organizer_invoice_id, action, actor_id, from_state, to_state, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.InvoiceID, nullIfEmpty(e.OrganizerInvoiceID), e.Action, e.ActorID,
		e.FromState, e.ToState, e.Comment, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice event: %w", err)
	}
	return nil
}

func (r *InvoiceEventRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.InvoiceEvent, error) {
	query := `
		SELECT id, invoice_id, organizer_invoice_id, action, actor_id, from_state, to_state, comment, created_at
		FROM invoice_events WHERE invoice_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice events: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceEvent
	for rows.Next() {
		var (
			e     entity.InvoiceEvent
			oiRef *string
		)
		if err := rows.Scan(&e.ID, &e.InvoiceID, &oiRef, &e.Action, &e.ActorID, &e.FromState, &e.ToState, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice event: %w", err)
		}
		e.OrganizerInvoiceID = derefStr(oiRef)
		list = append(list, &e)
	}
	return list, rows.Err()
}
