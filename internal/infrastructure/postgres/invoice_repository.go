package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_number, talent_id, organizer_id,
	recipient_name, recipient_email, subject, issue_date, due_date, notes,
	tax_rate, items, subtotal, tax, withholding, total,
	status, return_status, return_comment, return_date, returned_by,
	payment_status, paid_date, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas se guardan como JSONB junto a la instantánea de montos.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura completa.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.TalentID, nullIfEmpty(inv.OrganizerID),
		inv.RecipientName, inv.RecipientEmail, inv.Subject, inv.IssueDate, inv.DueDate, inv.Notes,
		inv.TaxRate, itemsOrEmpty(inv.Items), inv.Subtotal, inv.Tax, inv.Withholding, inv.Total,
		inv.Status, inv.ReturnStatus, inv.ReturnComment, inv.ReturnDate, nullIfEmpty(inv.ReturnedBy),
		inv.PaymentStatus, inv.PaidDate, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reescribe los campos editables y de estado. El número, el talento y el organizador no cambian.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET recipient_name = $2, recipient_email = $3, subject = $4,
		    issue_date = $5, due_date = $6, notes = $7,
		    tax_rate = $8, items = $9, subtotal = $10, tax = $11, withholding = $12, total = $13,
		    status = $14, return_status = $15, return_comment = $16, return_date = $17, returned_by = $18,
		    payment_status = $19, paid_date = $20, updated_at = $21
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID,
		inv.RecipientName, inv.RecipientEmail, inv.Subject,
		inv.IssueDate, inv.DueDate, inv.Notes,
		inv.TaxRate, itemsOrEmpty(inv.Items), inv.Subtotal, inv.Tax, inv.Withholding, inv.Total,
		inv.Status, inv.ReturnStatus, inv.ReturnComment, inv.ReturnDate, nullIfEmpty(inv.ReturnedBy),
		inv.PaymentStatus, inv.PaidDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return mustAffect(tag)
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.findOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero con bloqueo de fila.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.findOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

// NumberExists consulta el par único (talent_id, invoice_number).
func (r *InvoiceRepo) NumberExists(ctx context.Context, talentID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE talent_id = $1 AND invoice_number = $2)`,
		talentID, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// ListByTalent facturas del talento, más recientes primero.
func (r *InvoiceRepo) ListByTalent(ctx context.Context, talentID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE talent_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, talentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Delete elimina la factura. La del organizador se borra antes, en la misma transacción.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return mustAffect(tag)
}

func (r *InvoiceRepo) findOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv                     entity.Invoice
		organizerID, returnedBy *string
	)
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.TalentID, &organizerID,
		&inv.RecipientName, &inv.RecipientEmail, &inv.Subject, &inv.IssueDate, &inv.DueDate, &inv.Notes,
		&inv.TaxRate, &inv.Items, &inv.Subtotal, &inv.Tax, &inv.Withholding, &inv.Total,
		&inv.Status, &inv.ReturnStatus, &inv.ReturnComment, &inv.ReturnDate, &returnedBy,
		&inv.PaymentStatus, &inv.PaidDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.OrganizerID = derefStr(organizerID)
	inv.ReturnedBy = derefStr(returnedBy)
	return &inv, nil
}

// itemsOrEmpty evita guardar JSON null en la columna NOT NULL.
func itemsOrEmpty(items []entity.LineItem) []entity.LineItem {
	if items == nil {
		return []entity.LineItem{}
	}
	return items
}
