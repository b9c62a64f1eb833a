package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var _ repository.OrganizerInvoiceRepository = (*OrganizerInvoiceRepo)(nil)

const organizerInvoiceColumns = `id, organizer_id, invoice_id, invoice_number,
	talent_id, talent_name, talent_email,
	bank_name, branch_name, account_type, account_number, account_holder,
	items, subtotal, tax, withholding, total,
	status, approved_at, paid_at, created_at, updated_at`

// OrganizerInvoiceRepo vista del organizador con la copia de montos y datos bancarios del talento.
type OrganizerInvoiceRepo struct {
	q Querier
}

// NewOrganizerInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizerInvoiceRepository(q Querier) *OrganizerInvoiceRepo {
	return &OrganizerInvoiceRepo{q: q}
}

// Create persiste la factura del organizador. Una por factura del talento.
func (r *OrganizerInvoiceRepo) Create(ctx context.Context, oi *entity.OrganizerInvoice) error {
	query := `INSERT INTO organizer_invoices (` + organizerInvoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		oi.ID, oi.OrganizerID, oi.InvoiceID, oi.InvoiceNumber,
		oi.TalentID, oi.TalentName, oi.TalentEmail,
		oi.Bank.BankName, oi.Bank.BranchName, oi.Bank.AccountType, oi.Bank.AccountNumber, oi.Bank.AccountHolder,
		itemsOrEmpty(oi.Items), oi.Subtotal, oi.Tax, oi.Withholding, oi.Total,
		oi.Status, oi.ApprovedAt, oi.PaidAt, oi.CreatedAt, oi.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la factura %s ya tiene organizador", domain.ErrDuplicate, oi.InvoiceID)
		}
		return fmt.Errorf("insert organizer invoice: %w", err)
	}
	return nil
}

// Update guarda estado y copia de montos (el reenvío la refresca).
func (r *OrganizerInvoiceRepo) Update(ctx context.Context, oi *entity.OrganizerInvoice) error {
	query := `
		UPDATE organizer_invoices
		SET items = $2, subtotal = $3, tax = $4, withholding = $5, total = $6,
		    status = $7, approved_at = $8, paid_at = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		oi.ID, itemsOrEmpty(oi.Items), oi.Subtotal, oi.Tax, oi.Withholding, oi.Total,
		oi.Status, oi.ApprovedAt, oi.PaidAt, oi.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update organizer invoice: %w", err)
	}
	return mustAffect(tag)
}

func (r *OrganizerInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.OrganizerInvoice, error) {
	return r.findOne(ctx, `SELECT `+organizerInvoiceColumns+` FROM organizer_invoices WHERE id = $1`, id)
}

func (r *OrganizerInvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.OrganizerInvoice, error) {
	return r.findOne(ctx, `SELECT `+organizerInvoiceColumns+` FROM organizer_invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrganizerInvoiceRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.OrganizerInvoice, error) {
	return r.findOne(ctx, `SELECT `+organizerInvoiceColumns+` FROM organizer_invoices WHERE invoice_id = $1`, invoiceID)
}

func (r *OrganizerInvoiceRepo) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*entity.OrganizerInvoice, error) {
	return r.findOne(ctx, `SELECT `+organizerInvoiceColumns+` FROM organizer_invoices WHERE invoice_id = $1 FOR UPDATE`, invoiceID)
}

// ListByOrganizer bandeja del organizador; status vacío = todas.
func (r *OrganizerInvoiceRepo) ListByOrganizer(ctx context.Context, organizerID, status string, limit, offset int) ([]*entity.OrganizerInvoice, error) {
	query := `SELECT ` + organizerInvoiceColumns + ` FROM organizer_invoices
		WHERE organizer_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, organizerID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizer invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrganizerInvoice
	for rows.Next() {
		oi, err := scanOrganizerInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organizer invoice: %w", err)
		}
		list = append(list, oi)
	}
	return list, rows.Err()
}

func (r *OrganizerInvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM organizer_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete organizer invoice: %w", err)
	}
	return mustAffect(tag)
}

func (r *OrganizerInvoiceRepo) findOne(ctx context.Context, query string, arg any) (*entity.OrganizerInvoice, error) {
	oi, err := scanOrganizerInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organizer invoice: %w", err)
	}
	return oi, nil
}

func scanOrganizerInvoice(row pgx.Row) (*entity.OrganizerInvoice, error) {
	var oi entity.OrganizerInvoice
	err := row.Scan(
		&oi.ID, &oi.OrganizerID, &oi.InvoiceID, &oi.InvoiceNumber,
		&oi.TalentID, &oi.TalentName, &oi.TalentEmail,
		&oi.Bank.BankName, &oi.Bank.BranchName, &oi.Bank.AccountType, &oi.Bank.AccountNumber, &oi.Bank.AccountHolder,
		&oi.Items, &oi.Subtotal, &oi.Tax, &oi.Withholding, &oi.Total,
		&oi.Status, &oi.ApprovedAt, &oi.PaidAt, &oi.CreatedAt, &oi.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &oi, nil
}
