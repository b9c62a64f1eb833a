package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/talent-invoice/internal/application/auth"
	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var (
	_ invoicing.TxRunner = (*TxRunner)(nil)
	_ auth.TxRunner      = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoicing inicia una transacción con los repos de facturación atados a ella.
// Factura, factura del organizador, contador del plan y evento se confirman juntos o no se confirman.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	orgInvoiceRepo repository.OrganizerInvoiceRepository,
	profileRepo repository.ProfileRepository,
	eventRepo repository.InvoiceEventRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewInvoiceRepository(tx),
			NewOrganizerInvoiceRepository(tx),
			NewProfileRepository(tx),
			NewInvoiceEventRepository(tx),
		)
	})
}

// RunAccount inicia una transacción para el registro (usuario + perfil u organizador).
func (r *TxRunner) RunAccount(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	organizerRepo repository.OrganizerRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewProfileRepository(tx), NewOrganizerRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
