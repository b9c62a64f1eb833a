package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

const profileColumns = `user_id, display_name, email,
	bank_name, branch_name, account_type, account_number, account_holder,
	subscription_status, stripe_customer_id, invoice_count, trial_end_date, created_at, updated_at`

// ProfileRepo perfil del talento sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Create persiste el perfil creado en el registro.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.UserID, p.DisplayName, p.Email,
		p.Bank.BankName, p.Bank.BranchName, p.Bank.AccountType, p.Bank.AccountNumber, p.Bank.AccountHolder,
		p.SubscriptionStatus, nullIfEmpty(p.StripeCustomerID), p.InvoiceCount, p.TrialEndDate,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// Update guarda contacto y datos bancarios.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, email = $3,
		    bank_name = $4, branch_name = $5, account_type = $6, account_number = $7, account_holder = $8,
		    updated_at = $9
		WHERE user_id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.UserID, p.DisplayName, p.Email,
		p.Bank.BankName, p.Bank.BranchName, p.Bank.AccountType, p.Bank.AccountNumber, p.Bank.AccountHolder,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return mustAffect(tag)
}

// GetByUserID obtiene el perfil del talento.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
}

// GetByUserIDForUpdate bloquea la fila del perfil dentro de la transacción.
func (r *ProfileRepo) GetByUserIDForUpdate(ctx context.Context, userID string) (*entity.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 FOR UPDATE`, userID)
}

// GetByStripeCustomerID resuelve el perfil desde un evento de cobro sin metadata.
func (r *ProfileRepo) GetByStripeCustomerID(ctx context.Context, customerID string) (*entity.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE stripe_customer_id = $1`, customerID)
}

// IncrementInvoiceCount suma una factura al contador del plan.
func (r *ProfileRepo) IncrementInvoiceCount(ctx context.Context, userID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE profiles SET invoice_count = invoice_count + 1, updated_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment invoice count: %w", err)
	}
	return mustAffect(tag)
}

// UpdateSubscription guarda el estado de suscripción y, si llega, el customer id.
func (r *ProfileRepo) UpdateSubscription(ctx context.Context, userID, status, stripeCustomerID string) error {
	query := `
		UPDATE profiles
		SET subscription_status = $2,
		    stripe_customer_id  = COALESCE($3, stripe_customer_id),
		    updated_at          = NOW()
		WHERE user_id = $1`
	tag, err := r.q.Exec(ctx, query, userID, status, nullIfEmpty(stripeCustomerID))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update subscription: %w", err)
	}
	return mustAffect(tag)
}

func (r *ProfileRepo) findOne(ctx context.Context, query string, arg any) (*entity.Profile, error) {
	var (
		p          entity.Profile
		customerID *string
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.UserID, &p.DisplayName, &p.Email,
		&p.Bank.BankName, &p.Bank.BranchName, &p.Bank.AccountType, &p.Bank.AccountNumber, &p.Bank.AccountHolder,
		&p.SubscriptionStatus, &customerID, &p.InvoiceCount, &p.TrialEndDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.StripeCustomerID = derefStr(customerID)
	return &p, nil
}
