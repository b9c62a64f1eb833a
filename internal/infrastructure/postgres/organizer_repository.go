package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

var _ repository.OrganizerRepository = (*OrganizerRepo)(nil)

const organizerColumns = `id, user_id, name, email, organizer_code, created_at, updated_at`

// OrganizerRepo organizadores y sus códigos sobre PostgreSQL.
type OrganizerRepo struct {
	q Querier
}

// NewOrganizerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganizerRepository(q Querier) *OrganizerRepo {
	return &OrganizerRepo{q: q}
}

// Create persiste el organizador. Código repetido → ErrDuplicate.
func (r *OrganizerRepo) Create(ctx context.Context, org *entity.Organizer) error {
	query := `INSERT INTO organizers (` + organizerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		org.ID, org.UserID, org.Name, org.Email, org.OrganizerCode, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: organizador %s", domain.ErrDuplicate, org.OrganizerCode)
		}
		return fmt.Errorf("insert organizer: %w", err)
	}
	return nil
}

// UpdateCode reemplaza el código; el anterior deja de resolver.
func (r *OrganizerRepo) UpdateCode(ctx context.Context, id, code string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE organizers SET organizer_code = $2, updated_at = NOW() WHERE id = $1`, id, code)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update organizer code: %w", err)
	}
	return mustAffect(tag)
}

func (r *OrganizerRepo) GetByID(ctx context.Context, id string) (*entity.Organizer, error) {
	return r.findOne(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE id = $1`, id)
}

func (r *OrganizerRepo) GetByUserID(ctx context.Context, userID string) (*entity.Organizer, error) {
	return r.findOne(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE user_id = $1`, userID)
}

func (r *OrganizerRepo) GetByCode(ctx context.Context, code string) (*entity.Organizer, error) {
	return r.findOne(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE organizer_code = $1`, code)
}

func (r *OrganizerRepo) findOne(ctx context.Context, query string, arg any) (*entity.Organizer, error) {
	var o entity.Organizer
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&o.ID, &o.UserID, &o.Name, &o.Email, &o.OrganizerCode, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	return &o, nil
}
