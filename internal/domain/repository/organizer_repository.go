package repository

import (
	"context"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// OrganizerRepository puerto de persistencia para Organizer.
type OrganizerRepository interface {
	// Create devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, org *entity.Organizer) error
	// UpdateCode devuelve domain.ErrDuplicate si el código ya existe.
	UpdateCode(ctx context.Context, id, code string) error
	GetByID(ctx context.Context, id string) (*entity.Organizer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Organizer, error)
	// GetByCode espera el código ya normalizado.
	GetByCode(ctx context.Context, code string) (*entity.Organizer, error)
}
