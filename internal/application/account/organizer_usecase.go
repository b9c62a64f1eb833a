package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
	"github.com/jhoicas/talent-invoice/pkg/orgcode"
)

const maxCodeAttempts = 5

// OrganizerUseCase datos del organizador y resolución de códigos.
type OrganizerUseCase struct {
	organizerRepo repository.OrganizerRepository
	cache         CodeCache
	limiter       AttemptLimiter
	log           zerolog.Logger

	now func() time.Time
}

// NewOrganizerUseCase cache y limiter pueden ser nil (sin Redis).
func NewOrganizerUseCase(organizerRepo repository.OrganizerRepository, cache CodeCache, limiter AttemptLimiter, log zerolog.Logger) *OrganizerUseCase {
	return &OrganizerUseCase{organizerRepo: organizerRepo, cache: cache, limiter: limiter, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *OrganizerUseCase) WithClock(now func() time.Time) *OrganizerUseCase {
	uc.now = now
	return uc
}

// Resolve normaliza el código (espacios, ancho completo, mayúsculas) y lo busca.
// Los fallos cuentan para el límite de intentos del actor.
func (uc *OrganizerUseCase) Resolve(ctx context.Context, actorID, rawCode string) (*entity.Organizer, error) {
	if uc.limiter != nil {
		blocked, err := uc.limiter.Blocked(ctx, actorID)
		if err != nil {
			uc.log.Warn().Err(err).Str("actor_id", actorID).Msg("limiter no disponible")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	code := orgcode.Normalize(rawCode)
	if !orgcode.Valid(code) {
		uc.recordFailure(ctx, actorID)
		return nil, domain.ErrOrganizerCodeNotFound
	}

	if uc.cache != nil {
		org, err := uc.cache.GetOrganizer(ctx, code)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de organizadores no disponible")
		} else if org != nil {
			return org, nil
		}
	}

	org, err := uc.organizerRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if org == nil {
		uc.recordFailure(ctx, actorID)
		return nil, domain.ErrOrganizerCodeNotFound
	}
	if uc.cache != nil {
		if err := uc.cache.SetOrganizer(ctx, org); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo cachear el organizador")
		}
	}
	return org, nil
}

// Verify lo que ve el talento antes de vincular una factura (sin email del organizador).
func (uc *OrganizerUseCase) Verify(ctx context.Context, actorID, rawCode string) (*dto.VerifyOrganizerResponse, error) {
	org, err := uc.Resolve(ctx, actorID, rawCode)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyOrganizerResponse{OrganizerID: org.ID, Name: org.Name, OrganizerCode: org.OrganizerCode}, nil
}

// Get datos del organizador autenticado.
func (uc *OrganizerUseCase) Get(ctx context.Context, userID string) (*dto.OrganizerResponse, error) {
	org, err := uc.byUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrganizerResponse(org), nil
}

// RegenerateCode asigna un código nuevo; el anterior deja de resolver de inmediato.
func (uc *OrganizerUseCase) RegenerateCode(ctx context.Context, userID string) (*dto.OrganizerResponse, error) {
	org, err := uc.byUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := org.OrganizerCode
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := orgcode.Generate()
		if err != nil {
			return nil, err
		}
		err = uc.organizerRepo.UpdateCode(ctx, org.ID, code)
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, err
		}
		org.OrganizerCode = code
		org.UpdatedAt = uc.now()
		if uc.cache != nil {
			if err := uc.cache.DeleteOrganizer(ctx, old); err != nil {
				uc.log.Warn().Err(err).Str("organizer_id", org.ID).Msg("no se pudo invalidar el código anterior en caché")
			}
		}
		uc.log.Info().Str("organizer_id", org.ID).Msg("código de organizador regenerado")
		return toOrganizerResponse(org), nil
	}
	return nil, fmt.Errorf("%w: no se encontró un código libre", domain.ErrDuplicate)
}

func (uc *OrganizerUseCase) byUser(ctx context.Context, userID string) (*entity.Organizer, error) {
	org, err := uc.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (uc *OrganizerUseCase) recordFailure(ctx context.Context, actorID string) {
	if uc.limiter == nil {
		return
	}
	if err := uc.limiter.RecordFailure(ctx, actorID); err != nil {
		uc.log.Warn().Err(err).Str("actor_id", actorID).Msg("no se pudo registrar el intento fallido")
	}
}

func toOrganizerResponse(org *entity.Organizer) *dto.OrganizerResponse {
	return &dto.OrganizerResponse{
		ID:            org.ID,
		Name:          org.Name,
		Email:         org.Email,
		OrganizerCode: org.OrganizerCode,
		CreatedAt:     org.CreatedAt,
		UpdatedAt:     org.UpdatedAt,
	}
}
