package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
	"github.com/jhoicas/talent-invoice/pkg/jwt"
	"github.com/jhoicas/talent-invoice/pkg/orgcode"
)

const (
	minPasswordLength = 8
	maxCodeAttempts   = 5
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TxRunner registro atómico de usuario + perfil u organizador.
type TxRunner interface {
	RunAccount(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		profileRepo repository.ProfileRepository,
		organizerRepo repository.OrganizerRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	policy   subscription.Policy
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner TxRunner, userRepo repository.UserRepository, policy subscription.Policy, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{txRunner: txRunner, userRepo: userRepo, policy: policy, jwtCfg: jwtCfg}
}

// RegisterUser crea el usuario con bcrypt y, según el rol, su perfil de talento (plan gratuito
// con prueba) o su organizador con un código único. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleTalent
	}
	if role != entity.RoleTalent && role != entity.RoleOrganizer {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunAccount(ctx, func(
		userRepo repository.UserRepository,
		profileRepo repository.ProfileRepository,
		organizerRepo repository.OrganizerRepository,
	) error {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		if role == entity.RoleOrganizer {
			code, err := uniqueCode(ctx, organizerRepo)
			if err != nil {
				return err
			}
			return organizerRepo.Create(ctx, &entity.Organizer{
				ID:            uuid.New().String(),
				UserID:        user.ID,
				Name:          name,
				Email:         email,
				OrganizerCode: code,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
		return profileRepo.Create(ctx, &entity.Profile{
			UserID:             user.ID,
			DisplayName:        name,
			Email:              email,
			SubscriptionStatus: entity.SubscriptionFree,
			TrialEndDate:       uc.policy.TrialEnd(now),
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// uniqueCode genera un código que todavía no usa ningún organizador.
func uniqueCode(ctx context.Context, organizerRepo repository.OrganizerRepository) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := orgcode.Generate()
		if err != nil {
			return "", err
		}
		existing, err := organizerRepo.GetByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no se encontró un código de organizador libre", domain.ErrDuplicate)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
