package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-invoice/internal/application/auth"
	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
	"github.com/jhoicas/talent-invoice/internal/infrastructure/memory"
	"github.com/jhoicas/talent-invoice/pkg/jwt"
	"github.com/jhoicas/talent-invoice/pkg/orgcode"
)

const secret = "test-secret"

func newAuth(store *memory.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(store, store.Users(), subscription.DefaultPolicy(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "talent-invoice"})
}

func TestRegisterUser_TalentoCreaPerfilGratuito(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	out, err := newAuth(store).RegisterUser(ctx, dto.RegisterRequest{Email: " Taro@Example.com ", Password: "password123", Name: "山田太郎"})

	require.NoError(t, err)
	assert.Equal(t, "taro@example.com", out.Email)
	assert.Equal(t, entity.RoleTalent, out.Role)
	p, err := store.Profiles().GetByUserID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entity.SubscriptionFree, p.SubscriptionStatus)
	assert.Equal(t, 0, p.InvoiceCount)
	assert.True(t, p.TrialEndDate.After(p.CreatedAt))
}

func TestRegisterUser_OrganizadorRecibeCodigo(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	out, err := newAuth(store).RegisterUser(ctx, dto.RegisterRequest{Email: "org@example.com", Password: "password123", Name: "Live House", Role: entity.RoleOrganizer})

	require.NoError(t, err)
	org, err := store.Organizers().GetByUserID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.True(t, orgcode.Valid(org.OrganizerCode))
	p, _ := store.Profiles().GetByUserID(ctx, out.ID)
	assert.Nil(t, p, "el organizador no tiene perfil de talento")
}

func TestRegisterUser_Validaciones(t *testing.T) {
	store := memory.NewStore()
	uc := newAuth(store)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "sin-arroba", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@example.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@example.com", Password: "password123", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_GeneraTokenConRol(t *testing.T) {
	store := memory.NewStore()
	uc := newAuth(store)
	ctx := context.Background()
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "org@example.com", Password: "password123", Role: entity.RoleOrganizer})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "org@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleOrganizer, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "org@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
