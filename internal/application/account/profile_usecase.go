package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
)

// ProfileUseCase perfil del talento y límites de su plan.
type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	policy      subscription.Policy
	now         func() time.Time
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(profileRepo repository.ProfileRepository, policy subscription.Policy) *ProfileUseCase {
	return &ProfileUseCase{profileRepo: profileRepo, policy: policy, now: time.Now}
}

// Get perfil del talento autenticado.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// Update guarda nombre, email y datos bancarios. Las facturas ya vinculadas conservan su copia.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display_name es obligatorio", domain.ErrInvalidInput)
	}
	if t := in.Bank.AccountType; t != "" && t != entity.AccountTypeOrdinary && t != entity.AccountTypeChecking {
		return nil, fmt.Errorf("%w: account_type debe ser %s o %s", domain.ErrInvalidInput, entity.AccountTypeOrdinary, entity.AccountTypeChecking)
	}
	p.DisplayName = name
	if email := strings.TrimSpace(in.Email); email != "" {
		p.Email = email
	}
	p.Bank = entity.BankAccount{
		BankName:      strings.TrimSpace(in.Bank.BankName),
		BranchName:    strings.TrimSpace(in.Bank.BranchName),
		AccountType:   in.Bank.AccountType,
		AccountNumber: strings.TrimSpace(in.Bank.AccountNumber),
		AccountHolder: strings.TrimSpace(in.Bank.AccountHolder),
	}
	p.UpdatedAt = uc.now()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// Limits resultado de la verificación del plan.
func (uc *ProfileUseCase) Limits(ctx context.Context, userID string) (*dto.SubscriptionLimitsResponse, error) {
	p, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	l := uc.policy.Check(p, uc.now())
	out := &dto.SubscriptionLimitsResponse{
		SubscriptionStatus: p.SubscriptionStatus,
		CanCreate:          l.CanCreate,
		Unlimited:          l.Unlimited,
		Remaining:          l.Remaining,
		Reason:             l.Reason,
	}
	if !l.Unlimited {
		out.TrialEndsAt = &l.TrialEndsAt
	}
	return out, nil
}

// CanCreateInvoice usado por el middleware de cuota.
func (uc *ProfileUseCase) CanCreateInvoice(ctx context.Context, userID string) (bool, string, error) {
	p, err := uc.load(ctx, userID)
	if err != nil {
		return false, "", err
	}
	l := uc.policy.Check(p, uc.now())
	return l.CanCreate, l.Reason, nil
}

func (uc *ProfileUseCase) load(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Bank: dto.BankAccountDTO{
			BankName:      p.Bank.BankName,
			BranchName:    p.Bank.BranchName,
			AccountType:   p.Bank.AccountType,
			AccountNumber: p.Bank.AccountNumber,
			AccountHolder: p.Bank.AccountHolder,
		},
		SubscriptionStatus: p.SubscriptionStatus,
		InvoiceCount:       p.InvoiceCount,
		TrialEndDate:       p.TrialEndDate,
	}
}
