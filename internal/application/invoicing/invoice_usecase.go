package invoicing

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
	"github.com/jhoicas/talent-invoice/internal/domain/lifecycle"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
	"github.com/jhoicas/talent-invoice/internal/domain/subscription"
)

// maxNumberAttempts intentos para encontrar un número de factura libre.
const maxNumberAttempts = 10

// Config parámetros de facturación. TaxRatePercent se usa tal cual: cero significa sin impuesto.
type Config struct {
	TaxRatePercent decimal.Decimal
	Policy         subscription.Policy
}

// InvoiceUseCase casos de uso del talento sobre sus facturas (coordinador del ciclo de vida).
type InvoiceUseCase struct {
	txRunner       TxRunner
	invoiceRepo    repository.InvoiceRepository
	orgInvoiceRepo repository.OrganizerInvoiceRepository
	eventRepo      repository.InvoiceEventRepository
	resolver       OrganizerResolver
	metrics        TransitionRecorder
	cfg            Config
	log            zerolog.Logger

	now    func() time.Time
	suffix func() int
}

// NewInvoiceUseCase construye el caso de uso. metrics puede ser nil.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	orgInvoiceRepo repository.OrganizerInvoiceRepository,
	eventRepo repository.InvoiceEventRepository,
	resolver OrganizerResolver,
	metrics TransitionRecorder,
	cfg Config,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:       txRunner,
		invoiceRepo:    invoiceRepo,
		orgInvoiceRepo: orgInvoiceRepo,
		eventRepo:      eventRepo,
		resolver:       resolver,
		metrics:        metrics,
		cfg:            cfg,
		log:            log,
		now:            time.Now,
		suffix:         func() int { return rand.Intn(10000) },
	}
}

// Preview calcula montos sin persistir (vista previa en vivo). Solo rechaza montos fuera de rango.
func (uc *InvoiceUseCase) Preview(in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	items := resolveItems(in.Items)
	if err := checkBounds(items); err != nil {
		return nil, err
	}
	amounts := invoicecalc.Calculate(items, uc.cfg.TaxRatePercent)
	return &dto.PreviewResponse{
		TaxRate:         uc.cfg.TaxRatePercent,
		Items:           toLineItemResponses(items),
		AmountsResponse: toAmounts(amounts),
	}, nil
}

// Create crea una factura. Con organizer_code, crea también la factura del organizador en estado
// pending; ambas inserciones, el evento y el contador del plan van en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, talentID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	items := resolveItems(in.Items)
	if err := validateItems(items); err != nil {
		return nil, err
	}
	now := uc.now()
	issueDate, err := parseDate(in.IssueDate, now)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseOptionalDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	var organizer *entity.Organizer
	if strings.TrimSpace(in.OrganizerCode) != "" {
		organizer, err = uc.resolver.Resolve(ctx, talentID, in.OrganizerCode)
		if err != nil {
			return nil, err
		}
	}

	recipient := strings.TrimSpace(in.RecipientName)
	if recipient == "" && organizer != nil {
		recipient = organizer.Name
	}
	if recipient == "" {
		return nil, fmt.Errorf("%w: recipient_name es obligatorio", domain.ErrInvalidInput)
	}

	amounts := invoicecalc.Calculate(items, uc.cfg.TaxRatePercent)
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		TalentID:       talentID,
		RecipientName:  recipient,
		RecipientEmail: strings.TrimSpace(in.RecipientEmail),
		Subject:        strings.TrimSpace(in.Subject),
		IssueDate:      issueDate,
		DueDate:        dueDate,
		Notes:          in.Notes,
		TaxRate:        uc.cfg.TaxRatePercent,
		Status:         entity.InvoiceStatusDraft,
		PaymentStatus:  entity.PaymentStatusUnpaid,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	applyAmounts(inv, items, amounts)

	var oi *entity.OrganizerInvoice
	err = uc.txRunner.RunInvoicing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		orgInvoiceRepo repository.OrganizerInvoiceRepository,
		profileRepo repository.ProfileRepository,
		eventRepo repository.InvoiceEventRepository,
	) error {
		profile, err := profileRepo.GetByUserIDForUpdate(ctx, talentID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("%w: perfil del talento", domain.ErrNotFound)
		}
		if limits := uc.cfg.Policy.Check(profile, now); !limits.CanCreate {
			return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, limits.Reason)
		}

		number, err := uc.nextNumber(ctx, invoiceRepo, talentID, now)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number

		if organizer != nil {
			inv.OrganizerID = organizer.ID
			oi = newOrganizerInvoice(inv, organizer, profile, now)
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		if oi != nil {
			if err := orgInvoiceRepo.Create(ctx, oi); err != nil {
				return err
			}
		}
		if err := profileRepo.IncrementInvoiceCount(ctx, talentID); err != nil {
			return err
		}
		return appendEvent(ctx, eventRepo, inv, oi, entity.EventCreated, talentID, "", lifecycle.Of(inv, oi), "", now)
	})
	if err != nil {
		return nil, err
	}

	uc.record(entity.EventCreated, "", lifecycle.Of(inv, oi))
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Bool("linked", oi != nil).
		Int64("total", inv.Total).
		Msg("factura creada")
	return toInvoiceResponse(inv, oi), nil
}

// Update edita una factura. Sin organizador es edición libre; vinculada solo tras una devolución,
// y en ese caso el guardado es el reenvío: ambos registros vuelven a revisión en la misma transacción.
func (uc *InvoiceUseCase) Update(ctx context.Context, talentID, invoiceID string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	items := resolveItems(in.Items)
	if err := validateItems(items); err != nil {
		return nil, err
	}
	dueDate, err := parseOptionalDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var (
		inv    *entity.Invoice
		oi     *entity.OrganizerInvoice
		action string
		from   lifecycle.State
	)
	err = uc.txRunner.RunInvoicing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		orgInvoiceRepo repository.OrganizerInvoiceRepository,
		_ repository.ProfileRepository,
		eventRepo repository.InvoiceEventRepository,
	) error {
		var err error
		inv, oi, err = lockOwned(ctx, invoiceRepo, orgInvoiceRepo, talentID, invoiceID)
		if err != nil {
			return err
		}
		from = lifecycle.Of(inv, oi)
		issueDate, err := parseDate(in.IssueDate, inv.IssueDate)
		if err != nil {
			return err
		}

		inv.TaxRate = uc.cfg.TaxRatePercent
		action, err = lifecycle.Edit(inv, oi, items, invoicecalc.Calculate(items, inv.TaxRate), now)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(in.RecipientName); name != "" {
			inv.RecipientName = name
		}
		inv.RecipientEmail = strings.TrimSpace(in.RecipientEmail)
		inv.Subject = strings.TrimSpace(in.Subject)
		inv.IssueDate = issueDate
		inv.DueDate = dueDate
		inv.Notes = in.Notes

		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		if action == entity.EventResubmitted && oi != nil {
			if err := orgInvoiceRepo.Update(ctx, oi); err != nil {
				return err
			}
		}
		return appendEvent(ctx, eventRepo, inv, oi, action, talentID, from, lifecycle.Of(inv, oi), "", now)
	})
	if err != nil {
		return nil, err
	}

	uc.record(action, from, lifecycle.Of(inv, oi))
	uc.log.Info().Str("invoice_id", inv.ID).Str("transition", action).Str("actor_id", talentID).Msg("factura actualizada")
	return toInvoiceResponse(inv, oi), nil
}

// Delete borra una factura. Vinculada solo si la revisión terminó (returned o paid);
// entonces se borran juntas la factura y la del organizador.
func (uc *InvoiceUseCase) Delete(ctx context.Context, talentID, invoiceID string) error {
	now := uc.now()
	var from lifecycle.State
	err := uc.txRunner.RunInvoicing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		orgInvoiceRepo repository.OrganizerInvoiceRepository,
		_ repository.ProfileRepository,
		eventRepo repository.InvoiceEventRepository,
	) error {
		inv, oi, err := lockOwned(ctx, invoiceRepo, orgInvoiceRepo, talentID, invoiceID)
		if err != nil {
			return err
		}
		from = lifecycle.Of(inv, oi)
		if !lifecycle.CanDelete(inv, oi) {
			return fmt.Errorf("%w: la factura está en revisión del organizador (%s)", domain.ErrConflict, from)
		}
		if oi != nil {
			if err := orgInvoiceRepo.Delete(ctx, oi.ID); err != nil {
				return err
			}
		}
		if err := invoiceRepo.Delete(ctx, inv.ID); err != nil {
			return err
		}
		return appendEvent(ctx, eventRepo, inv, oi, entity.EventDeleted, talentID, from, "", "", now)
	})
	if err != nil {
		return err
	}
	uc.record(entity.EventDeleted, from, "")
	uc.log.Info().Str("invoice_id", invoiceID).Str("actor_id", talentID).Msg("factura eliminada")
	return nil
}

// Get devuelve una factura del talento.
func (uc *InvoiceUseCase) Get(ctx context.Context, talentID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, oi, err := uc.loadOwned(ctx, talentID, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, oi), nil
}

// List facturas del talento, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, talentID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByTalent(ctx, talentID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, inv := range list {
		var oi *entity.OrganizerInvoice
		if inv.IsLinked() {
			if oi, err = uc.orgInvoiceRepo.GetByInvoiceID(ctx, inv.ID); err != nil {
				return nil, err
			}
		}
		out.Items = append(out.Items, *toInvoiceResponse(inv, oi))
	}
	return out, nil
}

// MarkSent marca como enviada una factura sin organizador.
func (uc *InvoiceUseCase) MarkSent(ctx context.Context, talentID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.talentTransition(ctx, talentID, invoiceID, entity.EventMarkedSent, lifecycle.MarkSent)
}

// MarkPaid registra el cobro de una factura sin organizador.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, talentID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.talentTransition(ctx, talentID, invoiceID, entity.EventMarkedPaid, lifecycle.MarkPaidByTalent)
}

// Events historial de transiciones de una factura propia.
func (uc *InvoiceUseCase) Events(ctx context.Context, talentID, invoiceID string) ([]dto.InvoiceEventResponse, error) {
	if _, _, err := uc.loadOwned(ctx, talentID, invoiceID); err != nil {
		return nil, err
	}
	events, err := uc.eventRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out, nil
}

func (uc *InvoiceUseCase) talentTransition(
	ctx context.Context,
	talentID, invoiceID, action string,
	apply func(inv *entity.Invoice, now time.Time) error,
) (*dto.InvoiceResponse, error) {
	now := uc.now()
	var (
		inv  *entity.Invoice
		from lifecycle.State
	)
	err := uc.txRunner.RunInvoicing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		orgInvoiceRepo repository.OrganizerInvoiceRepository,
		_ repository.ProfileRepository,
		eventRepo repository.InvoiceEventRepository,
	) error {
		var (
			oi  *entity.OrganizerInvoice
			err error
		)
		inv, oi, err = lockOwned(ctx, invoiceRepo, orgInvoiceRepo, talentID, invoiceID)
		if err != nil {
			return err
		}
		from = lifecycle.Of(inv, oi)
		if err := apply(inv, now); err != nil {
			return err
		}
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return appendEvent(ctx, eventRepo, inv, nil, action, talentID, from, lifecycle.Of(inv, nil), "", now)
	})
	if err != nil {
		return nil, err
	}
	uc.record(action, from, lifecycle.Of(inv, nil))
	return toInvoiceResponse(inv, nil), nil
}

func (uc *InvoiceUseCase) loadOwned(ctx context.Context, talentID, invoiceID string) (*entity.Invoice, *entity.OrganizerInvoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil || inv.TalentID != talentID {
		return nil, nil, domain.ErrNotFound
	}
	var oi *entity.OrganizerInvoice
	if inv.IsLinked() {
		if oi, err = uc.orgInvoiceRepo.GetByInvoiceID(ctx, inv.ID); err != nil {
			return nil, nil, err
		}
	}
	return inv, oi, nil
}

func (uc *InvoiceUseCase) nextNumber(ctx context.Context, invoiceRepo repository.InvoiceRepository, talentID string, now time.Time) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		number := entity.FormatInvoiceNumber(now, uc.suffix())
		exists, err := invoiceRepo.NumberExists(ctx, talentID, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: no hay números de factura libres para %s", domain.ErrDuplicate, now.Format("200601"))
}

func (uc *InvoiceUseCase) record(action string, from, to lifecycle.State) {
	if uc.metrics != nil {
		uc.metrics.RecordTransition(action, string(from), string(to))
	}
}

// lockOwned bloquea la factura y luego su par del organizador. El orden factura → organizador
// es el mismo en todas las transiciones.
func lockOwned(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	orgInvoiceRepo repository.OrganizerInvoiceRepository,
	talentID, invoiceID string,
) (*entity.Invoice, *entity.OrganizerInvoice, error) {
	inv, err := invoiceRepo.GetByIDForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil || inv.TalentID != talentID {
		return nil, nil, domain.ErrNotFound
	}
	if !inv.IsLinked() {
		return inv, nil, nil
	}
	oi, err := orgInvoiceRepo.GetByInvoiceIDForUpdate(ctx, inv.ID)
	if err != nil {
		return nil, nil, err
	}
	return inv, oi, nil
}

func newOrganizerInvoice(inv *entity.Invoice, org *entity.Organizer, profile *entity.Profile, now time.Time) *entity.OrganizerInvoice {
	oi := &entity.OrganizerInvoice{
		ID:          uuid.New().String(),
		OrganizerID: org.ID,
		InvoiceID:   inv.ID,
		TalentID:    inv.TalentID,
		TalentName:  profile.DisplayName,
		TalentEmail: profile.Email,
		Bank:        profile.Bank,
		Status:      entity.OrganizerInvoiceStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	oi.CopySnapshot(inv)
	return oi
}

func applyAmounts(inv *entity.Invoice, items []entity.LineItem, a invoicecalc.Amounts) {
	inv.Items = items
	inv.Subtotal = a.Subtotal
	inv.Tax = a.Tax
	inv.Withholding = a.Withholding
	inv.Total = a.Total
}

func appendEvent(
	ctx context.Context,
	eventRepo repository.InvoiceEventRepository,
	inv *entity.Invoice,
	oi *entity.OrganizerInvoice,
	action, actorID string,
	from, to lifecycle.State,
	comment string,
	now time.Time,
) error {
	e := &entity.InvoiceEvent{
		ID:        uuid.New().String(),
		InvoiceID: inv.ID,
		Action:    action,
		ActorID:   actorID,
		FromState: string(from),
		ToState:   string(to),
		Comment:   comment,
		CreatedAt: now,
	}
	if oi != nil {
		e.OrganizerInvoiceID = oi.ID
	}
	return eventRepo.Create(ctx, e)
}
