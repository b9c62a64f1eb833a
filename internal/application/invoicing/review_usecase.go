package invoicing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/lifecycle"
	"github.com/jhoicas/talent-invoice/internal/domain/repository"
)

// ReviewUseCase casos de uso del organizador: revisar, aprobar, pagar y devolver facturas.
type ReviewUseCase struct {
	txRunner       TxRunner
	organizerRepo  repository.OrganizerRepository
	invoiceRepo    repository.InvoiceRepository
	orgInvoiceRepo repository.OrganizerInvoiceRepository
	metrics        TransitionRecorder
	log            zerolog.Logger
	now            func() time.Time
}

// NewReviewUseCase construye el caso de uso. metrics puede ser nil.
func NewReviewUseCase(
	txRunner TxRunner,
	organizerRepo repository.OrganizerRepository,
	invoiceRepo repository.InvoiceRepository,
	orgInvoiceRepo repository.OrganizerInvoiceRepository,
	metrics TransitionRecorder,
	log zerolog.Logger,
) *ReviewUseCase {
	return &ReviewUseCase{
		txRunner:       txRunner,
		organizerRepo:  organizerRepo,
		invoiceRepo:    invoiceRepo,
		orgInvoiceRepo: orgInvoiceRepo,
		metrics:        metrics,
		log:            log,
		now:            time.Now,
	}
}

// List facturas recibidas por el organizador; status vacío = todas.
func (uc *ReviewUseCase) List(ctx context.Context, userID, status string, page dto.PageRequest) (*dto.OrganizerInvoiceListResponse, error) {
	org, err := uc.organizerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch status {
	case "", entity.OrganizerInvoiceStatusPending, entity.OrganizerInvoiceStatusApproved,
		entity.OrganizerInvoiceStatusPaid, entity.OrganizerInvoiceStatusReturned:
	default:
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.orgInvoiceRepo.ListByOrganizer(ctx, org.ID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.OrganizerInvoiceListResponse{
		Items: make([]dto.OrganizerInvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, oi := range list {
		out.Items = append(out.Items, *toOrganizerInvoiceResponse(oi))
	}
	return out, nil
}

// Get detalle de una factura recibida, con el comentario de devolución si está abierta.
func (uc *ReviewUseCase) Get(ctx context.Context, userID, orgInvoiceID string) (*dto.OrganizerInvoiceResponse, error) {
	org, err := uc.organizerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	oi, err := uc.orgInvoiceRepo.GetByID(ctx, orgInvoiceID)
	if err != nil {
		return nil, err
	}
	if oi == nil || oi.OrganizerID != org.ID {
		return nil, domain.ErrNotFound
	}
	out := toOrganizerInvoiceResponse(oi)
	inv, err := uc.invoiceRepo.GetByID(ctx, oi.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv != nil {
		out.ReturnComment = inv.ReturnComment
	}
	return out, nil
}

// Approve aprueba una factura pendiente.
func (uc *ReviewUseCase) Approve(ctx context.Context, userID, orgInvoiceID string) (*dto.OrganizerInvoiceResponse, error) {
	return uc.transition(ctx, userID, orgInvoiceID, entity.EventApproved, lifecycle.Approve)
}

// MarkPaid registra el pago de una factura aprobada; la factura del talento queda pagada.
func (uc *ReviewUseCase) MarkPaid(ctx context.Context, userID, orgInvoiceID string) (*dto.OrganizerInvoiceResponse, error) {
	return uc.transition(ctx, userID, orgInvoiceID, entity.EventPaid, lifecycle.MarkPaid)
}

// Return devuelve una factura pendiente al talento con un comentario obligatorio.
func (uc *ReviewUseCase) Return(ctx context.Context, userID, orgInvoiceID, comment string) (*dto.OrganizerInvoiceResponse, error) {
	return uc.transition(ctx, userID, orgInvoiceID, entity.EventReturned, func(inv *entity.Invoice, oi *entity.OrganizerInvoice, now time.Time) error {
		return lifecycle.Return(inv, oi, comment, userID, now)
	})
}

// transition bloquea factura y factura del organizador (en ese orden), aplica la transición
// y persiste ambos lados más el evento en una sola transacción.
func (uc *ReviewUseCase) transition(
	ctx context.Context,
	userID, orgInvoiceID, action string,
	apply func(inv *entity.Invoice, oi *entity.OrganizerInvoice, now time.Time) error,
) (*dto.OrganizerInvoiceResponse, error) {
	org, err := uc.organizerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ref, err := uc.orgInvoiceRepo.GetByID(ctx, orgInvoiceID)
	if err != nil {
		return nil, err
	}
	if ref == nil || ref.OrganizerID != org.ID {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	var (
		inv      *entity.Invoice
		oi       *entity.OrganizerInvoice
		from, to lifecycle.State
	)
	err = uc.txRunner.RunInvoicing(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		orgInvoiceRepo repository.OrganizerInvoiceRepository,
		_ repository.ProfileRepository,
		eventRepo repository.InvoiceEventRepository,
	) error {
		var err error
		if inv, err = invoiceRepo.GetByIDForUpdate(ctx, ref.InvoiceID); err != nil {
			return err
		}
		if oi, err = orgInvoiceRepo.GetByIDForUpdate(ctx, ref.ID); err != nil {
			return err
		}
		if inv == nil || oi == nil {
			return domain.ErrNotFound
		}
		from = lifecycle.Of(inv, oi)
		if err := apply(inv, oi, now); err != nil {
			return err
		}
		to = lifecycle.Of(inv, oi)
		if err := orgInvoiceRepo.Update(ctx, oi); err != nil {
			return err
		}
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		return appendEvent(ctx, eventRepo, inv, oi, action, userID, from, to, inv.ReturnComment, now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordTransition(action, string(from), string(to))
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("organizer_invoice_id", oi.ID).
		Str("transition", action).
		Str("actor_id", userID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("transición de factura")

	out := toOrganizerInvoiceResponse(oi)
	out.ReturnComment = inv.ReturnComment
	return out, nil
}

func (uc *ReviewUseCase) organizerFor(ctx context.Context, userID string) (*entity.Organizer, error) {
	org, err := uc.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrForbidden
	}
	return org, nil
}
