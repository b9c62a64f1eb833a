package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
	"github.com/jhoicas/talent-invoice/internal/domain/lifecycle"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func linkedPair() (*entity.Invoice, *entity.OrganizerInvoice) {
	inv := &entity.Invoice{
		ID: "inv-1", OrganizerID: "org-1",
		Status: entity.InvoiceStatusDraft, PaymentStatus: entity.PaymentStatusUnpaid,
		Subtotal: 10000, Tax: 1000, Withholding: 1021, Total: 9979,
	}
	oi := &entity.OrganizerInvoice{ID: "oi-1", InvoiceID: "inv-1", OrganizerID: "org-1", Status: entity.OrganizerInvoiceStatusPending}
	return inv, oi
}

func TestOf_EstadosAlcanzables(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}
	assert.Equal(t, lifecycle.StateDraft, lifecycle.Of(inv, nil))

	inv.Status = entity.InvoiceStatusSent
	assert.Equal(t, lifecycle.StateSent, lifecycle.Of(inv, nil))

	linked, oi := linkedPair()
	assert.Equal(t, lifecycle.StateAwaitingApproval, lifecycle.Of(linked, oi))

	linked.ReturnStatus = entity.ReturnStatusResubmitted
	assert.Equal(t, lifecycle.StateResubmitted, lifecycle.Of(linked, oi))

	oi.Status = entity.OrganizerInvoiceStatusApproved
	assert.Equal(t, lifecycle.StateApproved, lifecycle.Of(linked, oi))

	oi.Status = entity.OrganizerInvoiceStatusReturned
	assert.Equal(t, lifecycle.StateReturned, lifecycle.Of(linked, oi))

	oi.Status = entity.OrganizerInvoiceStatusPaid
	assert.Equal(t, lifecycle.StatePaid, lifecycle.Of(linked, oi))
	assert.True(t, lifecycle.StatePaid.IsTerminal())
}

func TestApproveLuegoPagar(t *testing.T) {
	inv, oi := linkedPair()

	require.NoError(t, lifecycle.Approve(inv, oi, now))
	assert.Equal(t, entity.OrganizerInvoiceStatusApproved, oi.Status)
	require.NotNil(t, oi.ApprovedAt)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status, "aprobar no toca la factura del talento")
	assert.Nil(t, inv.PaidDate)

	later := now.Add(time.Hour)
	require.NoError(t, lifecycle.MarkPaid(inv, oi, later))
	assert.Equal(t, entity.OrganizerInvoiceStatusPaid, oi.Status)
	assert.Equal(t, later, *oi.PaidAt)
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, entity.PaymentStatusPaid, inv.PaymentStatus)
	assert.Equal(t, later, *inv.PaidDate)
}

func TestMarkPaid_SoloDesdeAprobada(t *testing.T) {
	inv, oi := linkedPair()

	err := lifecycle.MarkPaid(inv, oi, now)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrganizerInvoiceStatusPending, oi.Status)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
}

func TestApprove_RechazadoConDevolucionAbierta(t *testing.T) {
	inv, oi := linkedPair()
	inv.ReturnStatus = entity.ReturnStatusReturned

	assert.False(t, lifecycle.CanApprove(inv, oi))
	assert.ErrorIs(t, lifecycle.Approve(inv, oi, now), domain.ErrInvalidTransition)
}

func TestApprove_SinOrganizador(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}
	assert.ErrorIs(t, lifecycle.Approve(inv, nil, now), domain.ErrInvalidTransition)
}

func TestReturn_RequiereComentario(t *testing.T) {
	inv, oi := linkedPair()

	err := lifecycle.Return(inv, oi, "   ", "user-org", now)

	assert.ErrorIs(t, err, domain.ErrReturnCommentRequired)
	assert.Equal(t, entity.OrganizerInvoiceStatusPending, oi.Status)
}

func TestReturn_SoloDesdePendiente(t *testing.T) {
	inv, oi := linkedPair()
	require.NoError(t, lifecycle.Approve(inv, oi, now))

	err := lifecycle.Return(inv, oi, "fix amount", "user-org", now)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCicloDevolucionYReenvio(t *testing.T) {
	inv, oi := linkedPair()
	assert.False(t, inv.IsEditable(), "vinculada y sin devolución: bloqueada")

	require.NoError(t, lifecycle.Return(inv, oi, "fix amount", "user-org", now))
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, entity.ReturnStatusReturned, inv.ReturnStatus)
	assert.Equal(t, "fix amount", inv.ReturnComment)
	assert.Equal(t, "user-org", inv.ReturnedBy)
	assert.Equal(t, entity.OrganizerInvoiceStatusReturned, oi.Status)
	assert.True(t, inv.IsEditable())

	items := []entity.LineItem{{Name: "出演料", Quantity: 1, UnitAmount: 20000, IsWithholdingTarget: true}}
	amounts := invoicecalc.Calculate(items, invoicecalc.DefaultTaxRatePercent)
	action, err := lifecycle.Edit(inv, oi, items, amounts, now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, entity.EventResubmitted, action)
	assert.Equal(t, entity.InvoiceStatusSent, inv.Status)
	assert.Equal(t, entity.ReturnStatusResubmitted, inv.ReturnStatus)
	assert.Empty(t, inv.ReturnComment)
	assert.Nil(t, inv.ReturnDate)
	assert.Equal(t, entity.OrganizerInvoiceStatusPending, oi.Status)
	assert.Equal(t, amounts.Total, inv.Total)
	assert.Equal(t, inv.Total, oi.Total)
	assert.Equal(t, inv.Withholding, oi.Withholding)
	assert.Equal(t, inv.Items, oi.Items)
	assert.Equal(t, lifecycle.StateResubmitted, lifecycle.Of(inv, oi))

	require.NoError(t, lifecycle.Approve(inv, oi, now), "la reenviada vuelve a ser aprobable")
}

func TestEdit_VinculadaSinDevolucionBloqueada(t *testing.T) {
	inv, oi := linkedPair()

	_, err := lifecycle.Edit(inv, oi, nil, invoicecalc.Amounts{}, now)

	assert.ErrorIs(t, err, domain.ErrInvoiceLocked)
	assert.Equal(t, int64(9979), inv.Total)
}

func TestEdit_SinOrganizadorNoCambiaEstado(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusSent}
	items := []entity.LineItem{{Name: "x", Quantity: 1, UnitAmount: 1000}}

	action, err := lifecycle.Edit(inv, nil, items, invoicecalc.Calculate(items, invoicecalc.DefaultTaxRatePercent), now)

	require.NoError(t, err)
	assert.Equal(t, entity.EventUpdated, action)
	assert.Equal(t, entity.InvoiceStatusSent, inv.Status)
	assert.Equal(t, int64(1100), inv.Total)
}

func TestMarcasDelTalentoSoloSinOrganizador(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft, PaymentStatus: entity.PaymentStatusUnpaid}
	require.NoError(t, lifecycle.MarkSent(inv, now))
	assert.Equal(t, entity.InvoiceStatusSent, inv.Status)
	require.NoError(t, lifecycle.MarkPaidByTalent(inv, now))
	assert.Equal(t, entity.PaymentStatusPaid, inv.PaymentStatus)
	assert.ErrorIs(t, lifecycle.MarkPaidByTalent(inv, now), domain.ErrInvalidTransition)

	linked, _ := linkedPair()
	assert.ErrorIs(t, lifecycle.MarkSent(linked, now), domain.ErrInvalidTransition)
	assert.ErrorIs(t, lifecycle.MarkPaidByTalent(linked, now), domain.ErrInvalidTransition)
}

func TestCanDelete(t *testing.T) {
	assert.True(t, lifecycle.CanDelete(&entity.Invoice{}, nil))

	inv, oi := linkedPair()
	assert.False(t, lifecycle.CanDelete(inv, oi))
	oi.Status = entity.OrganizerInvoiceStatusApproved
	assert.False(t, lifecycle.CanDelete(inv, oi))
	oi.Status = entity.OrganizerInvoiceStatusReturned
	assert.True(t, lifecycle.CanDelete(inv, oi))
	oi.Status = entity.OrganizerInvoiceStatusPaid
	assert.True(t, lifecycle.CanDelete(inv, oi))
}
