// Package lifecycle modela el ciclo de vida del par Invoice ↔ OrganizerInvoice como un único estado
// explícito. Las funciones de transición solo aceptan los bordes válidos y mutan ambos registros
// juntos; la persistencia de los dos cambios es responsabilidad del llamador (una sola transacción).
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
)

// State posición de la factura en su ciclo de vida.
type State string

const (
	StateDraft            State = "draft"             // sin organizador, editable
	StateSent             State = "sent"              // sin organizador, marcada como enviada
	StateAwaitingApproval State = "awaiting_approval" // vinculada, pendiente de revisión
	StateApproved         State = "approved"
	StateReturned         State = "returned"
	StateResubmitted      State = "resubmitted"
	StatePaid             State = "paid"
)

// Of deriva el estado a partir de los campos persistidos. oi es nil para facturas sin organizador.
func Of(inv *entity.Invoice, oi *entity.OrganizerInvoice) State {
	if oi == nil {
		switch {
		case inv.Status == entity.InvoiceStatusPaid:
			return StatePaid
		case inv.Status == entity.InvoiceStatusSent:
			return StateSent
		default:
			return StateDraft
		}
	}
	switch oi.Status {
	case entity.OrganizerInvoiceStatusPaid:
		return StatePaid
	case entity.OrganizerInvoiceStatusApproved:
		return StateApproved
	case entity.OrganizerInvoiceStatusReturned:
		return StateReturned
	default:
		if inv.ReturnStatus == entity.ReturnStatusResubmitted {
			return StateResubmitted
		}
		return StateAwaitingApproval
	}
}

// IsTerminal el estado ya no admite transiciones del organizador.
func (s State) IsTerminal() bool {
	return s == StatePaid
}

// CanApprove solo desde pendiente y nunca con una devolución abierta.
func CanApprove(inv *entity.Invoice, oi *entity.OrganizerInvoice) bool {
	if oi == nil || inv.ReturnStatus == entity.ReturnStatusReturned {
		return false
	}
	return oi.Status == entity.OrganizerInvoiceStatusPending
}

// Approve pasa la factura del organizador a approved. La Invoice no cambia.
func Approve(inv *entity.Invoice, oi *entity.OrganizerInvoice, now time.Time) error {
	if !CanApprove(inv, oi) {
		return invalid("approve", inv, oi)
	}
	oi.Status = entity.OrganizerInvoiceStatusApproved
	oi.ApprovedAt = &now
	oi.UpdatedAt = now
	return nil
}

// MarkPaid desde approved: ambos lados quedan pagados.
func MarkPaid(inv *entity.Invoice, oi *entity.OrganizerInvoice, now time.Time) error {
	if oi == nil || oi.Status != entity.OrganizerInvoiceStatusApproved {
		return invalid("pay", inv, oi)
	}
	oi.Status = entity.OrganizerInvoiceStatusPaid
	oi.PaidAt = &now
	oi.UpdatedAt = now
	markInvoicePaid(inv, now)
	return nil
}

// Return devuelve la factura al talento para corrección. Requiere comentario y estado pendiente.
func Return(inv *entity.Invoice, oi *entity.OrganizerInvoice, comment, returnedBy string, now time.Time) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return domain.ErrReturnCommentRequired
	}
	if oi == nil || oi.Status != entity.OrganizerInvoiceStatusPending {
		return invalid("return", inv, oi)
	}
	inv.ReturnStatus = entity.ReturnStatusReturned
	inv.ReturnComment = comment
	inv.ReturnDate = &now
	inv.ReturnedBy = returnedBy
	inv.Status = entity.InvoiceStatusDraft
	inv.UpdatedAt = now
	oi.Status = entity.OrganizerInvoiceStatusReturned
	oi.UpdatedAt = now
	return nil
}

// Edit aplica nuevos ítems y la instantánea recalculada.
// Devuelve la acción registrada: EventUpdated (sin organizador) o EventResubmitted (tras devolución).
func Edit(inv *entity.Invoice, oi *entity.OrganizerInvoice, items []entity.LineItem, amounts invoicecalc.Amounts, now time.Time) (string, error) {
	if !inv.IsEditable() {
		return "", domain.ErrInvoiceLocked
	}
	applySnapshot(inv, items, amounts)
	inv.UpdatedAt = now
	if inv.ReturnStatus != entity.ReturnStatusReturned {
		return entity.EventUpdated, nil
	}

	inv.ReturnStatus = entity.ReturnStatusResubmitted
	inv.Status = entity.InvoiceStatusSent
	inv.ReturnComment = ""
	inv.ReturnDate = nil
	inv.ReturnedBy = ""
	if oi != nil {
		oi.CopySnapshot(inv)
		oi.Status = entity.OrganizerInvoiceStatusPending
		oi.ApprovedAt = nil
		oi.UpdatedAt = now
	}
	return entity.EventResubmitted, nil
}

// MarkSent marca como enviada una factura sin organizador (campo informativo).
func MarkSent(inv *entity.Invoice, now time.Time) error {
	if inv.IsLinked() || inv.Status != entity.InvoiceStatusDraft {
		return invalid("mark_sent", inv, nil)
	}
	inv.Status = entity.InvoiceStatusSent
	inv.UpdatedAt = now
	return nil
}

// MarkPaidByTalent registra el cobro de una factura sin organizador.
func MarkPaidByTalent(inv *entity.Invoice, now time.Time) error {
	if inv.IsLinked() || inv.PaymentStatus == entity.PaymentStatusPaid {
		return invalid("mark_paid", inv, nil)
	}
	markInvoicePaid(inv, now)
	return nil
}

// CanDelete: sin organizador siempre; vinculada solo si la revisión terminó (returned o paid).
// En ese caso el llamador borra ambos registros juntos.
func CanDelete(inv *entity.Invoice, oi *entity.OrganizerInvoice) bool {
	if oi == nil {
		return true
	}
	return oi.Status == entity.OrganizerInvoiceStatusReturned || oi.Status == entity.OrganizerInvoiceStatusPaid
}

func markInvoicePaid(inv *entity.Invoice, now time.Time) {
	inv.Status = entity.InvoiceStatusPaid
	inv.PaymentStatus = entity.PaymentStatusPaid
	inv.PaidDate = &now
	inv.UpdatedAt = now
}

func applySnapshot(inv *entity.Invoice, items []entity.LineItem, a invoicecalc.Amounts) {
	inv.Items = items
	inv.Subtotal = a.Subtotal
	inv.Tax = a.Tax
	inv.Withholding = a.Withholding
	inv.Total = a.Total
}

func invalid(action string, inv *entity.Invoice, oi *entity.OrganizerInvoice) error {
	return fmt.Errorf("%w: %s desde %s", domain.ErrInvalidTransition, action, Of(inv, oi))
}
