package entity

import "time"

// Acciones registradas en el historial de una factura.
const (
	EventCreated     = "created"
	EventUpdated     = "updated"
	EventMarkedSent  = "marked_sent"
	EventMarkedPaid  = "marked_paid"
	EventApproved    = "approved"
	EventPaid        = "paid"
	EventReturned    = "returned"
	EventResubmitted = "resubmitted"
	EventDeleted     = "deleted"
)

// InvoiceEvent entrada inmutable del historial; se escribe en la misma transacción que la transición.
type InvoiceEvent struct {
	ID                 string
	InvoiceID          string
	OrganizerInvoiceID string
	Action             string
	ActorID            string
	FromState          string
	ToState            string
	Comment            string
	CreatedAt          time.Time
}
