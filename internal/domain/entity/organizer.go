package entity

import "time"

// Estados de la factura del lado organizador (flujo de aprobación).
const (
	OrganizerInvoiceStatusPending  = "pending"
	OrganizerInvoiceStatusApproved = "approved"
	OrganizerInvoiceStatusPaid     = "paid"
	OrganizerInvoiceStatusReturned = "returned"
)

// Organizer es la contraparte que recibe y aprueba facturas.
// OrganizerCode es el secreto compartido que permite al talento vincular facturas sin invitación.
type Organizer struct {
	ID            string
	UserID        string
	Name          string
	Email         string
	OrganizerCode string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrganizerInvoice es el espejo de una Invoice visto por el organizador.
// Los datos del talento se copian al crearla y no siguen cambios posteriores del perfil.
type OrganizerInvoice struct {
	ID            string
	OrganizerID   string
	InvoiceID     string
	InvoiceNumber string
	TalentID      string
	TalentName    string
	TalentEmail   string
	Bank          BankAccount
	Items         []LineItem
	Subtotal      int64
	Tax           int64
	Withholding   int64
	Total         int64
	Status        string
	ApprovedAt    *time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CopySnapshot copia los montos e ítems de la factura origen.
func (o *OrganizerInvoice) CopySnapshot(inv *Invoice) {
	o.InvoiceNumber = inv.InvoiceNumber
	o.Items = append([]LineItem(nil), inv.Items...)
	o.Subtotal = inv.Subtotal
	o.Tax = inv.Tax
	o.Withholding = inv.Withholding
	o.Total = inv.Total
}
