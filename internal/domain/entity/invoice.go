package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura del lado talento.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Canal lateral de devolución iniciado por el organizador.
const (
	ReturnStatusNone        = ""
	ReturnStatusReturned    = "returned"
	ReturnStatusResubmitted = "resubmitted"
)

// Estado de cobro.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Invoice representa una factura emitida por un talento.
// Subtotal, Tax, Withholding y Total son una instantánea derivada de Items.
type Invoice struct {
	ID             string
	InvoiceNumber  string // INV-YYYYMM-####
	TalentID       string
	OrganizerID    string // vacío = sin organizador vinculado
	RecipientName  string
	RecipientEmail string
	Subject        string
	IssueDate      time.Time
	DueDate        *time.Time
	Notes          string
	TaxRate        decimal.Decimal // porcentaje usado en el cálculo (ej. 10)
	Items          []LineItem
	Subtotal       int64
	Tax            int64
	Withholding    int64
	Total          int64
	Status         string
	ReturnStatus   string
	ReturnComment  string
	ReturnDate     *time.Time
	ReturnedBy     string
	PaymentStatus  string
	PaidDate       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLinked informa si la factura pasa por el flujo de aprobación de un organizador.
func (i *Invoice) IsLinked() bool {
	return i.OrganizerID != ""
}

// IsEditable: las facturas sin organizador siempre son editables; las vinculadas solo tras una devolución.
func (i *Invoice) IsEditable() bool {
	return !i.IsLinked() || i.ReturnStatus == ReturnStatusReturned
}

// FormatInvoiceNumber arma el número INV-YYYYMM-#### con el sufijo aleatorio (0..9999) rellenado con ceros.
func FormatInvoiceNumber(t time.Time, suffix int) string {
	return fmt.Sprintf("INV-%s-%04d", t.Format("200601"), suffix%10000)
}
