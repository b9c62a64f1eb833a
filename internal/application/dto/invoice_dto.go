package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea enviada por el talento.
// Los campos nil toman el valor de la plantilla de la categoría; Quantity nil vale 1.
type LineItemRequest struct {
	Name                string `json:"name"`
	Quantity            *int64 `json:"quantity,omitempty"`
	UnitAmount          int64  `json:"unit_amount"`
	Category            string `json:"category,omitempty"`
	IsTaxIncluded       *bool  `json:"is_tax_included,omitempty"`
	IsWithholdingTarget *bool  `json:"is_withholding_target,omitempty"`
	IsTaxExempt         *bool  `json:"is_tax_exempt,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// OrganizerCode opcional: si viene, la factura entra al flujo de aprobación del organizador.
type CreateInvoiceRequest struct {
	RecipientName  string            `json:"recipient_name"`
	RecipientEmail string            `json:"recipient_email,omitempty"`
	Subject        string            `json:"subject,omitempty"`
	IssueDate      string            `json:"issue_date,omitempty"` // YYYY-MM-DD; vacío = hoy
	DueDate        string            `json:"due_date,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	OrganizerCode  string            `json:"organizer_code,omitempty"`
	Items          []LineItemRequest `json:"items"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. El vínculo con el organizador no cambia.
type UpdateInvoiceRequest struct {
	RecipientName  string            `json:"recipient_name"`
	RecipientEmail string            `json:"recipient_email,omitempty"`
	Subject        string            `json:"subject,omitempty"`
	IssueDate      string            `json:"issue_date,omitempty"`
	DueDate        string            `json:"due_date,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Items          []LineItemRequest `json:"items"`
}

// PreviewRequest body para POST /api/invoices/preview (sin persistencia ni validación).
type PreviewRequest struct {
	Items []LineItemRequest `json:"items"`
}

// AmountsResponse instantánea de montos.
type AmountsResponse struct {
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	Withholding int64 `json:"withholding"`
	Total       int64 `json:"total"`
}

// LineItemResponse línea resuelta con su monto con signo.
type LineItemResponse struct {
	Name                string `json:"name"`
	Quantity            int64  `json:"quantity"`
	UnitAmount          int64  `json:"unit_amount"`
	Category            string `json:"category,omitempty"`
	IsTaxIncluded       bool   `json:"is_tax_included"`
	IsWithholdingTarget bool   `json:"is_withholding_target"`
	IsTaxExempt         bool   `json:"is_tax_exempt"`
	Amount              int64  `json:"amount"`
}

// PreviewResponse resultado del cálculo.
type PreviewResponse struct {
	TaxRate decimal.Decimal    `json:"tax_rate"`
	Items   []LineItemResponse `json:"items"`
	AmountsResponse
}

// InvoiceResponse factura del talento.
type InvoiceResponse struct {
	ID              string             `json:"id"`
	InvoiceNumber   string             `json:"invoice_number"`
	OrganizerID     string             `json:"organizer_id,omitempty"`
	OrganizerStatus string             `json:"organizer_status,omitempty"`
	RecipientName   string             `json:"recipient_name"`
	RecipientEmail  string             `json:"recipient_email,omitempty"`
	Subject         string             `json:"subject,omitempty"`
	IssueDate       string             `json:"issue_date"`
	DueDate         string             `json:"due_date,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	TaxRate         decimal.Decimal    `json:"tax_rate"`
	Items           []LineItemResponse `json:"items"`
	AmountsResponse
	Status        string     `json:"status"`
	ReturnStatus  string     `json:"return_status,omitempty"`
	ReturnComment string     `json:"return_comment,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	PaymentStatus string     `json:"payment_status"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	State         string     `json:"state"`
	Editable      bool       `json:"editable"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceEventResponse entrada del historial.
type InvoiceEventResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	FromState string    `json:"from_state,omitempty"`
	ToState   string    `json:"to_state"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
