package dto

import "time"

// BankAccountDTO datos bancarios.
type BankAccountDTO struct {
	BankName      string `json:"bank_name"`
	BranchName    string `json:"branch_name"`
	AccountType   string `json:"account_type"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

// OrganizerResponse datos del organizador autenticado (incluye su código).
type OrganizerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	OrganizerCode string    `json:"organizer_code"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VerifyOrganizerResponse lo que ve el talento al verificar un código.
type VerifyOrganizerResponse struct {
	OrganizerID   string `json:"organizer_id"`
	Name          string `json:"name"`
	OrganizerCode string `json:"organizer_code"`
}

// OrganizerInvoiceResponse factura vista por el organizador.
type OrganizerInvoiceResponse struct {
	ID            string             `json:"id"`
	InvoiceID     string             `json:"invoice_id"`
	InvoiceNumber string             `json:"invoice_number"`
	TalentName    string             `json:"talent_name"`
	TalentEmail   string             `json:"talent_email"`
	Bank          BankAccountDTO     `json:"bank"`
	Items         []LineItemResponse `json:"items"`
	AmountsResponse
	Status        string     `json:"status"`
	ReturnComment string     `json:"return_comment,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OrganizerInvoiceListResponse listado paginado.
type OrganizerInvoiceListResponse struct {
	Items []OrganizerInvoiceResponse `json:"items"`
	Page  PageResponse               `json:"page"`
}

// ReturnInvoiceRequest body para POST /api/organizer/invoices/:id/return.
type ReturnInvoiceRequest struct {
	Comment string `json:"comment"`
}
