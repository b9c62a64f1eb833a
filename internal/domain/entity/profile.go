package entity

import "time"

// Estados de suscripción que mantiene el webhook de cobro.
const (
	SubscriptionFree      = "free"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionInactive  = "inactive"
)

// Tipos de cuenta bancaria.
const (
	AccountTypeOrdinary = "普通"
	AccountTypeChecking = "当座"
)

// BankAccount datos bancarios del talento (se copian en la factura del organizador).
type BankAccount struct {
	BankName      string `json:"bank_name"`
	BranchName    string `json:"branch_name"`
	AccountType   string `json:"account_type"` // 普通 | 当座
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

// Profile perfil del talento: datos de facturación y estado del plan.
type Profile struct {
	UserID             string
	DisplayName        string
	Email              string
	Bank               BankAccount
	SubscriptionStatus string
	StripeCustomerID   string
	InvoiceCount       int
	TrialEndDate       time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
