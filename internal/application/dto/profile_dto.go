package dto

import "time"

// ProfileResponse perfil del talento.
type ProfileResponse struct {
	UserID             string         `json:"user_id"`
	DisplayName        string         `json:"display_name"`
	Email              string         `json:"email"`
	Bank               BankAccountDTO `json:"bank"`
	SubscriptionStatus string         `json:"subscription_status"`
	InvoiceCount       int            `json:"invoice_count"`
	TrialEndDate       time.Time      `json:"trial_end_date"`
}

// UpdateProfileRequest body para PUT /api/profile.
type UpdateProfileRequest struct {
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Bank        BankAccountDTO `json:"bank"`
}

// SubscriptionLimitsResponse resultado de la verificación del plan.
type SubscriptionLimitsResponse struct {
	SubscriptionStatus string     `json:"subscription_status"`
	CanCreate          bool       `json:"can_create"`
	Unlimited          bool       `json:"unlimited"`
	Remaining          int        `json:"remaining"`
	Reason             string     `json:"reason,omitempty"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
}

// BillingEventResponse acuse del webhook.
type BillingEventResponse struct {
	Received bool   `json:"received"`
	Applied  bool   `json:"applied"`
	Status   string `json:"status,omitempty"`
}
