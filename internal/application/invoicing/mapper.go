package invoicing

import (
	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
	"github.com/jhoicas/talent-invoice/internal/domain/lifecycle"
)

func toLineItemResponses(items []entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineItemResponse{
			Name:                it.Name,
			Quantity:            it.Quantity,
			UnitAmount:          it.UnitAmount,
			Category:            it.Category,
			IsTaxIncluded:       it.IsTaxIncluded,
			IsWithholdingTarget: it.IsWithholdingTarget,
			IsTaxExempt:         it.IsTaxExempt,
			Amount:              invoicecalc.SignedAmount(it),
		})
	}
	return out
}

func toAmounts(a invoicecalc.Amounts) dto.AmountsResponse {
	return dto.AmountsResponse{Subtotal: a.Subtotal, Tax: a.Tax, Withholding: a.Withholding, Total: a.Total}
}

func toInvoiceResponse(inv *entity.Invoice, oi *entity.OrganizerInvoice) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		OrganizerID:    inv.OrganizerID,
		RecipientName:  inv.RecipientName,
		RecipientEmail: inv.RecipientEmail,
		Subject:        inv.Subject,
		IssueDate:      inv.IssueDate.Format(dateLayout),
		Notes:          inv.Notes,
		TaxRate:        inv.TaxRate,
		Items:          toLineItemResponses(inv.Items),
		AmountsResponse: dto.AmountsResponse{
			Subtotal: inv.Subtotal, Tax: inv.Tax, Withholding: inv.Withholding, Total: inv.Total,
		},
		Status:        inv.Status,
		ReturnStatus:  inv.ReturnStatus,
		ReturnComment: inv.ReturnComment,
		ReturnDate:    inv.ReturnDate,
		PaymentStatus: inv.PaymentStatus,
		PaidDate:      inv.PaidDate,
		State:         string(lifecycle.Of(inv, oi)),
		Editable:      inv.IsEditable(),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dateLayout)
	}
	if oi != nil {
		out.OrganizerStatus = oi.Status
	}
	return out
}

func toOrganizerInvoiceResponse(oi *entity.OrganizerInvoice) *dto.OrganizerInvoiceResponse {
	return &dto.OrganizerInvoiceResponse{
		ID:            oi.ID,
		InvoiceID:     oi.InvoiceID,
		InvoiceNumber: oi.InvoiceNumber,
		TalentName:    oi.TalentName,
		TalentEmail:   oi.TalentEmail,
		Bank:          toBankDTO(oi.Bank),
		Items:         toLineItemResponses(oi.Items),
		AmountsResponse: dto.AmountsResponse{
			Subtotal: oi.Subtotal, Tax: oi.Tax, Withholding: oi.Withholding, Total: oi.Total,
		},
		Status:     oi.Status,
		ApprovedAt: oi.ApprovedAt,
		PaidAt:     oi.PaidAt,
		CreatedAt:  oi.CreatedAt,
		UpdatedAt:  oi.UpdatedAt,
	}
}

func toBankDTO(b entity.BankAccount) dto.BankAccountDTO {
	return dto.BankAccountDTO{
		BankName:      b.BankName,
		BranchName:    b.BranchName,
		AccountType:   b.AccountType,
		AccountNumber: b.AccountNumber,
		AccountHolder: b.AccountHolder,
	}
}

func toEventResponse(e *entity.InvoiceEvent) dto.InvoiceEventResponse {
	return dto.InvoiceEventResponse{
		ID:        e.ID,
		Action:    e.Action,
		ActorID:   e.ActorID,
		FromState: e.FromState,
		ToState:   e.ToState,
		Comment:   e.Comment,
		CreatedAt: e.CreatedAt,
	}
}
