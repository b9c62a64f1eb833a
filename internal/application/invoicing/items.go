package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/talent-invoice/internal/application/dto"
	"github.com/jhoicas/talent-invoice/internal/domain"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
)

const dateLayout = "2006-01-02"

// resolveItem aplica la plantilla de la categoría a los campos que el llamador no envió.
func resolveItem(in dto.LineItemRequest) entity.LineItem {
	item := invoicecalc.DefaultTemplate(in.Category)
	if name := strings.TrimSpace(in.Name); name != "" {
		item.Name = name
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	item.UnitAmount = in.UnitAmount
	if in.IsTaxIncluded != nil {
		item.IsTaxIncluded = *in.IsTaxIncluded
	}
	if in.IsWithholdingTarget != nil {
		item.IsWithholdingTarget = *in.IsWithholdingTarget
	}
	if in.IsTaxExempt != nil {
		item.IsTaxExempt = *in.IsTaxExempt
	}
	return item
}

func resolveItems(in []dto.LineItemRequest) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(in))
	for _, r := range in {
		out = append(out, resolveItem(r))
	}
	return out
}

// checkBounds límites de cantidad de líneas y de monto por línea; aplica también a la vista previa.
func checkBounds(items []entity.LineItem) error {
	if len(items) > invoicecalc.MaxLines {
		return fmt.Errorf("%w: máximo %d líneas por factura", domain.ErrInvalidInput, invoicecalc.MaxLines)
	}
	for i, it := range items {
		if !invoicecalc.WithinBounds(it) {
			return fmt.Errorf("%w: línea %d supera el monto máximo de %d", domain.ErrInvalidInput, i+1, invoicecalc.MaxLineAmount)
		}
	}
	return nil
}

// validateItems reglas de guardado: al menos una línea, cantidad ≥ 1, monto ≥ 0, categoría conocida.
// El descuento puede llegar con signo negativo; el cálculo lo normaliza.
func validateItems(items []entity.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: la factura necesita al menos una línea", domain.ErrInvalidInput)
	}
	if err := checkBounds(items); err != nil {
		return err
	}
	for i, it := range items {
		switch {
		case it.Name == "":
			return fmt.Errorf("%w: línea %d sin nombre", domain.ErrInvalidInput, i+1)
		case it.Quantity < 1:
			return fmt.Errorf("%w: línea %d con cantidad menor a 1", domain.ErrInvalidInput, i+1)
		case it.UnitAmount < 0 && it.Category != entity.CategoryDiscount:
			return fmt.Errorf("%w: línea %d con monto negativo", domain.ErrInvalidInput, i+1)
		case !entity.IsValidCategory(it.Category):
			return fmt.Errorf("%w: línea %d con categoría %q desconocida", domain.ErrInvalidInput, i+1, it.Category)
		}
	}
	return nil
}

// parseDate acepta YYYY-MM-DD; vacío devuelve def.
func parseDate(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, formato esperado YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
