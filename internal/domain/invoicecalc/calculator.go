// Package invoicecalc implementa el cálculo de montos de una factura (servicio de dominio puro).
//
// Todas las divisiones se hacen con decimal exacto y se redondean con Floor (hacia -inf),
// lo que importa para líneas de descuento con monto negativo.
package invoicecalc

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
)

// DefaultTaxRatePercent tasa de consumo vigente (10%).
var DefaultTaxRatePercent = decimal.NewFromInt(10)

// WithholdingRate tasa legal de retención en la fuente (10.21%).
var WithholdingRate = decimal.RequireFromString("0.1021")

// divisionPlaces precisión de los cocientes antes del Floor.
const divisionPlaces = 20

var hundred = decimal.NewFromInt(100)

// Cotas de entrada: con ellas ninguna suma de Calculate desborda int64.
const (
	MaxLineAmount int64 = 1_000_000_000_000
	MaxLines            = 100
)

// Amounts instantánea derivada de los ítems.
type Amounts struct {
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	Withholding int64 `json:"withholding"`
	Total       int64 `json:"total"`
}

// LineAmounts aporte de una sola línea a los totales.
type LineAmounts struct {
	Signed      int64
	Subtotal    int64
	Tax         int64
	Withholding int64
}

// SignedAmount = UnitAmount × Quantity; la categoría discount siempre resta.
func SignedAmount(item entity.LineItem) int64 {
	raw := item.UnitAmount * item.Quantity
	if item.Category == entity.CategoryDiscount && raw > 0 {
		return -raw
	}
	return raw
}

// WithinBounds indica si |UnitAmount| × |Quantity| ≤ MaxLineAmount.
// Compara por división para no desbordar en la propia comprobación.
func WithinBounds(item entity.LineItem) bool {
	unit, qty := abs(item.UnitAmount), abs(item.Quantity)
	if unit < 0 || qty < 0 {
		// math.MinInt64
		return false
	}
	if unit == 0 || qty == 0 {
		return true
	}
	return unit <= MaxLineAmount && qty <= MaxLineAmount/unit
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Line calcula el aporte de una línea. No valida: cantidad 0 aporta 0.
func Line(item entity.LineItem, taxRatePercent decimal.Decimal) LineAmounts {
	signed := SignedAmount(item)
	s := decimal.NewFromInt(signed)
	out := LineAmounts{Signed: signed}

	switch {
	case item.IsTaxExempt:
		out.Subtotal = signed
	case item.IsTaxIncluded:
		embedded := s.Sub(exclusive(s, taxRatePercent)).Floor().IntPart()
		out.Tax = embedded
		if taxRatePercent.IsPositive() {
			out.Subtotal = signed - embedded
		} else {
			out.Subtotal = signed
		}
	default:
		out.Subtotal = signed
		out.Tax = s.Mul(taxRatePercent).DivRound(hundred, divisionPlaces).Floor().IntPart()
	}

	if item.IsWithholdingTarget {
		base := s
		if item.IsTaxIncluded {
			base = exclusive(s, taxRatePercent).Floor()
		}
		out.Withholding = base.Mul(WithholdingRate).Floor().IntPart()
	}
	return out
}

// Calculate agrega los aportes de todas las líneas.
// total = subtotal + tax − withholding, siempre exacto.
func Calculate(items []entity.LineItem, taxRatePercent decimal.Decimal) Amounts {
	var a Amounts
	for _, item := range items {
		l := Line(item, taxRatePercent)
		a.Subtotal += l.Subtotal
		a.Tax += l.Tax
		a.Withholding += l.Withholding
	}
	a.Total = a.Subtotal + a.Tax - a.Withholding
	return a
}

// exclusive = amount / (1 + rate/100), expresado como amount×100 / (100+rate) sin redondear a entero.
func exclusive(amount, taxRatePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred).DivRound(hundred.Add(taxRatePercent), divisionPlaces)
}
