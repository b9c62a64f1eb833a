package invoicecalc_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
)

var rate10 = decimal.NewFromInt(10)

func TestCalculate_LineaExclusivaSimple(t *testing.T) {
	items := []entity.LineItem{{
		Name: "出演料", Quantity: 1, UnitAmount: 10000,
		IsWithholdingTarget: true,
	}}

	got := invoicecalc.Calculate(items, rate10)

	assert.Equal(t, invoicecalc.Amounts{Subtotal: 10000, Tax: 1000, Withholding: 1021, Total: 9979}, got)
}

func TestCalculate_BaseDeRetencionConImpuestoIncluido(t *testing.T) {
	item := entity.LineItem{Quantity: 1, UnitAmount: 10000, IsTaxIncluded: true, IsWithholdingTarget: true}

	line := invoicecalc.Line(item, rate10)

	// base = floor(10000/1.1) = 9090 → floor(9090 × 0.1021) = 928
	assert.Equal(t, int64(928), line.Withholding)
	assert.Equal(t, int64(909), line.Tax)
	assert.Equal(t, int64(9091), line.Subtotal)
}

func TestCalculate_IncluidoSinArtefactosDeComaFlotante(t *testing.T) {
	item := entity.LineItem{Quantity: 1, UnitAmount: 11000, IsTaxIncluded: true}

	line := invoicecalc.Line(item, rate10)

	assert.Equal(t, int64(1000), line.Tax)
	assert.Equal(t, int64(10000), line.Subtotal)
}

func TestCalculate_DescuentoSiempreNegativo(t *testing.T) {
	item := entity.LineItem{Category: entity.CategoryDiscount, Quantity: 2, UnitAmount: 500}

	assert.Equal(t, int64(-1000), invoicecalc.SignedAmount(item))

	item.UnitAmount = -500
	assert.Equal(t, int64(-1000), invoicecalc.SignedAmount(item), "el signo ingresado no importa")

	line := invoicecalc.Line(entity.LineItem{Category: entity.CategoryDiscount, Quantity: 2, UnitAmount: 500}, rate10)
	assert.Equal(t, int64(-1000), line.Subtotal)
	assert.Equal(t, int64(-100), line.Tax)
}

func TestCalculate_DescuentoIncluidoRedondeaHaciaMenosInfinito(t *testing.T) {
	item := entity.LineItem{Category: entity.CategoryDiscount, Quantity: 1, UnitAmount: 1000, IsTaxIncluded: true}

	line := invoicecalc.Line(item, rate10)

	// -1000 - (-909.09...) = -90.90... → floor = -91 (truncar daría -90)
	assert.Equal(t, int64(-91), line.Tax)
	assert.Equal(t, int64(-909), line.Subtotal)
}

func TestCalculate_DescuentoExclusivoConRetencion(t *testing.T) {
	item := entity.LineItem{Category: entity.CategoryDiscount, Quantity: 1, UnitAmount: 333, IsWithholdingTarget: true}

	line := invoicecalc.Line(item, rate10)

	// tax = floor(-33.3) = -34; wh = floor(-33.9993) = -34
	assert.Equal(t, int64(-34), line.Tax)
	assert.Equal(t, int64(-34), line.Withholding)
}

func TestCalculate_ExentoNoAportaImpuesto(t *testing.T) {
	for _, included := range []bool{false, true} {
		item := entity.LineItem{Quantity: 3, UnitAmount: 1234, IsTaxExempt: true, IsTaxIncluded: included}

		line := invoicecalc.Line(item, rate10)

		assert.Equal(t, int64(0), line.Tax, "included=%v", included)
		assert.Equal(t, int64(3702), line.Subtotal, "included=%v", included)
	}
}

func TestCalculate_ExentoPuedeTenerRetencion(t *testing.T) {
	item := entity.LineItem{Quantity: 1, UnitAmount: 10000, IsTaxExempt: true, IsWithholdingTarget: true}

	got := invoicecalc.Calculate([]entity.LineItem{item}, rate10)

	assert.Equal(t, invoicecalc.Amounts{Subtotal: 10000, Tax: 0, Withholding: 1021, Total: 8979}, got)
}

func TestCalculate_CantidadCeroAportaCero(t *testing.T) {
	item := entity.LineItem{Quantity: 0, UnitAmount: 5000, IsTaxIncluded: true, IsWithholdingTarget: true}

	got := invoicecalc.Calculate([]entity.LineItem{item}, rate10)

	assert.Equal(t, invoicecalc.Amounts{}, got)
}

func TestCalculate_TasaComoParametro(t *testing.T) {
	item := entity.LineItem{Quantity: 1, UnitAmount: 10800, IsTaxIncluded: true, IsWithholdingTarget: true}

	got := invoicecalc.Calculate([]entity.LineItem{item}, decimal.NewFromInt(8))

	// 10800/1.08 = 10000 exacto
	assert.Equal(t, int64(800), got.Tax)
	assert.Equal(t, int64(10000), got.Subtotal)
	assert.Equal(t, int64(1021), got.Withholding)
}

func TestCalculate_IdempotenteYTotalExacto(t *testing.T) {
	items := []entity.LineItem{
		{Name: "出演料", Quantity: 2, UnitAmount: 33333, IsWithholdingTarget: true},
		{Name: "交通費", Quantity: 1, UnitAmount: 1280, IsTaxIncluded: true},
		{Name: "値引き", Category: entity.CategoryDiscount, Quantity: 1, UnitAmount: 777, IsTaxIncluded: true, IsWithholdingTarget: true},
		{Name: "書籍", Quantity: 5, UnitAmount: 99, IsTaxExempt: true},
	}

	first := invoicecalc.Calculate(items, rate10)
	second := invoicecalc.Calculate(items, rate10)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Subtotal+first.Tax-first.Withholding, first.Total)
}

func TestCalculate_ListaVacia(t *testing.T) {
	assert.Equal(t, invoicecalc.Amounts{}, invoicecalc.Calculate(nil, rate10))
}

func TestDefaultTemplate(t *testing.T) {
	fee := invoicecalc.DefaultTemplate(entity.CategoryPerformanceFee)
	assert.True(t, fee.IsWithholdingTarget)
	assert.False(t, fee.IsTaxIncluded)
	assert.Equal(t, int64(1), fee.Quantity)

	transport := invoicecalc.DefaultTemplate(entity.CategoryTransportation)
	assert.True(t, transport.IsTaxIncluded)
	assert.False(t, transport.IsWithholdingTarget)

	assert.Len(t, invoicecalc.Templates(), 4)
}

func TestWithinBounds(t *testing.T) {
	cases := []struct {
		name string
		item entity.LineItem
		ok   bool
	}{
		{"tope exacto", entity.LineItem{Quantity: 1, UnitAmount: invoicecalc.MaxLineAmount}, true},
		{"producto supera el tope", entity.LineItem{Quantity: 2, UnitAmount: invoicecalc.MaxLineAmount/2 + 1}, false},
		{"producto desbordaría int64", entity.LineItem{Quantity: 3, UnitAmount: 4_000_000_000_000_000_000}, false},
		{"descuento negativo grande", entity.LineItem{Category: entity.CategoryDiscount, Quantity: 1, UnitAmount: math.MinInt64}, false},
		{"cantidad cero", entity.LineItem{Quantity: 0, UnitAmount: math.MaxInt64}, true},
		{"línea normal", entity.LineItem{Quantity: 3, UnitAmount: 10000}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, invoicecalc.WithinBounds(tc.item))
		})
	}
}
