package entity

// Categorías de línea. Cada una aporta valores por defecto de impuesto y retención.
const (
	CategoryPerformanceFee = "performance_fee"
	CategoryTransportation = "transportation"
	CategoryDiscount       = "discount"
	CategoryOther          = "other"
)

// LineItem representa una línea facturable dentro de una factura (montos en yenes, sin decimales).
type LineItem struct {
	Name                string `json:"name"`
	Quantity            int64  `json:"quantity"`
	UnitAmount          int64  `json:"unit_amount"`
	Category            string `json:"category,omitempty"`
	IsTaxIncluded       bool   `json:"is_tax_included"`
	IsWithholdingTarget bool   `json:"is_withholding_target"`
	IsTaxExempt         bool   `json:"is_tax_exempt"`
}

// IsValidCategory informa si la categoría es vacía o una de las conocidas.
func IsValidCategory(c string) bool {
	switch c {
	case "", CategoryPerformanceFee, CategoryTransportation, CategoryDiscount, CategoryOther:
		return true
	}
	return false
}
