package invoicecalc

import "github.com/jhoicas/talent-invoice/internal/domain/entity"

// DefaultTemplate devuelve la línea plantilla de una categoría.
// Se aplica una sola vez al elegir la categoría; el llamador puede sobrescribir cualquier campo.
func DefaultTemplate(category string) entity.LineItem {
	item := entity.LineItem{Quantity: 1, Category: category}
	switch category {
	case entity.CategoryPerformanceFee:
		item.Name = "出演料"
		item.IsWithholdingTarget = true
	case entity.CategoryTransportation:
		item.Name = "交通費"
		item.IsTaxIncluded = true
	case entity.CategoryDiscount:
		item.Name = "値引き"
	case entity.CategoryOther:
		item.Name = "その他"
	}
	return item
}

// Templates plantillas de todas las categorías, en el orden en que se muestran.
func Templates() []entity.LineItem {
	return []entity.LineItem{
		DefaultTemplate(entity.CategoryPerformanceFee),
		DefaultTemplate(entity.CategoryTransportation),
		DefaultTemplate(entity.CategoryDiscount),
		DefaultTemplate(entity.CategoryOther),
	}
}
