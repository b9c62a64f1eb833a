// Package pdf genera el PDF de la factura a partir de la instantánea guardada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: 請求書 + destinatario │ N° factura + fechas          │
//	│  EMISOR: talento + email       │ organizador (si vinculada)  │
//	│  ASUNTO                                                     │
//	│  TABLA: Concepto | Cant. | P.Unit | Importe                 │
//	│  TOTALES: Subtotal / Impuesto / Retención / Total a cobrar  │
//	│  TRANSFERENCIA: banco, sucursal, tipo, número, titular      │
//	│  NOTAS                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/talent-invoice/internal/application/invoicing"
	"github.com/jhoicas/talent-invoice/internal/domain/entity"
	"github.com/jhoicas/talent-invoice/internal/domain/invoicecalc"
)

var _ invoicing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 192, Green: 57, Blue: 43}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const (
	dateLayout  = "2006-01-02"
	japanFamily = "jp"
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa invoicing.InvoicePDFGenerator usando Maroto v2.
// Con una fuente TTF japonesa usa etiquetas en japonés; sin ella, Helvetica y etiquetas en inglés.
type MarotoPDFGenerator struct {
	fontPath string
	labels   labels
}

// NewMarotoPDFGenerator construye el generador. fontPath vacío = sin fuente personalizada.
func NewMarotoPDFGenerator(fontPath string) *MarotoPDFGenerator {
	g := &MarotoPDFGenerator{fontPath: fontPath, labels: englishLabels}
	if fontPath != "" {
		g.labels = japaneseLabels
	}
	return g
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc invoicing.PDFDocument) ([]byte, error) {
	if doc.Invoice == nil {
		return nil, fmt.Errorf("pdf: factura vacía")
	}
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithTitle(doc.Invoice.InvoiceNumber, true).
		WithAuthor(doc.Issuer.DisplayName, true)

	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(japanFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(japanFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente %s: %w", g.fontPath, err)
		}
		builder = builder.
			WithCustomFonts(fonts).
			WithDefaultFont(&props.Font{Family: japanFamily, Size: 9})
	} else {
		builder = builder.WithDefaultFont(&props.Font{Family: "helvetica", Size: 9})
	}

	m := maroto.New(builder.Build())
	inv := doc.Invoice
	l := g.labels

	m.AddRows(headerRow(inv, l))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc, l))
	if inv.Subject != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(l.subject+": "+inv.Subject, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(l))
	m.AddRows(tableItemRows(inv.Items, l)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, l))

	m.AddRows(line.NewRow(3))
	m.AddRows(bankRows(doc.Issuer.Bank, l)...)
	if inv.Notes != "" {
		m.AddRows(row.New(14).Add(col.New(12).Add(
			text.New(l.notes, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1}),
			text.New(inv.Notes, props.Text{Size: 8, Top: 6}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + destinatario (izq) y número + fechas (der).
func headerRow(inv *entity.Invoice, l labels) core.Row {
	right := []core.Component{
		text.New(inv.InvoiceNumber, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
		text.New(l.issueDate+": "+inv.IssueDate.Format(dateLayout), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
	}
	if inv.DueDate != nil {
		right = append(right, text.New(l.dueDate+": "+inv.DueDate.Format(dateLayout),
			props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}))
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(l.title, props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1}),
			text.New(inv.RecipientName+" "+l.honorific, props.Text{Style: fontstyle.Bold, Size: 11, Top: 11}),
		),
		col.New(5).Add(right...),
	)
}

// partiesRow: emisor (talento) y, si la factura está vinculada, el organizador.
func partiesRow(doc invoicing.PDFDocument, l labels) core.Row {
	issuer := col.New(7).Add(
		text.New(l.issuer, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1}),
		text.New(doc.Issuer.DisplayName, props.Text{Size: 10, Top: 6}),
		text.New(doc.Issuer.Email, props.Text{Size: 8, Top: 11, Color: colorGray}),
	)
	organizer := col.New(5)
	if doc.Organizer != "" {
		organizer.Add(
			text.New(l.organizer, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorGray, Top: 1}),
			text.New(doc.Organizer, props.Text{Size: 10, Align: align.Right, Top: 6}),
		)
	}
	return row.New(18).Add(issuer, organizer)
}

func tableHeaderRow(l labels) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(l.item, 6, align.Left),
		h(l.quantity, 1, align.Center),
		h(l.unitPrice, 2, align.Right),
		h(l.amount, 3, align.Right),
	)
}

// tableItemRows: una fila por línea; el importe es el firmado (descuentos en negativo).
func tableItemRows(items []entity.LineItem, l labels) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Name
		if it.IsWithholdingTarget {
			name += " *"
		}
		if it.IsTaxIncluded {
			name += " (" + l.taxIncluded + ")"
		}
		if it.IsTaxExempt {
			name += " (" + l.taxExempt + ")"
		}
		out = append(out, row.New(7).Add(
			col.New(6).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(it.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.money(it.UnitAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(l.money(invoicecalc.SignedAmount(it)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalsRow: montos de la instantánea, nunca recalculados.
func totalsRow(inv *entity.Invoice, l labels) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(28).Add(
		col.New(6).Add(text.New("* "+l.withholdingNote, props.Text{Size: 7, Color: colorGray, Top: 2})),
		col.New(3).Add(
			label(l.subtotal, 1),
			label(l.tax+" ("+inv.TaxRate.String()+"%)", 7),
			label(l.withholding, 13),
			text.New(l.total, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 2, Top: 19, Color: colorAccent}),
		),
		col.New(3).Add(
			value(l.money(inv.Subtotal), 1),
			value(l.money(inv.Tax), 7),
			value(l.money(-inv.Withholding), 13),
			text.New(l.money(inv.Total), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 1, Top: 19, Color: colorAccent}),
		),
	)
}

func bankRows(b entity.BankAccount, l labels) []core.Row {
	if b.BankName == "" && b.AccountNumber == "" {
		return nil
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(l.bankTitle, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s  %s  %s  %s", b.BankName, b.BranchName, b.AccountType, b.AccountNumber),
				props.Text{Size: 9, Top: 1}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(l.accountHolder+": "+b.AccountHolder, props.Text{Size: 9, Top: 1}),
		)),
	}
}
