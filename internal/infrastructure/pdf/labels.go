package pdf

type labels struct {
	title, honorific, issueDate, dueDate    string
	issuer, organizer, subject, notes       string
	item, quantity, unitPrice, amount       string
	taxIncluded, taxExempt, withholdingNote string
	subtotal, tax, withholding, total       string
	bankTitle, accountHolder                string
	currency                                string
}

var japaneseLabels = labels{
	title: "請求書", honorific: "御中", issueDate: "発行日", dueDate: "お支払期限",
	issuer: "請求元", organizer: "主催者", subject: "件名", notes: "備考",
	item: "品目", quantity: "数量", unitPrice: "単価", amount: "金額",
	taxIncluded: "税込", taxExempt: "非課税", withholdingNote: "源泉徴収対象",
	subtotal: "小計", tax: "消費税", withholding: "源泉徴収税", total: "ご請求金額",
	bankTitle: "お振込先", accountHolder: "口座名義",
	currency: "¥",
}

var englishLabels = labels{
	title: "INVOICE", honorific: "", issueDate: "Issued", dueDate: "Due",
	issuer: "From", organizer: "Organizer", subject: "Subject", notes: "Notes",
	item: "Item", quantity: "Qty", unitPrice: "Unit price", amount: "Amount",
	taxIncluded: "tax incl.", taxExempt: "tax exempt", withholdingNote: "subject to withholding tax",
	subtotal: "Subtotal", tax: "Consumption tax", withholding: "Withholding tax", total: "Amount due",
	bankTitle: "Bank transfer", accountHolder: "Account holder",
	currency: "JPY ",
}

// money formatea yenes con separador de miles: 1234567 → ¥1,234,567, -500 → -¥500.
func (l labels) money(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + l.currency + groupThousands(v)
}

func groupThousands(v int64) string {
	s := make([]byte, 0, 24)
	digits := []byte{}
	for {
		digits = append(digits, byte('0'+v%10))
		v /= 10
		if v == 0 {
			break
		}
	}
	for i := len(digits) - 1; i >= 0; i-- {
		s = append(s, digits[i])
		if i > 0 && i%3 == 0 {
			s = append(s, ',')
		}
	}
	return string(s)
}
