// Package receipt renders a completed sale as a thermal-style PDF ticket:
// business header, item table, discount column, bold total, payment method
// and change line. Files land in the configured receipt directory.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"posterm/internal/model"
)

var paymentLabels = map[string]string{
	model.PaymentMoney:  "Dinheiro",
	model.PaymentPix:    "Pix",
	model.PaymentDebit:  "Débito",
	model.PaymentCredit: "Crédito",
	model.PaymentFiado:  "Fiado",
}

// PaymentLabel returns the printable name for a payment method.
func PaymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

// Generate writes the PDF ticket for a sale and returns the absolute path.
// storagePath is created if needed.
func Generate(sale *model.Sale, change decimal.Decimal, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("receipt: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("sale_%s.pdf", sale.ID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "POSTerm", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Cupom não fiscal", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Venda "+shortID(sale.ID.String()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if sale.CustomerName != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+sale.CustomerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	discountTotal := decimal.Zero
	for _, item := range sale.Items {
		name := item.Name
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		gross := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		discount := gross.Mul(item.Discount).Div(decimal.NewFromInt(100))
		discountTotal = discountTotal.Add(discount)

		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$"+gross.Sub(discount).StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	if !discountTotal.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$"+discountTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$"+sale.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pagamento ("+PaymentLabel(sale.PaymentMethod)+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "R$"+sale.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	if sale.PaymentMethod == model.PaymentMoney && change.IsPositive() {
		pdf.CellFormat(col1+col2, 4, "Troco:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$"+change.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("receipt: write file: %w", err)
	}
	return filePath, nil
}

// shortID keeps tickets readable: first UUID group only.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
