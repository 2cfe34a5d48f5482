package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"posterm/internal/apperror"
	"posterm/internal/model"
	"posterm/internal/receipt"
)

// pdvMode is the page's input focus.
type pdvMode int

const (
	pdvScan     pdvMode = iota // typing a barcode
	pdvCart                    // navigating cart lines
	pdvDiscount                // entering a line discount
	pdvPay                     // choosing payment / received amount
)

var paymentMethods = []string{
	model.PaymentMoney, model.PaymentPix, model.PaymentDebit,
	model.PaymentCredit, model.PaymentFiado,
}

type customersLoadedMsg struct{ customers []model.Customer }

type productScannedMsg struct{ product model.Product }

type saleDoneMsg struct {
	sale        *model.Sale
	receiptPath string
}

type pdvModel struct {
	deps Deps

	mode      pdvMode
	barcode   string
	cursor    int
	discount  string
	method    int
	received  string
	customers []model.Customer
	custIdx   int // 0 = no customer, else customers[custIdx-1]
}

func newPDVModel(deps Deps) pdvModel {
	return pdvModel{deps: deps}
}

func (m pdvModel) editing() bool { return true } // the scanner owns the keyboard

func (m pdvModel) load() tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		customers, err := client.ListCustomers(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return customersLoadedMsg{customers}
	}
}

func (m pdvModel) Update(msg tea.Msg) (pdvModel, tea.Cmd) {
	switch msg := msg.(type) {
	case customersLoadedMsg:
		m.customers = msg.customers
		return m, nil

	case productScannedMsg:
		if err := m.deps.Cart.AddLine(msg.product, 1); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		m.barcode = ""
		return m, nil

	case saleDoneMsg:
		m.mode = pdvScan
		m.received = ""
		m.custIdx = 0
		note := "Venda concluída: " + money(msg.sale.TotalAmount)
		if msg.receiptPath != "" {
			note += " · cupom: " + msg.receiptPath
		}
		return m, func() tea.Msg { return statusMsg(note) }

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m pdvModel) handleKey(key string) (pdvModel, tea.Cmd) {
	switch m.mode {
	case pdvScan:
		switch key {
		case "enter":
			if m.barcode == "" {
				return m, nil
			}
			return m, m.scan(m.barcode)
		case "ctrl+k":
			if !m.deps.Cart.Empty() {
				m.mode = pdvCart
				m.cursor = 0
			}
		case "ctrl+f":
			return m.startPayment()
		case "ctrl+n":
			m.cycleCustomer()
		default:
			m.barcode = editRune(m.barcode, key)
		}

	case pdvCart:
		lines := m.deps.Cart.Lines()
		switch key {
		case "esc":
			m.mode = pdvScan
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(lines)-1 {
				m.cursor++
			}
		case "+":
			if m.cursor < len(lines) {
				l := lines[m.cursor]
				m.deps.Cart.SetQuantity(l.ProductID, l.Quantity+1)
			}
		case "-":
			if m.cursor < len(lines) {
				l := lines[m.cursor]
				m.deps.Cart.SetQuantity(l.ProductID, l.Quantity-1)
				if m.deps.Cart.Empty() {
					m.mode = pdvScan
				}
			}
		case "x", "delete":
			if m.cursor < len(lines) {
				m.deps.Cart.RemoveLine(lines[m.cursor].ProductID)
				if m.cursor > 0 {
					m.cursor--
				}
				if m.deps.Cart.Empty() {
					m.mode = pdvScan
				}
			}
		case "d":
			if m.cursor < len(lines) {
				m.mode = pdvDiscount
				m.discount = ""
			}
		case "ctrl+f":
			return m.startPayment()
		}

	case pdvDiscount:
		switch key {
		case "esc":
			m.mode = pdvCart
		case "enter":
			lines := m.deps.Cart.Lines()
			if m.cursor >= len(lines) {
				m.mode = pdvCart
				return m, nil
			}
			pct, err := parseAmount(m.discount)
			if err != nil {
				return m, func() tea.Msg { return errMsg{apperror.NewValidation("desconto inválido")} }
			}
			if err := m.deps.Cart.SetDiscountPercent(lines[m.cursor].ProductID, pct); err != nil {
				return m, func() tea.Msg { return errMsg{err} }
			}
			m.mode = pdvCart
		default:
			m.discount = editRune(m.discount, key)
		}

	case pdvPay:
		switch key {
		case "esc":
			m.mode = pdvScan
		case "left", "up":
			m.method = (m.method - 1 + len(paymentMethods)) % len(paymentMethods)
		case "right", "down", "tab":
			m.method = (m.method + 1) % len(paymentMethods)
		case "enter":
			return m, m.finalize()
		default:
			if paymentMethods[m.method] == model.PaymentMoney {
				m.received = editRune(m.received, key)
			}
		}
	}
	return m, nil
}

func (m *pdvModel) startPayment() (pdvModel, tea.Cmd) {
	if m.deps.Cart.Empty() {
		return *m, func() tea.Msg { return errMsg{apperror.NewValidation("carrinho vazio")} }
	}
	m.mode = pdvPay
	m.method = 0
	m.received = m.deps.Cart.Total().StringFixed(2)
	return *m, nil
}

// cycleCustomer walks the loaded customers; slot 0 is "no customer".
func (m *pdvModel) cycleCustomer() {
	m.custIdx = (m.custIdx + 1) % (len(m.customers) + 1)
	if m.custIdx == 0 {
		m.deps.Cart.SetCustomer(nil)
	} else {
		cust := m.customers[m.custIdx-1]
		m.deps.Cart.SetCustomer(&cust)
	}
}

func (m pdvModel) scan(code string) tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		p, err := client.ProductByBarcode(context.Background(), code)
		if err != nil {
			return errMsg{err}
		}
		return productScannedMsg{*p}
	}
}

// finalize submits the cart, refreshes the till ledger and prints the
// ticket. Receipt and refresh failures do not undo a completed sale — the
// sale result wins, failures are logged.
func (m pdvModel) finalize() tea.Cmd {
	deps := m.deps
	method := paymentMethods[m.method]
	receivedStr := m.received
	return func() tea.Msg {
		ctx := context.Background()

		received := decimal.Zero
		if method == model.PaymentMoney {
			var err error
			received, err = parseAmount(receivedStr)
			if err != nil {
				return errMsg{apperror.NewValidation("valor recebido inválido")}
			}
			if received.LessThan(deps.Cart.Total()) {
				return errMsg{apperror.NewValidation("valor recebido menor que o total")}
			}
		}
		change := deps.Cart.Change(method, received)

		sale, err := deps.Cart.Finalize(ctx, method)
		if err != nil {
			return errMsg{err}
		}
		if err := deps.Till.Refresh(ctx); err != nil {
			deps.Log.Warn().Err(err).Msg("till refresh after sale")
		}
		path, err := receipt.Generate(sale, change, deps.ReceiptPath)
		if err != nil {
			deps.Log.Warn().Err(err).Msg("receipt generation")
			path = ""
		}
		return saleDoneMsg{sale: sale, receiptPath: path}
	}
}

func (m pdvModel) View() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Código de barras: "))
	b.WriteString(m.barcode)
	if m.mode == pdvScan {
		b.WriteString(cursorStyle.Render(" "))
	}
	b.WriteString("\n")

	if cust := m.deps.Cart.Customer(); cust != nil {
		b.WriteString(labelStyle.Render("Cliente: ") + cust.Name + "\n")
	} else {
		b.WriteString(labelStyle.Render("Cliente: ") + "consumidor final\n")
	}
	b.WriteString("\n")

	lines := m.deps.Cart.Lines()
	if len(lines) == 0 {
		b.WriteString(labelStyle.Render("Carrinho vazio — escaneie um produto.") + "\n")
	} else {
		b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-24s %5s %10s %6s %12s", "Produto", "Qtd", "Unit.", "Desc", "Subtotal")) + "\n")
		for i, l := range lines {
			row := fmt.Sprintf("%-24s %5d %10s %5s%% %12s",
				truncate(l.Name, 24), l.Quantity, l.UnitPrice.StringFixed(2),
				l.DiscountPercent.StringFixed(0), l.Subtotal().StringFixed(2))
			if m.mode != pdvScan && i == m.cursor {
				row = selectedStyle.Render(row)
			}
			b.WriteString(row + "\n")
		}
	}
	b.WriteString("\n" + valueStyle.Render("Total: "+money(m.deps.Cart.Total())) + "\n")

	switch m.mode {
	case pdvDiscount:
		b.WriteString("\nDesconto %: " + m.discount + cursorStyle.Render(" ") + "\n")
	case pdvPay:
		b.WriteString("\n" + labelStyle.Render("Pagamento: "))
		for i, method := range paymentMethods {
			label := receipt.PaymentLabel(method)
			if i == m.method {
				label = selectedStyle.Render("[" + label + "]")
			}
			b.WriteString(label + " ")
		}
		b.WriteString("\n")
		if paymentMethods[m.method] == model.PaymentMoney {
			b.WriteString("Recebido: " + m.received + cursorStyle.Render(" ") + "\n")
		}
		b.WriteString(helpStyle.Render("enter confirmar · esc cancelar"))
	default:
		b.WriteString("\n" + helpStyle.Render("enter buscar · ctrl+k carrinho · ctrl+n cliente · ctrl+f finalizar"))
		if m.mode == pdvCart {
			b.WriteString("\n" + helpStyle.Render("+/- quantidade · d desconto · x remover · esc voltar"))
		}
	}
	return b.String()
}
