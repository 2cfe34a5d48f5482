package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"posterm/internal/api"
	"posterm/internal/model"
)

type salesListMsg struct{ sales []model.Sale }
type saleCancelledMsg struct{ id string }

type salesModel struct {
	client *api.Client

	sales   []model.Sale
	cursor  int
	loading bool
}

func newSalesModel(client *api.Client) salesModel {
	return salesModel{client: client}
}

func (m salesModel) editing() bool { return false }

func (m salesModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sales, err := client.ListSales(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return salesListMsg{sales}
	}
}

func (m salesModel) Update(msg tea.Msg) (salesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case salesListMsg:
		m.sales = msg.sales
		m.loading = false
		if m.cursor >= len(m.sales) {
			m.cursor = 0
		}
		return m, nil

	case saleCancelledMsg:
		return m, tea.Batch(m.load(), func() tea.Msg { return statusMsg("Venda cancelada: " + msg.id) })

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sales)-1 {
				m.cursor++
			}
		case "c":
			if m.cursor < len(m.sales) {
				id := m.sales[m.cursor].ID.String()
				return m, func() tea.Msg {
					if err := clipboard.WriteAll(id); err != nil {
						return errMsg{err}
					}
					return statusMsg("ID copiado: " + shortSaleID(id))
				}
			}
		case "x":
			if m.cursor < len(m.sales) {
				sale := m.sales[m.cursor]
				if sale.Status == model.SaleCompleted {
					return m, m.cancel(sale)
				}
				return m, func() tea.Msg { return statusMsg("Venda já cancelada") }
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m salesModel) cancel(sale model.Sale) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.CancelSale(context.Background(), sale.ID); err != nil {
			return errMsg{err}
		}
		return saleCancelledMsg{id: shortSaleID(sale.ID.String())}
	}
}

func (m salesModel) View() string {
	var b strings.Builder
	if m.loading {
		b.WriteString(labelStyle.Render("carregando…") + "\n")
	}
	if len(m.sales) == 0 {
		b.WriteString(labelStyle.Render("Nenhuma venda registrada.") + "\n")
	} else {
		b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-10s %-17s %-20s %-10s %12s %-10s",
			"Venda", "Data", "Cliente", "Pagamento", "Total", "Status")) + "\n")
		for i, s := range m.sales {
			customer := s.CustomerName
			if customer == "" {
				customer = "-"
			}
			status := s.Status
			if status == model.SaleCancelled {
				status = errStyle.Render(status)
			}
			row := fmt.Sprintf("%-10s %-17s %-20s %-10s %12s %-10s",
				shortSaleID(s.ID.String()),
				s.CreatedAt.Format("02/01 15:04"),
				truncate(customer, 20),
				s.PaymentMethod,
				money(s.TotalAmount),
				status)
			if i == m.cursor {
				row = selectedStyle.Render(row)
			}
			b.WriteString(row + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("x cancelar venda · c copiar ID · r recarregar"))
	return b.String()
}

func shortSaleID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
