package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"posterm/internal/api"
	"posterm/internal/apperror"
)

// dashboardStats are the four summary cards. Loads are best-effort: any
// failing source degrades to a zero, never to an error page.
type dashboardStats struct {
	todaySales   int
	todayRevenue decimal.Decimal
	lowStock     int
	registerOpen bool
}

type dashboardLoadedMsg struct{ stats dashboardStats }

type dashboardModel struct {
	client  *api.Client
	stats   dashboardStats
	loading bool
}

func newDashboardModel(client *api.Client) dashboardModel {
	return dashboardModel{client: client, stats: dashboardStats{todayRevenue: decimal.Zero}}
}

// load gathers the stat sources sequentially in one command; each miss
// leaves its zero value in place.
func (m dashboardModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		stats := dashboardStats{todayRevenue: decimal.Zero}

		if s, err := client.SalesStats(ctx); err == nil {
			stats.todaySales = s.Today.Count
			stats.todayRevenue = s.Today.Total
		}
		if low, err := client.LowStockProducts(ctx); err == nil {
			stats.lowStock = len(low)
		}
		if _, err := client.CurrentCashRegister(ctx); err == nil {
			stats.registerOpen = true
		} else if !apperror.IsNotFound(err) {
			// server trouble: still render, drawer just shows closed
			stats.registerOpen = false
		}
		return dashboardLoadedMsg{stats}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.stats = msg.stats
		m.loading = false
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	drawer := "fechado"
	if m.stats.registerOpen {
		drawer = "aberto"
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Vendas hoje", strconv.Itoa(m.stats.todaySales)),
		card("Faturamento hoje", money(m.stats.todayRevenue)),
		card("Produtos em baixa", strconv.Itoa(m.stats.lowStock)),
		card("Caixa", drawer),
	)

	var b strings.Builder
	b.WriteString(cards + "\n\n")
	if m.loading {
		b.WriteString(labelStyle.Render("atualizando…") + "\n")
	}
	b.WriteString(helpStyle.Render("r atualizar"))
	return b.String()
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}
