package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"posterm/internal/apperror"
	"posterm/internal/model"
	"posterm/internal/till"
)

// tillMode is the page's input focus.
type tillMode int

const (
	tillIdle     tillMode = iota
	tillOpening           // entering the opening float
	tillMovement          // entering a manual movement
)

var movementKinds = []string{
	model.MovementDeposit, model.MovementWithdrawal, model.MovementExpense,
}

var movementLabels = map[string]string{
	model.MovementSale:       "Venda",
	model.MovementDeposit:    "Suprimento",
	model.MovementWithdrawal: "Sangria",
	model.MovementExpense:    "Despesa",
}

type tillChangedMsg struct{}

type tillModel struct {
	manager *till.Manager

	mode    tillMode
	amount  string
	desc    string
	kindIdx int
	onDesc  bool // movement form: editing description instead of amount
}

func newTillModel(manager *till.Manager) tillModel {
	return tillModel{manager: manager}
}

func (m tillModel) editing() bool { return m.mode != tillIdle }

// resume adopts the server's open session, if any. "None open" is a
// normal state, not an error.
func (m tillModel) resume() tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		if _, err := manager.Resume(context.Background()); err != nil {
			if apperror.IsNotFound(err) {
				return tillChangedMsg{}
			}
			return errMsg{err}
		}
		return tillChangedMsg{}
	}
}

func (m tillModel) Update(msg tea.Msg) (tillModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tillChangedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m tillModel) handleKey(key string) (tillModel, tea.Cmd) {
	switch m.mode {
	case tillIdle:
		switch key {
		case "a":
			if !m.manager.IsOpen() {
				m.mode = tillOpening
				m.amount = ""
			}
		case "m":
			if m.manager.IsOpen() {
				m.mode = tillMovement
				m.amount = ""
				m.desc = ""
				m.kindIdx = 0
				m.onDesc = false
			}
		case "f":
			if m.manager.IsOpen() {
				return m, m.closeRegister()
			}
		case "r":
			return m, m.resume()
		}

	case tillOpening:
		switch key {
		case "esc":
			m.mode = tillIdle
		case "enter":
			amount, err := parseAmount(m.amount)
			if err != nil {
				return m, func() tea.Msg { return errMsg{apperror.NewValidation("valor inválido")} }
			}
			m.mode = tillIdle
			return m, m.open(amount)
		default:
			m.amount = editRune(m.amount, key)
		}

	case tillMovement:
		switch key {
		case "esc":
			m.mode = tillIdle
		case "tab":
			if m.onDesc {
				m.kindIdx = (m.kindIdx + 1) % len(movementKinds)
			} else {
				m.onDesc = true
			}
		case "enter":
			if !m.onDesc {
				m.onDesc = true
				return m, nil
			}
			amount, err := parseAmount(m.amount)
			if err != nil {
				return m, func() tea.Msg { return errMsg{apperror.NewValidation("valor inválido")} }
			}
			kind := movementKinds[m.kindIdx]
			desc := m.desc
			m.mode = tillIdle
			return m, m.record(kind, amount, desc)
		case "left":
			m.kindIdx = (m.kindIdx - 1 + len(movementKinds)) % len(movementKinds)
		case "right":
			m.kindIdx = (m.kindIdx + 1) % len(movementKinds)
		default:
			if m.onDesc {
				m.desc = editRune(m.desc, key)
			} else {
				m.amount = editRune(m.amount, key)
			}
		}
	}
	return m, nil
}

func (m tillModel) open(amount decimal.Decimal) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		if _, err := manager.Open(context.Background(), amount); err != nil {
			return errMsg{err}
		}
		return statusMsg("Caixa aberto com " + money(amount))
	}
}

func (m tillModel) record(kind string, amount decimal.Decimal, desc string) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		if _, err := manager.RecordMovement(context.Background(), kind, amount, desc); err != nil {
			return errMsg{err}
		}
		return statusMsg(movementLabels[kind] + " registrado: " + money(amount))
	}
}

func (m tillModel) closeRegister() tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		balance := manager.CurrentBalance()
		if _, err := manager.Close(context.Background()); err != nil {
			return errMsg{err}
		}
		return statusMsg("Caixa fechado · saldo final " + money(balance))
	}
}

func (m tillModel) View() string {
	var b strings.Builder

	reg := m.manager.Register()
	switch {
	case reg == nil:
		b.WriteString(labelStyle.Render("Nenhum caixa aberto.") + "\n\n")
		b.WriteString(helpStyle.Render("a abrir caixa · r recarregar"))
	case !reg.Open():
		b.WriteString(labelStyle.Render("Caixa fechado em "+reg.ClosedAt.Format("02/01 15:04")) + "\n")
		b.WriteString(valueStyle.Render("Saldo final: "+money(m.manager.CurrentBalance())) + "\n\n")
		b.WriteString(helpStyle.Render("a abrir novo caixa"))
	default:
		b.WriteString(valueStyle.Render("Caixa aberto") + labelStyle.Render(" desde "+reg.OpenedAt.Format("02/01 15:04")) + "\n")
		b.WriteString("Saldo inicial: " + money(reg.InitialBalance) + "\n")

		movs := m.manager.Movements()
		b.WriteString("Vendas: " + okStyle.Render(money(till.TotalByType(movs, model.MovementSale))))
		b.WriteString("  Despesas: " + errStyle.Render(money(till.TotalByType(movs, model.MovementExpense))) + "\n")
		b.WriteString(valueStyle.Render("Saldo atual: "+money(m.manager.CurrentBalance())) + "\n\n")

		if len(movs) == 0 {
			b.WriteString(labelStyle.Render("Sem movimentações.") + "\n")
		} else {
			b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-12s %12s  %s", "Tipo", "Valor", "Descrição")) + "\n")
			for _, mv := range movs {
				b.WriteString(fmt.Sprintf("%-12s %12s  %s\n",
					movementLabels[mv.Type], mv.Amount.StringFixed(2), truncate(mv.Description, 32)))
			}
		}
		b.WriteString("\n" + helpStyle.Render("m movimentação · f fechar caixa · r recarregar"))
	}

	switch m.mode {
	case tillOpening:
		b.WriteString("\n\nSaldo inicial: " + m.amount + cursorStyle.Render(" "))
		b.WriteString("\n" + helpStyle.Render("enter abrir · esc cancelar"))
	case tillMovement:
		b.WriteString("\n\n" + labelStyle.Render("Tipo: "))
		for i, kind := range movementKinds {
			label := movementLabels[kind]
			if i == m.kindIdx {
				label = selectedStyle.Render("[" + label + "]")
			}
			b.WriteString(label + " ")
		}
		b.WriteString("\nValor: " + m.amount)
		if !m.onDesc {
			b.WriteString(cursorStyle.Render(" "))
		}
		b.WriteString("\nDescrição: " + m.desc)
		if m.onDesc {
			b.WriteString(cursorStyle.Render(" "))
		}
		b.WriteString("\n" + helpStyle.Render("←/→ tipo · enter confirmar · esc cancelar"))
	}
	return b.String()
}
