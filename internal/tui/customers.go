package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/model"
)

type customersListMsg struct{ customers []model.Customer }
type customerSavedMsg struct{ name string }
type customerDeletedMsg struct{ name string }

type customersModel struct {
	client *api.Client

	customers []model.Customer
	cursor    int

	form    bool
	editID  *uuid.UUID
	fields  []formField
	focus   int
	loading bool
}

func newCustomersModel(client *api.Client) customersModel {
	return customersModel{client: client}
}

func (m customersModel) editing() bool { return m.form }

func (m customersModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		customers, err := client.ListCustomers(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return customersListMsg{customers}
	}
}

func customerFormFields(c *model.Customer) []formField {
	get := func(f func() string) string {
		if c == nil {
			return ""
		}
		return f()
	}
	return []formField{
		{label: "Nome", value: get(func() string { return c.Name })},
		{label: "E-mail", value: get(func() string { return c.Email })},
		{label: "Telefone", value: get(func() string { return c.Phone })},
		{label: "Documento", value: get(func() string { return c.Document })},
		{label: "Endereço", value: get(func() string { return c.Address })},
		{label: "Limite fiado", value: get(func() string { return c.CreditLimit.StringFixed(2) })},
	}
}

func (m customersModel) Update(msg tea.Msg) (customersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case customersListMsg:
		m.customers = msg.customers
		m.loading = false
		if m.cursor >= len(m.customers) {
			m.cursor = 0
		}
		return m, nil

	case customerSavedMsg:
		m.form = false
		return m, tea.Batch(m.load(), func() tea.Msg { return statusMsg("Cliente salvo: " + msg.name) })

	case customerDeletedMsg:
		return m, tea.Batch(m.load(), func() tea.Msg { return statusMsg("Cliente removido: " + msg.name) })

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m customersModel) handleKey(key string) (customersModel, tea.Cmd) {
	if m.form {
		switch key {
		case "esc":
			m.form = false
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.fields)
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
		case "enter":
			return m, m.save()
		default:
			m.fields[m.focus].value = editRune(m.fields[m.focus].value, key)
		}
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.customers)-1 {
			m.cursor++
		}
	case "n":
		m.form = true
		m.editID = nil
		m.fields = customerFormFields(nil)
		m.focus = 0
	case "e":
		if m.cursor < len(m.customers) {
			c := m.customers[m.cursor]
			m.form = true
			m.editID = &c.ID
			m.fields = customerFormFields(&c)
			m.focus = 0
		}
	case "x":
		if m.cursor < len(m.customers) {
			return m, m.delete(m.customers[m.cursor])
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m customersModel) save() tea.Cmd {
	req := api.CustomerRequest{
		Name:     strings.TrimSpace(m.fields[0].value),
		Email:    strings.TrimSpace(m.fields[1].value),
		Phone:    strings.TrimSpace(m.fields[2].value),
		Document: strings.TrimSpace(m.fields[3].value),
		Address:  strings.TrimSpace(m.fields[4].value),
	}
	if req.Name == "" {
		return func() tea.Msg { return errMsg{apperror.NewValidation("nome é obrigatório")} }
	}
	limit, err := parseAmount(orZero(m.fields[5].value))
	if err != nil {
		return func() tea.Msg { return errMsg{apperror.NewValidation("limite fiado inválido")} }
	}
	req.CreditLimit = limit

	client := m.client
	editID := m.editID
	return func() tea.Msg {
		ctx := context.Background()
		var c *model.Customer
		var err error
		if editID != nil {
			c, err = client.UpdateCustomer(ctx, *editID, req)
		} else {
			c, err = client.CreateCustomer(ctx, req)
		}
		if err != nil {
			return errMsg{err}
		}
		return customerSavedMsg{name: c.Name}
	}
}

func (m customersModel) delete(c model.Customer) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteCustomer(context.Background(), c.ID); err != nil {
			return errMsg{err}
		}
		return customerDeletedMsg{name: c.Name}
	}
}

func (m customersModel) View() string {
	if m.form {
		title := "Novo cliente"
		if m.editID != nil {
			title = "Editar cliente"
		}
		return valueStyle.Render(title) + "\n\n" +
			renderForm(m.fields, m.focus) + "\n" +
			helpStyle.Render("enter salvar · tab campo · esc cancelar")
	}

	var b strings.Builder
	if m.loading {
		b.WriteString(labelStyle.Render("carregando…") + "\n")
	}
	if len(m.customers) == 0 {
		b.WriteString(labelStyle.Render("Nenhum cliente cadastrado.") + "\n")
	} else {
		b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-26s %-16s %12s %12s", "Cliente", "Telefone", "Limite", "Dívida")) + "\n")
		for i, c := range m.customers {
			debt := c.Debt.StringFixed(2)
			if c.Debt.IsPositive() {
				debt = warnStyle.Render(debt)
			}
			row := fmt.Sprintf("%-26s %-16s %12s %12s",
				truncate(c.Name, 26), c.Phone, c.CreditLimit.StringFixed(2), debt)
			if i == m.cursor {
				row = selectedStyle.Render(row)
			}
			b.WriteString(row + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("n novo · e editar · x remover · r recarregar"))
	return b.String()
}
