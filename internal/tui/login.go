package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"posterm/internal/api"
)

// loginModel is the entry page: login by default, register with ctrl+r.
type loginModel struct {
	client     *api.Client
	registering  bool
	fields     []formField
	focus      int
	submitting bool
}

type formField struct {
	label  string
	value  string
	secret bool
}

func newLoginModel(client *api.Client) loginModel {
	return loginModel{
		client: client,
		fields: []formField{
			{label: "E-mail"},
			{label: "Senha", secret: true},
		},
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.submitting = false
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.fields)
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
		case "ctrl+r":
			m.toggleMode()
		case "enter":
			if m.focus < len(m.fields)-1 {
				m.focus++
				return m, nil
			}
			m.submitting = true
			return m, m.submit()
		default:
			m.fields[m.focus].value = editRune(m.fields[m.focus].value, msg.String())
		}
	}
	return m, nil
}

func (m *loginModel) toggleMode() {
	m.registering = !m.registering
	m.focus = 0
	if m.registering {
		m.fields = []formField{
			{label: "Nome"},
			{label: "E-mail"},
			{label: "Senha", secret: true},
		}
	} else {
		m.fields = []formField{
			{label: "E-mail"},
			{label: "Senha", secret: true},
		}
	}
}

// submit exchanges the form for a session. The errMsg path leaves the form
// intact for another attempt.
func (m loginModel) submit() tea.Cmd {
	client := m.client
	if m.registering {
		req := api.RegisterRequest{
			Name:     strings.TrimSpace(m.fields[0].value),
			Email:    strings.TrimSpace(m.fields[1].value),
			Password: m.fields[2].value,
		}
		return func() tea.Msg {
			sess, err := client.Register(context.Background(), req)
			if err != nil {
				return errMsg{err}
			}
			return loggedInMsg{sess}
		}
	}
	creds := api.Credentials{
		Email:    strings.TrimSpace(m.fields[0].value),
		Password: m.fields[1].value,
	}
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), creds)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{sess}
	}
}

func (m loginModel) View() string {
	title := "Entrar"
	hint := "ctrl+r criar conta"
	if m.registering {
		title = "Criar conta"
		hint = "ctrl+r voltar ao login"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("POSTerm") + "\n\n")
	b.WriteString(valueStyle.Render(title) + "\n\n")
	b.WriteString(renderForm(m.fields, m.focus))
	if m.submitting {
		b.WriteString("\n" + labelStyle.Render("enviando…"))
	}
	b.WriteString("\n" + helpStyle.Render("enter enviar · tab campo · "+hint))
	return b.String()
}

// renderForm renders labelled fields with a cursor on the focused one.
func renderForm(fields []formField, focus int) string {
	var b strings.Builder
	for i, f := range fields {
		value := f.value
		if f.secret {
			value = strings.Repeat("•", len([]rune(f.value)))
		}
		line := labelStyle.Render(f.label+": ") + value
		if i == focus {
			line += cursorStyle.Render(" ")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
