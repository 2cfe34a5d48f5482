// Package tui is the terminal front end: one root App model with a
// sub-model per page (login, dashboard, PDV, till, products, customers,
// sales). All business rules live below this package — the TUI only
// collects input, fires API commands and renders results.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/auth"
	"posterm/internal/model"
	"posterm/internal/pos"
	"posterm/internal/session"
	"posterm/internal/till"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewPDV
	viewTill
	viewProducts
	viewCustomers
	viewSales
)

var tabNames = []string{"Dashboard", "PDV", "Caixa", "Produtos", "Clientes", "Vendas"}

// errMsg surfaces any failed command to the status bar.
type errMsg struct{ err error }

// statusMsg shows a transient confirmation in the status bar.
type statusMsg string

// loggedInMsg carries a fresh session after login/register.
type loggedInMsg struct{ sess *model.Session }

// loggedOutMsg resets the app to the login page.
type loggedOutMsg struct{}

// Deps are the injected collaborators, owned by main and passed down —
// no package-level mutable state.
type Deps struct {
	Client      *api.Client
	Session     *session.Store
	Till        *till.Manager
	Cart        *pos.Composer
	ReceiptPath string
	Log         zerolog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	deps Deps
	caps auth.Capabilities

	view      view
	login     loginModel
	dashboard dashboardModel
	pdv       pdvModel
	till      tillModel
	products  productsModel
	customers customersModel
	sales     salesModel

	width  int
	height int
	status string
	errTxt string
}

// NewApp builds the root model. A persisted session skips the login page.
func NewApp(deps Deps) App {
	a := App{
		deps:      deps,
		login:     newLoginModel(deps.Client),
		dashboard: newDashboardModel(deps.Client),
		pdv:       newPDVModel(deps),
		till:      newTillModel(deps.Till),
		products:  newProductsModel(deps.Client),
		customers: newCustomersModel(deps.Client),
		sales:     newSalesModel(deps.Client),
	}
	if deps.Session.IsAuthenticated() && !deps.Session.TokenExpired() {
		a.view = viewDashboard
		if sess := deps.Session.Get(); sess != nil {
			a.caps = auth.FromUser(&sess.User)
		}
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.view == viewLogin {
		return nil
	}
	return tea.Batch(a.dashboard.load(), a.till.resume())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case errMsg:
		a.errTxt = userMessage(msg.err)
		a.status = ""
		a.deps.Log.Warn().Err(msg.err).Msg("operation failed")
		// Pages clear their in-flight flags on errMsg
		return a.route(msg)

	case statusMsg:
		a.status = string(msg)
		a.errTxt = ""
		return a, nil

	case loggedInMsg:
		if err := a.deps.Session.Save(msg.sess); err != nil {
			a.errTxt = err.Error()
			return a, nil
		}
		a.caps = auth.FromUser(&msg.sess.User)
		a.view = viewDashboard
		a.status = "Bem-vindo, " + msg.sess.User.Name
		a.errTxt = ""
		return a, tea.Batch(a.dashboard.load(), a.till.resume())

	case loggedOutMsg:
		if err := a.deps.Session.Clear(); err != nil {
			a.deps.Log.Warn().Err(err).Msg("clearing session")
		}
		a.caps = auth.Capabilities{}
		a.view = viewLogin
		a.login = newLoginModel(a.deps.Client)
		a.status = ""
		a.errTxt = ""
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if a.view != viewLogin {
			if key == "ctrl+l" {
				return a, func() tea.Msg { return loggedOutMsg{} }
			}
			if !a.activeEditing() {
				if cmd, ok := a.switchView(key); ok {
					return a, cmd
				}
			}
		}
	}
	return a.route(msg)
}

// switchView maps number keys to pages; returns the page's refresh command.
func (a *App) switchView(key string) (tea.Cmd, bool) {
	switch key {
	case "1":
		a.view = viewDashboard
		return a.dashboard.load(), true
	case "2":
		a.view = viewPDV
		return a.pdv.load(), true
	case "3":
		a.view = viewTill
		return a.till.resume(), true
	case "4":
		if !a.caps.Has("products:manage") {
			return deniedCmd(), true
		}
		a.view = viewProducts
		return a.products.load(), true
	case "5":
		if !a.caps.Has("customers:manage") {
			return deniedCmd(), true
		}
		a.view = viewCustomers
		return a.customers.load(), true
	case "6":
		a.view = viewSales
		return a.sales.load(), true
	}
	return nil, false
}

// activeEditing reports whether the focused page is capturing text, in
// which case number keys belong to the form, not navigation.
func (a App) activeEditing() bool {
	switch a.view {
	case viewLogin:
		return true
	case viewPDV:
		return a.pdv.editing()
	case viewTill:
		return a.till.editing()
	case viewProducts:
		return a.products.editing()
	case viewCustomers:
		return a.customers.editing()
	default:
		return false
	}
}

// route forwards the message to the active page only.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewPDV:
		a.pdv, cmd = a.pdv.Update(msg)
	case viewTill:
		a.till, cmd = a.till.Update(msg)
	case viewProducts:
		a.products, cmd = a.products.Update(msg)
	case viewCustomers:
		a.customers, cmd = a.customers.Update(msg)
	case viewSales:
		a.sales, cmd = a.sales.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.view == viewLogin {
		return a.login.View() + "\n" + a.statusBar()
	}

	header := titleStyle.Render("POSTerm") + "  " + a.tabs()
	var body string
	switch a.view {
	case viewDashboard:
		body = a.dashboard.View()
	case viewPDV:
		body = a.pdv.View()
	case viewTill:
		body = a.till.View()
	case viewProducts:
		body = a.products.View()
	case viewCustomers:
		body = a.customers.View()
	case viewSales:
		body = a.sales.View()
	}
	help := helpStyle.Render("1-6 páginas · ctrl+l sair · ctrl+c fechar")
	return header + "\n\n" + body + "\n" + a.statusBar() + "\n" + help
}

func (a App) tabs() string {
	out := ""
	for i, name := range tabNames {
		if view(i+1) == a.view {
			out += tabActive.Render(name)
		} else {
			out += tabStyle.Render(name)
		}
	}
	return out
}

func (a App) statusBar() string {
	if a.errTxt != "" {
		return errStyle.Render(a.errTxt)
	}
	if a.status != "" {
		return okStyle.Render(a.status)
	}
	return ""
}

// Can exposes the capability check to pages that hide actions.
func (a App) Can(name auth.Capability) bool { return a.caps.Has(name) }

func deniedCmd() tea.Cmd {
	return func() tea.Msg {
		return errMsg{apperror.NewValidation("perfil sem permissão para esta página")}
	}
}
