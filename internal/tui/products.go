package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/model"
)

type productsLoadedMsg struct {
	products   []model.Product
	categories []model.Category
}

type productSavedMsg struct{ name string }
type productDeletedMsg struct{ name string }

type productsModel struct {
	client *api.Client

	products   []model.Product
	categories []model.Category
	cursor     int

	form    bool
	editID  *uuid.UUID
	fields  []formField
	focus   int
	catIdx  int // 0 = no category
	loading bool
}

func newProductsModel(client *api.Client) productsModel {
	return productsModel{client: client}
}

func (m productsModel) editing() bool { return m.form }

func (m productsModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		products, err := client.ListProducts(ctx)
		if err != nil {
			return errMsg{err}
		}
		categories, err := client.ListCategories(ctx)
		if err != nil {
			return errMsg{err}
		}
		return productsLoadedMsg{products, categories}
	}
}

func productFormFields(p *model.Product) []formField {
	get := func(f func() string) string {
		if p == nil {
			return ""
		}
		return f()
	}
	return []formField{
		{label: "Nome", value: get(func() string { return p.Name })},
		{label: "Código de barras", value: get(func() string { return p.Barcode })},
		{label: "SKU", value: get(func() string { return p.SKU })},
		{label: "Unidade", value: get(func() string { return p.Unit })},
		{label: "Preço de compra", value: get(func() string { return p.PurchasePrice.StringFixed(2) })},
		{label: "Preço de venda", value: get(func() string { return p.SalePrice.StringFixed(2) })},
		{label: "Estoque", value: get(func() string { return strconv.Itoa(p.Stock) })},
		{label: "Estoque mínimo", value: get(func() string { return strconv.Itoa(p.MinStock) })},
		{label: "Estoque máximo", value: get(func() string { return strconv.Itoa(p.MaxStock) })},
	}
}

func (m productsModel) Update(msg tea.Msg) (productsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.products = msg.products
		m.categories = msg.categories
		m.loading = false
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case productSavedMsg:
		m.form = false
		return m, tea.Batch(m.load(), func() tea.Msg { return statusMsg("Produto salvo: " + msg.name) })

	case productDeletedMsg:
		return m, tea.Batch(m.load(), func() tea.Msg { return statusMsg("Produto removido: " + msg.name) })

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m productsModel) handleKey(key string) (productsModel, tea.Cmd) {
	if m.form {
		switch key {
		case "esc":
			m.form = false
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.fields)
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
		case "left":
			m.catIdx = (m.catIdx - 1 + len(m.categories) + 1) % (len(m.categories) + 1)
		case "right":
			m.catIdx = (m.catIdx + 1) % (len(m.categories) + 1)
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
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "n":
		m.form = true
		m.editID = nil
		m.fields = productFormFields(nil)
		m.focus = 0
		m.catIdx = 0
	case "e":
		if m.cursor < len(m.products) {
			p := m.products[m.cursor]
			m.form = true
			m.editID = &p.ID
			m.fields = productFormFields(&p)
			m.focus = 0
			m.catIdx = 0
			if p.CategoryID != nil {
				for i, cat := range m.categories {
					if cat.ID == *p.CategoryID {
						m.catIdx = i + 1
						break
					}
				}
			}
		}
	case "x":
		if m.cursor < len(m.products) {
			return m, m.delete(m.products[m.cursor])
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

// save builds the request from the form, with local numeric validation
// before the round trip.
func (m productsModel) save() tea.Cmd {
	req := api.ProductRequest{
		Name:    strings.TrimSpace(m.fields[0].value),
		Barcode: strings.TrimSpace(m.fields[1].value),
		SKU:     strings.TrimSpace(m.fields[2].value),
		Unit:    strings.TrimSpace(m.fields[3].value),
	}
	if req.Name == "" {
		return func() tea.Msg { return errMsg{apperror.NewValidation("nome é obrigatório")} }
	}
	var err error
	if req.PurchasePrice, err = parseAmount(orZero(m.fields[4].value)); err != nil {
		return func() tea.Msg { return errMsg{apperror.NewValidation("preço de compra inválido")} }
	}
	if req.SalePrice, err = parseAmount(orZero(m.fields[5].value)); err != nil {
		return func() tea.Msg { return errMsg{apperror.NewValidation("preço de venda inválido")} }
	}
	ints := make([]int, 3)
	for i, idx := range []int{6, 7, 8} {
		if ints[i], err = strconv.Atoi(orZero(m.fields[idx].value)); err != nil {
			return func() tea.Msg { return errMsg{apperror.NewValidation("campo de estoque inválido")} }
		}
	}
	req.Stock, req.MinStock, req.MaxStock = ints[0], ints[1], ints[2]
	if m.catIdx > 0 {
		id := m.categories[m.catIdx-1].ID
		req.CategoryID = &id
	}

	client := m.client
	editID := m.editID
	return func() tea.Msg {
		ctx := context.Background()
		var p *model.Product
		var err error
		if editID != nil {
			p, err = client.UpdateProduct(ctx, *editID, req)
		} else {
			p, err = client.CreateProduct(ctx, req)
		}
		if err != nil {
			return errMsg{err}
		}
		return productSavedMsg{name: p.Name}
	}
}

func (m productsModel) delete(p model.Product) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteProduct(context.Background(), p.ID); err != nil {
			return errMsg{err}
		}
		return productDeletedMsg{name: p.Name}
	}
}

func (m productsModel) View() string {
	if m.form {
		title := "Novo produto"
		if m.editID != nil {
			title = "Editar produto"
		}
		cat := "nenhuma"
		if m.catIdx > 0 {
			cat = m.categories[m.catIdx-1].Name
		}
		return valueStyle.Render(title) + "\n\n" +
			renderForm(m.fields, m.focus) +
			labelStyle.Render("Categoria (←/→): ") + cat + "\n\n" +
			helpStyle.Render("enter salvar · tab campo · esc cancelar")
	}

	var b strings.Builder
	if m.loading {
		b.WriteString(labelStyle.Render("carregando…") + "\n")
	}
	if len(m.products) == 0 {
		b.WriteString(labelStyle.Render("Nenhum produto cadastrado.") + "\n")
	} else {
		b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-26s %-14s %10s %8s", "Produto", "Código", "Preço", "Estoque")) + "\n")
		for i, p := range m.products {
			stock := strconv.Itoa(p.Stock)
			if p.LowOnStock() {
				stock = warnStyle.Render(stock + "!")
			}
			row := fmt.Sprintf("%-26s %-14s %10s %8s",
				truncate(p.Name, 26), p.Barcode, p.SalePrice.StringFixed(2), stock)
			if i == m.cursor {
				row = selectedStyle.Render(row)
			}
			b.WriteString(row + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("n novo · e editar · x remover · r recarregar"))
	return b.String()
}

// orZero defaults empty numeric form fields to "0".
func orZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return strings.TrimSpace(s)
}
