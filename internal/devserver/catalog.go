package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"posterm/internal/api"
	"posterm/internal/model"
)

// parseID reads the :id path param, writing a 400 on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *Server) listProducts(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]model.Product, 0, len(s.store.products))
	for _, p := range s.store.products {
		out = append(out, *p)
	}
	listResp(c, out)
}

func (s *Server) createProduct(c *gin.Context) {
	var req api.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := productFromRequest(uuid.New(), req)
	s.store.mu.Lock()
	s.store.products[p.ID] = &p
	s.store.mu.Unlock()
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	existing, found := s.store.products[id]
	if !found {
		errResp(c, http.StatusNotFound, "product not found")
		return
	}
	p := productFromRequest(id, req)
	p.CreatedAt = existing.CreatedAt
	s.store.products[id] = &p
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.store.products[id]; !found {
		errResp(c, http.StatusNotFound, "product not found")
		return
	}
	delete(s.store.products, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) productByBarcode(c *gin.Context) {
	code := c.Param("code")
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for _, p := range s.store.products {
		if p.Barcode == code {
			c.JSON(http.StatusOK, *p)
			return
		}
	}
	errResp(c, http.StatusNotFound, "product not found")
}

func (s *Server) lowStockProducts(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	var out []model.Product
	for _, p := range s.store.products {
		if p.LowOnStock() {
			out = append(out, *p)
		}
	}
	listResp(c, out)
}

func productFromRequest(id uuid.UUID, req api.ProductRequest) model.Product {
	unit := req.Unit
	if unit == "" {
		unit = "un"
	}
	return model.Product{
		ID:            id,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Barcode:       req.Barcode,
		SKU:           req.SKU,
		Unit:          unit,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		MinStock:      req.MinStock,
		MaxStock:      req.MaxStock,
	}
}

// ── Categories ───────────────────────────────────────────────────────────────

func (s *Server) listCategories(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]model.Category, 0, len(s.store.categories))
	for _, cat := range s.store.categories {
		out = append(out, *cat)
	}
	listResp(c, out)
}

func (s *Server) createCategory(c *gin.Context) {
	var req api.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cat := model.Category{ID: uuid.New(), Name: req.Name, Description: req.Description}
	s.store.mu.Lock()
	s.store.categories[cat.ID] = &cat
	s.store.mu.Unlock()
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.store.categories[id]; !found {
		errResp(c, http.StatusNotFound, "category not found")
		return
	}
	cat := model.Category{ID: id, Name: req.Name, Description: req.Description}
	s.store.categories[id] = &cat
	c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.store.categories[id]; !found {
		errResp(c, http.StatusNotFound, "category not found")
		return
	}
	delete(s.store.categories, id)
	c.Status(http.StatusNoContent)
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *Server) listCustomers(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]model.Customer, 0, len(s.store.customers))
	for _, cust := range s.store.customers {
		out = append(out, *cust)
	}
	listResp(c, out)
}

func (s *Server) createCustomer(c *gin.Context) {
	var req api.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cust := customerFromRequest(uuid.New(), req)
	s.store.mu.Lock()
	s.store.customers[cust.ID] = &cust
	s.store.mu.Unlock()
	c.JSON(http.StatusCreated, cust)
}

func (s *Server) updateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	existing, found := s.store.customers[id]
	if !found {
		errResp(c, http.StatusNotFound, "customer not found")
		return
	}
	cust := customerFromRequest(id, req)
	cust.Debt = existing.Debt // debt is ledger-derived, not editable
	s.store.customers[id] = &cust
	c.JSON(http.StatusOK, cust)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	cust, found := s.store.customers[id]
	if !found {
		errResp(c, http.StatusNotFound, "customer not found")
		return
	}
	if cust.Debt.IsPositive() {
		errResp(c, http.StatusConflict, "customer has outstanding debt")
		return
	}
	delete(s.store.customers, id)
	c.Status(http.StatusNoContent)
}

func customerFromRequest(id uuid.UUID, req api.CustomerRequest) model.Customer {
	return model.Customer{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Document:    req.Document,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	}
}
