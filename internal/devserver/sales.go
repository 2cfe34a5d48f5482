package devserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posterm/internal/api"
	"posterm/internal/model"
)

func (s *Server) listSales(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]model.Sale, 0, len(s.store.sales))
	for _, sale := range s.store.sales {
		out = append(out, *sale)
	}
	listResp(c, out)
}

// createSale validates stock and customer rules, decrements stock, records
// the sale movement in the operator's open register, and for fiado adds the
// total to the customer's debt. The authoritative total is recomputed
// server-side from the items.
func (s *Server) createSale(c *gin.Context) {
	var req api.SaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operator := currentUser(c)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	reg := s.store.openRegisterFor(operator.ID)
	if reg == nil {
		errResp(c, http.StatusConflict, "no open cash register")
		return
	}

	var customer *model.Customer
	if req.CustomerID != nil {
		customer = s.store.customers[*req.CustomerID]
		if customer == nil {
			errResp(c, http.StatusNotFound, "customer not found")
			return
		}
	}
	if req.PaymentMethod == model.PaymentFiado && customer == nil {
		errResp(c, http.StatusUnprocessableEntity, "fiado sale requires a customer")
		return
	}

	total := decimal.Zero
	items := make([]model.SaleItem, 0, len(req.Items))
	for _, item := range req.Items {
		p, found := s.store.products[item.ProductID]
		if !found {
			errResp(c, http.StatusNotFound, "product not found: "+item.ProductID.String())
			return
		}
		if item.Quantity <= 0 {
			errResp(c, http.StatusUnprocessableEntity, "item quantity must be positive")
			return
		}
		if item.Discount.IsNegative() || item.Discount.GreaterThan(decimal.NewFromInt(100)) {
			errResp(c, http.StatusUnprocessableEntity, "item discount must be between 0 and 100")
			return
		}
		if p.Stock < item.Quantity {
			errResp(c, http.StatusConflict, fmt.Sprintf("insufficient stock for %s", p.Name))
			return
		}
		gross := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(gross.Sub(gross.Mul(item.Discount).Div(decimal.NewFromInt(100))))
		item.Name = p.Name
		items = append(items, item)
	}

	if req.PaymentMethod == model.PaymentFiado {
		if customer.Debt.Add(total).GreaterThan(customer.CreditLimit) {
			errResp(c, http.StatusConflict, "credit limit exceeded")
			return
		}
	}

	// All checks passed — apply effects.
	for _, item := range items {
		s.store.products[item.ProductID].Stock -= item.Quantity
	}
	sale := &model.Sale{
		ID:            uuid.New(),
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		Status:        model.SaleCompleted,
		CreatedAt:     time.Now(),
	}
	if customer != nil {
		id := customer.ID
		sale.CustomerID = &id
		sale.CustomerName = customer.Name
	}
	if req.PaymentMethod == model.PaymentFiado {
		customer.Debt = customer.Debt.Add(total)
	}
	s.store.sales[sale.ID] = sale
	s.store.appendMovement(reg.ID, model.MovementSale, total, "sale "+sale.ID.String()[:8])

	c.JSON(http.StatusCreated, sale)
}

// cancelSale voids a sale: stock restored, fiado debt reversed, and an
// inverse expense movement appended while the register is still open.
func (s *Server) cancelSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	operator := currentUser(c)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	sale, found := s.store.sales[id]
	if !found {
		errResp(c, http.StatusNotFound, "sale not found")
		return
	}
	if sale.Status == model.SaleCancelled {
		errResp(c, http.StatusConflict, "sale already cancelled")
		return
	}

	for _, item := range sale.Items {
		if p, exists := s.store.products[item.ProductID]; exists {
			p.Stock += item.Quantity
		}
	}
	if sale.PaymentMethod == model.PaymentFiado && sale.CustomerID != nil {
		if cust, exists := s.store.customers[*sale.CustomerID]; exists {
			cust.Debt = cust.Debt.Sub(sale.TotalAmount)
		}
	}
	if reg := s.store.openRegisterFor(operator.ID); reg != nil {
		s.store.appendMovement(reg.ID, model.MovementExpense, sale.TotalAmount, "cancelled sale "+sale.ID.String()[:8])
	}
	sale.Status = model.SaleCancelled

	c.Status(http.StatusNoContent)
}

func (s *Server) salesStats(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var stats model.SalesStats
	stats.Today.Total = decimal.Zero
	midnight := time.Now().Truncate(24 * time.Hour)
	for _, sale := range s.store.sales {
		if sale.Status != model.SaleCompleted || sale.CreatedAt.Before(midnight) {
			continue
		}
		stats.Today.Count++
		stats.Today.Total = stats.Today.Total.Add(sale.TotalAmount)
	}
	c.JSON(http.StatusOK, stats)
}
