package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posterm/internal/apperror"
	"posterm/internal/model"
)

// ── Auth ─────────────────────────────────────────────────────────────────────

// Credentials is the /login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the /register payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authEnvelope wraps the /login and /register responses:
// `{ "data": { "token": ..., "user": {...} } }`.
type authEnvelope struct {
	Data model.Session `json:"data"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*model.Session, error) {
	var env authEnvelope
	if err := c.Post(ctx, "/login", creds, &env); err != nil {
		return nil, fmt.Errorf("api.Login: %w", err)
	}
	return &env.Data, nil
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.Session, error) {
	var env authEnvelope
	if err := c.Post(ctx, "/register", req, &env); err != nil {
		return nil, fmt.Errorf("api.Register: %w", err)
	}
	return &env.Data, nil
}

// Me returns the authenticated operator's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.Get(ctx, "/me", &u); err != nil {
		return nil, fmt.Errorf("api.Me: %w", err)
	}
	return &u, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

// ProductRequest is the create/update payload for a product.
type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	CategoryID    *uuid.UUID      `json:"categoryId"`
	Barcode       string          `json:"barcode"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	MaxStock      int             `json:"maxStock"`
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	return getList[model.Product](ctx, c, apiPrefix+"/products")
}

func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	var p model.Product
	if err := c.Post(ctx, apiPrefix+"/products", req, &p); err != nil {
		return nil, fmt.Errorf("api.CreateProduct: %w", err)
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	var p model.Product
	if err := c.Put(ctx, apiPrefix+"/products/"+id.String(), req, &p); err != nil {
		return nil, fmt.Errorf("api.UpdateProduct: %w", err)
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := c.Delete(ctx, apiPrefix+"/products/"+id.String()); err != nil {
		return fmt.Errorf("api.DeleteProduct: %w", err)
	}
	return nil
}

// ProductByBarcode looks a product up by scanned code. A miss is a
// NotFoundError so the PDV can tell "unknown product" from a broken server.
func (c *Client) ProductByBarcode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := c.Get(ctx, apiPrefix+"/products/barcode/"+url.PathEscape(code), &p)
	if err != nil {
		if apperror.IsStatus(err, 404) {
			return nil, apperror.NewNotFound("product not found: "+code, err)
		}
		return nil, fmt.Errorf("api.ProductByBarcode: %w", err)
	}
	return &p, nil
}

func (c *Client) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	return getList[model.Product](ctx, c, apiPrefix+"/products/low-stock")
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	return getList[model.Category](ctx, c, apiPrefix+"/categories")
}

func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) (*model.Category, error) {
	var cat model.Category
	if err := c.Post(ctx, apiPrefix+"/categories", req, &cat); err != nil {
		return nil, fmt.Errorf("api.CreateCategory: %w", err)
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*model.Category, error) {
	var cat model.Category
	if err := c.Put(ctx, apiPrefix+"/categories/"+id.String(), req, &cat); err != nil {
		return nil, fmt.Errorf("api.UpdateCategory: %w", err)
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := c.Delete(ctx, apiPrefix+"/categories/"+id.String()); err != nil {
		return fmt.Errorf("api.DeleteCategory: %w", err)
	}
	return nil
}

// ── Customers ────────────────────────────────────────────────────────────────

type CustomerRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Document    string          `json:"document"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
}

func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return getList[model.Customer](ctx, c, apiPrefix+"/customers")
}

func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error) {
	var cust model.Customer
	if err := c.Post(ctx, apiPrefix+"/customers", req, &cust); err != nil {
		return nil, fmt.Errorf("api.CreateCustomer: %w", err)
	}
	return &cust, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id uuid.UUID, req CustomerRequest) (*model.Customer, error) {
	var cust model.Customer
	if err := c.Put(ctx, apiPrefix+"/customers/"+id.String(), req, &cust); err != nil {
		return nil, fmt.Errorf("api.UpdateCustomer: %w", err)
	}
	return &cust, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := c.Delete(ctx, apiPrefix+"/customers/"+id.String()); err != nil {
		return fmt.Errorf("api.DeleteCustomer: %w", err)
	}
	return nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

// SaleRequest is the finalize payload built by the sale composer.
type SaleRequest struct {
	CustomerID    *uuid.UUID       `json:"customerId,omitempty"`
	Items         []model.SaleItem `json:"items" binding:"required,min=1"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
}

func (c *Client) ListSales(ctx context.Context) ([]model.Sale, error) {
	return getList[model.Sale](ctx, c, apiPrefix+"/sales")
}

func (c *Client) CreateSale(ctx context.Context, req SaleRequest) (*model.Sale, error) {
	var s model.Sale
	if err := c.Post(ctx, apiPrefix+"/sales", req, &s); err != nil {
		return nil, fmt.Errorf("api.CreateSale: %w", err)
	}
	return &s, nil
}

// CancelSale voids a sale server-side (stock restored, inverse movement).
func (c *Client) CancelSale(ctx context.Context, id uuid.UUID) error {
	if err := c.Delete(ctx, apiPrefix+"/sales/"+id.String()); err != nil {
		return fmt.Errorf("api.CancelSale: %w", err)
	}
	return nil
}

func (c *Client) SalesStats(ctx context.Context) (*model.SalesStats, error) {
	var stats model.SalesStats
	if err := c.Get(ctx, apiPrefix+"/sales/stats", &stats); err != nil {
		return nil, fmt.Errorf("api.SalesStats: %w", err)
	}
	return &stats, nil
}

// ── Cash registers ───────────────────────────────────────────────────────────

// OpenRegisterRequest opens a till session.
type OpenRegisterRequest struct {
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// MovementRequest is the manual movement payload (deposit, withdrawal,
// expense). Sale movements are created server-side on sale submission.
type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (c *Client) OpenCashRegister(ctx context.Context, req OpenRegisterRequest) (*model.CashRegister, error) {
	var reg model.CashRegister
	if err := c.Post(ctx, apiPrefix+"/cash-registers", req, &reg); err != nil {
		return nil, fmt.Errorf("api.OpenCashRegister: %w", err)
	}
	return &reg, nil
}

// CurrentCashRegister returns the operator's open session; a NotFoundError
// means no register is open, which is a normal state, not a failure.
func (c *Client) CurrentCashRegister(ctx context.Context) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := c.Get(ctx, apiPrefix+"/cash-registers/current", &reg)
	if err != nil {
		if apperror.IsStatus(err, 404) {
			return nil, apperror.NewNotFound("no open cash register", err)
		}
		return nil, fmt.Errorf("api.CurrentCashRegister: %w", err)
	}
	return &reg, nil
}

func (c *Client) CashRegisterMovements(ctx context.Context, id uuid.UUID) ([]model.Movement, error) {
	return getList[model.Movement](ctx, c, apiPrefix+"/cash-registers/"+id.String()+"/movements")
}

func (c *Client) CloseCashRegister(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	if err := c.Post(ctx, apiPrefix+"/cash-registers/"+id.String()+"/close", nil, &reg); err != nil {
		return nil, fmt.Errorf("api.CloseCashRegister: %w", err)
	}
	return &reg, nil
}

// RecordCashMovement posts a manual movement. kind must be one of
// model.MovementDeposit, model.MovementWithdrawal, model.MovementExpense —
// the endpoint path is the movement type.
func (c *Client) RecordCashMovement(ctx context.Context, id uuid.UUID, kind string, req MovementRequest) (*model.Movement, error) {
	var mov model.Movement
	if err := c.Post(ctx, apiPrefix+"/cash-registers/"+id.String()+"/"+kind, req, &mov); err != nil {
		return nil, fmt.Errorf("api.RecordCashMovement: %w", err)
	}
	return &mov, nil
}
