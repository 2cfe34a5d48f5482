package devserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/config"
	"posterm/internal/model"
	"posterm/internal/pos"
	"posterm/internal/till"
)

// tokenHolder is a mutable TokenSource for tests; the real client uses the
// session store.
type tokenHolder struct{ token string }

func (h *tokenHolder) Token() string { return h.token }

// newClient spins up the full engine behind httptest and returns an API
// client already logged in as the seeded owner.
func newClient(t *testing.T) (*api.Client, *tokenHolder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:                "development",
		DevServerJWTSecret: "test-secret",
		JWTExpirationHours: 1,
	}
	_, engine := New(cfg, zerolog.Nop())
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	holder := &tokenHolder{}
	client := api.New(srv.URL, holder, 5*time.Second, zerolog.Nop())

	sess, err := client.Login(context.Background(), api.Credentials{
		Email:    "admin@posterm.local",
		Password: "admin123",
	})
	require.NoError(t, err)
	holder.token = sess.Token
	return client, holder
}

func findProduct(t *testing.T, client *api.Client, name string) model.Product {
	t.Helper()
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	for _, p := range products {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("seed product %q not found", name)
	return model.Product{}
}

func TestLoginAndMe(t *testing.T) {
	client, _ := newClient(t)

	u, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@posterm.local", u.Email)
	assert.Equal(t, "owner", u.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	client, holder := newClient(t)
	holder.token = ""

	_, err := client.Login(context.Background(), api.Credentials{
		Email:    "admin@posterm.local",
		Password: "wrong",
	})
	assert.True(t, apperror.IsStatus(err, 401))
	assert.Equal(t, "invalid credentials", apperror.Message(err))
}

func TestUnauthenticatedRejected(t *testing.T) {
	client, holder := newClient(t)
	holder.token = ""

	_, err := client.ListProducts(context.Background())
	assert.True(t, apperror.IsStatus(err, 401))
}

func TestRegisterThenLogin(t *testing.T) {
	client, holder := newClient(t)
	holder.token = ""

	sess, err := client.Register(context.Background(), api.RegisterRequest{
		Name:     "Novo Operador",
		Email:    "novo@posterm.local",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "operator", sess.User.Role)

	// Duplicate email is a conflict
	_, err = client.Register(context.Background(), api.RegisterRequest{
		Name:     "Outro",
		Email:    "novo@posterm.local",
		Password: "secret2",
	})
	assert.True(t, apperror.IsStatus(err, 409))
}

func TestProductLookup(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	p, err := client.ProductByBarcode(ctx, "7891000100103")
	require.NoError(t, err)
	assert.Equal(t, "Refrigerante 2L", p.Name)

	_, err = client.ProductByBarcode(ctx, "0000000000000")
	assert.True(t, apperror.IsNotFound(err))

	// Café 500g is seeded below its minimum
	low, err := client.LowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Café 500g", low[0].Name)
}

func TestProductCRUD(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, api.ProductRequest{
		Name: "Sabão em pó", Barcode: "7891150000001", Unit: "un",
		PurchasePrice: decimal.RequireFromString("8.00"),
		SalePrice:     decimal.RequireFromString("12.90"),
		Stock:         20, MinStock: 5, MaxStock: 50,
	})
	require.NoError(t, err)

	updated, err := client.UpdateProduct(ctx, created.ID, api.ProductRequest{
		Name: "Sabão em pó 1kg", Barcode: created.Barcode, Unit: "un",
		PurchasePrice: created.PurchasePrice,
		SalePrice:     decimal.RequireFromString("13.50"),
		Stock:         20, MinStock: 5, MaxStock: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sabão em pó 1kg", updated.Name)
	assert.Equal(t, "13.50", updated.SalePrice.StringFixed(2))

	require.NoError(t, client.DeleteProduct(ctx, created.ID))
	_, err = client.ProductByBarcode(ctx, "7891150000001")
	assert.True(t, apperror.IsNotFound(err))
}

func TestTillLifecycle(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()
	mgr := till.NewManager(client)

	// Nothing open yet
	_, err := mgr.Resume(ctx)
	assert.True(t, apperror.IsNotFound(err))

	_, err = mgr.Open(ctx, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	// Server enforces one open session per operator
	direct := till.NewManager(client)
	_, err = direct.Open(ctx, decimal.RequireFromString("50"))
	assert.True(t, apperror.IsStatus(err, 409))

	_, err = mgr.RecordMovement(ctx, model.MovementDeposit, decimal.RequireFromString("50.00"), "change fund")
	require.NoError(t, err)
	_, err = mgr.RecordMovement(ctx, model.MovementWithdrawal, decimal.RequireFromString("30.00"), "safe drop")
	require.NoError(t, err)
	assert.Equal(t, "120.00", mgr.CurrentBalance().StringFixed(2))

	reg, err := mgr.Close(ctx)
	require.NoError(t, err)
	assert.False(t, reg.Open())
	assert.Equal(t, "120.00", mgr.CurrentBalance().StringFixed(2))
}

func TestSaleFlow(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	mgr := till.NewManager(client)
	cart := pos.NewComposer(client)

	// A sale without an open register is rejected server-side
	refri := findProduct(t, client, "Refrigerante 2L")
	require.NoError(t, cart.AddLine(refri, 2))
	_, err := cart.Finalize(ctx, model.PaymentMoney)
	assert.True(t, apperror.IsStatus(err, 409))
	// Failure preserved the cart
	assert.Len(t, cart.Lines(), 1)

	_, err = mgr.Open(ctx, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	sale, err := cart.Finalize(ctx, model.PaymentMoney)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, "19.80", sale.TotalAmount.StringFixed(2))
	assert.True(t, cart.Empty())

	// Stock decremented
	assert.Equal(t, refri.Stock-2, findProduct(t, client, "Refrigerante 2L").Stock)

	// The sale movement lands in the open register's ledger
	require.NoError(t, mgr.Refresh(ctx))
	assert.Equal(t, "119.80", mgr.CurrentBalance().StringFixed(2))

	stats, err := client.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Today.Count)
	assert.Equal(t, "19.80", stats.Today.Total.StringFixed(2))
}

func TestSaleInsufficientStock(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	mgr := till.NewManager(client)
	_, err := mgr.Open(ctx, decimal.Zero)
	require.NoError(t, err)

	cafe := findProduct(t, client, "Café 500g")
	cart := pos.NewComposer(client)
	require.NoError(t, cart.AddLine(cafe, cafe.Stock+1))

	_, err = cart.Finalize(ctx, model.PaymentPix)
	assert.True(t, apperror.IsStatus(err, 409))
	assert.Contains(t, apperror.Message(err), "Café 500g")

	// Nothing was applied
	assert.Equal(t, cafe.Stock, findProduct(t, client, "Café 500g").Stock)
}

func TestFiadoSale(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	mgr := till.NewManager(client)
	_, err := mgr.Open(ctx, decimal.Zero)
	require.NoError(t, err)

	customers, err := client.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	maria := customers[0]

	arroz := findProduct(t, client, "Arroz 5kg")
	cart := pos.NewComposer(client)
	require.NoError(t, cart.AddLine(arroz, 2))
	cart.SetCustomer(&maria)

	sale, err := cart.Finalize(ctx, model.PaymentFiado)
	require.NoError(t, err)
	assert.Equal(t, "55.00", sale.TotalAmount.StringFixed(2))

	// Debt accrued on the customer
	customers, err = client.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "55.00", customers[0].Debt.StringFixed(2))

	// A second fiado sale blowing the 200.00 limit is rejected
	require.NoError(t, cart.AddLine(arroz, 6))
	cart.SetCustomer(&maria)
	_, err = cart.Finalize(ctx, model.PaymentFiado)
	assert.True(t, apperror.IsStatus(err, 409))
	assert.Equal(t, "credit limit exceeded", apperror.Message(err))

	// Customer with debt cannot be deleted
	err = client.DeleteCustomer(ctx, maria.ID)
	assert.True(t, apperror.IsStatus(err, 409))
}

func TestCancelSale(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	mgr := till.NewManager(client)
	_, err := mgr.Open(ctx, decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	refri := findProduct(t, client, "Refrigerante 2L")
	cart := pos.NewComposer(client)
	require.NoError(t, cart.AddLine(refri, 1))
	sale, err := cart.Finalize(ctx, model.PaymentDebit)
	require.NoError(t, err)

	require.NoError(t, client.CancelSale(ctx, sale.ID))

	// Stock restored, inverse movement appended
	assert.Equal(t, refri.Stock, findProduct(t, client, "Refrigerante 2L").Stock)
	require.NoError(t, mgr.Refresh(ctx))
	assert.Equal(t, "50.00", mgr.CurrentBalance().StringFixed(2))

	// Double cancel is a conflict
	err = client.CancelSale(ctx, sale.ID)
	assert.True(t, apperror.IsStatus(err, 409))

	// Cancelled sales drop out of the stats
	stats, err := client.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Today.Count)
}

func TestManualMovementValidation(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	mgr := till.NewManager(client)
	reg, err := mgr.Open(ctx, decimal.Zero)
	require.NoError(t, err)

	// Server-side guard, bypassing the manager's local check
	_, err = client.RecordCashMovement(ctx, reg.ID, model.MovementDeposit, api.MovementRequest{
		Amount: decimal.Zero,
	})
	assert.True(t, apperror.IsStatus(err, 422))

	_, err = mgr.Close(ctx)
	require.NoError(t, err)

	_, err = client.RecordCashMovement(ctx, reg.ID, model.MovementDeposit, api.MovementRequest{
		Amount: decimal.RequireFromString("10"),
	})
	assert.True(t, apperror.IsStatus(err, 409))
}

func TestCategoriesAndCustomersCRUD(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	cat, err := client.CreateCategory(ctx, api.CategoryRequest{Name: "Limpeza"})
	require.NoError(t, err)
	cat, err = client.UpdateCategory(ctx, cat.ID, api.CategoryRequest{Name: "Limpeza e Higiene"})
	require.NoError(t, err)
	assert.Equal(t, "Limpeza e Higiene", cat.Name)
	require.NoError(t, client.DeleteCategory(ctx, cat.ID))

	cust, err := client.CreateCustomer(ctx, api.CustomerRequest{
		Name: "José Pereira", Phone: "11 97777-0002",
		CreditLimit: decimal.RequireFromString("150.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", cust.Debt.StringFixed(2))
	require.NoError(t, client.DeleteCustomer(ctx, cust.ID))
}
