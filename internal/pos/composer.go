// Package pos accumulates the cart for one sale and submits it. Composer
// state is transient: cleared on a successful submission, preserved
// untouched when the submission fails so the operator can retry.
package pos

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/model"
)

var oneHundred = decimal.NewFromInt(100)

// Line is one cart entry. DiscountPercent is in [0,100].
type Line struct {
	ProductID       uuid.UUID
	Name            string
	UnitPrice       decimal.Decimal
	Quantity        int
	DiscountPercent decimal.Decimal
}

// Subtotal is unitPrice × quantity × (1 − discount/100), exact.
func (l Line) Subtotal() decimal.Decimal {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	discount := gross.Mul(l.DiscountPercent).Div(oneHundred)
	return gross.Sub(discount)
}

// Submitter is the slice of the API surface the composer needs.
type Submitter interface {
	CreateSale(ctx context.Context, req api.SaleRequest) (*model.Sale, error)
}

// Composer holds the working cart.
type Composer struct {
	mu       sync.Mutex
	gw       Submitter
	lines    []Line
	customer *model.Customer
}

func NewComposer(gw Submitter) *Composer {
	return &Composer{gw: gw}
}

// AddLine merges a scanned product into the cart: an existing line for the
// product gains quantity, otherwise a new line starts at the given quantity
// with no discount.
func (c *Composer) AddLine(p model.Product, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.SalePrice,
		Quantity:  quantity,
	})
	return nil
}

// SetQuantity sets a line's quantity; zero or negative removes the line.
func (c *Composer) SetQuantity(productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// SetDiscountPercent applies a line discount. Values outside [0,100] are
// rejected, not clamped — a clamp would silently turn an operator typo
// into a 100% discount.
func (c *Composer) SetDiscountPercent(productID uuid.UUID, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(oneHundred) {
		return apperror.NewValidation("discount must be between 0 and 100")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].DiscountPercent = pct
			return nil
		}
	}
	return apperror.NewValidation("product is not in the cart")
}

// RemoveLine drops a line from the cart.
func (c *Composer) RemoveLine(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

func (c *Composer) removeLocked(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetCustomer attaches (or detaches, with nil) the buyer.
func (c *Composer) SetCustomer(cust *model.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = cust
}

// Customer returns the attached buyer, nil for an anonymous sale.
func (c *Composer) Customer() *model.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.customer == nil {
		return nil
	}
	cp := *c.customer
	return &cp
}

// Lines returns a snapshot of the cart.
func (c *Composer) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Composer) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total sums line subtotals with exact decimal arithmetic.
func (c *Composer) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Composer) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Change returns what a cash payment gives back, never negative. Non-cash
// methods have no change.
func (c *Composer) Change(method string, received decimal.Decimal) decimal.Decimal {
	if method != model.PaymentMoney {
		return decimal.Zero
	}
	change := received.Sub(c.Total())
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// Finalize submits the cart as a sale. On success all composer state is
// cleared; on failure the cart and customer are preserved unchanged.
func (c *Composer) Finalize(ctx context.Context, paymentMethod string) (*model.Sale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, apperror.NewValidation("cart is empty")
	}
	switch paymentMethod {
	case model.PaymentMoney, model.PaymentPix, model.PaymentDebit, model.PaymentCredit:
	case model.PaymentFiado:
		// store credit must be attributable to someone
		if c.customer == nil {
			return nil, apperror.NewValidation("fiado sale requires a customer")
		}
	default:
		return nil, apperror.NewValidation("unknown payment method %q", paymentMethod)
	}

	req := api.SaleRequest{
		PaymentMethod: paymentMethod,
		TotalAmount:   c.totalLocked(),
		Items:         make([]model.SaleItem, 0, len(c.lines)),
	}
	if c.customer != nil {
		id := c.customer.ID
		req.CustomerID = &id
	}
	for _, l := range c.lines {
		req.Items = append(req.Items, model.SaleItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.DiscountPercent,
		})
	}

	sale, err := c.gw.CreateSale(ctx, req)
	if err != nil {
		return nil, err
	}
	c.lines = nil
	c.customer = nil
	return sale, nil
}
