package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the counter. Fiado is store credit: the sale
// total becomes customer debt instead of settled cash.
const (
	PaymentMoney  = "money"
	PaymentPix    = "pix"
	PaymentDebit  = "debit"
	PaymentCredit = "credit"
	PaymentFiado  = "fiado"
)

// Sale statuses.
const (
	SalePending   = "pending"
	SaleCompleted = "completed"
	SaleCancelled = "cancelled"
)

// SaleItem is one line of a submitted sale. Discount is a percentage in
// [0,100] applied to unitPrice × quantity.
type SaleItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  decimal.Decimal `json:"discount"`
}

// Sale is created server-side on submission; the client only reads or
// cancels it.
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    *uuid.UUID      `json:"customerId,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	Items         []SaleItem      `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SalesStats is the dashboard aggregate from /api/v1/sales/stats.
type SalesStats struct {
	Today struct {
		Count int             `json:"count"`
		Total decimal.Decimal `json:"total"`
	} `json:"today"`
}
