package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// Product mirrors the catalog record served by /api/v1/products.
// Stock figures are authoritative server-side; the client only displays them.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	SKU           string          `json:"sku,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	MaxStock      int             `json:"maxStock"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

// LowOnStock reports whether the product is at or below its minimum level.
func (p Product) LowOnStock() bool {
	return p.Stock <= p.MinStock
}
