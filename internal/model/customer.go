package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a registered buyer. Debt tracks unpaid fiado (store credit)
// sales against the credit limit; both are maintained server-side.
type Customer struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Document    string          `json:"document,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Debt        decimal.Decimal `json:"debt"`
}
