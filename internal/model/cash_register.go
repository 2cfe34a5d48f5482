package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types. Sale and deposit add to the drawer; withdrawal and
// expense take from it. Amounts are always non-negative — the type carries
// the sign.
const (
	MovementSale       = "sale"
	MovementDeposit    = "deposit"
	MovementWithdrawal = "withdrawal"
	MovementExpense    = "expense"
)

// CashRegister is one till session: a bounded period during which an
// operator's drawer is open and tracked. At most one open (closedAt null)
// session per operator.
type CashRegister struct {
	ID             uuid.UUID       `json:"id"`
	OperatorID     uuid.UUID       `json:"operatorId"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	OpenedAt       time.Time       `json:"openedAt"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
}

// Open reports whether the session is still accepting movements.
func (c CashRegister) Open() bool { return c.ClosedAt == nil }

// Movement is an immutable event in the till ledger. Movements are never
// modified or deleted; corrections are inverse entries.
type Movement struct {
	ID             uuid.UUID       `json:"id"`
	CashRegisterID uuid.UUID       `json:"cashRegisterId"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}
