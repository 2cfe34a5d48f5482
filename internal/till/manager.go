// Package till owns the lifecycle of the operator's cash-register session:
// a two-state machine (Closed, Open) with an append-only movement ledger
// and a pure balance derivation. The backend is the source of truth; the
// manager mirrors exactly one session and validates locally before every
// round trip.
package till

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/model"
)

// Gateway is the slice of the API surface the till needs. *api.Client
// satisfies it; tests substitute fakes.
type Gateway interface {
	OpenCashRegister(ctx context.Context, req api.OpenRegisterRequest) (*model.CashRegister, error)
	CurrentCashRegister(ctx context.Context) (*model.CashRegister, error)
	CashRegisterMovements(ctx context.Context, id uuid.UUID) ([]model.Movement, error)
	CloseCashRegister(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	RecordCashMovement(ctx context.Context, id uuid.UUID, kind string, req api.MovementRequest) (*model.Movement, error)
}

// Manager serializes all till operations: a movement can never interleave
// with a close transition.
type Manager struct {
	mu        sync.Mutex
	gw        Gateway
	register  *model.CashRegister
	movements []model.Movement
}

func NewManager(gw Gateway) *Manager {
	return &Manager{gw: gw}
}

// Open transitions Closed → Open with the given opening float.
func (m *Manager) Open(ctx context.Context, initialBalance decimal.Decimal) (*model.CashRegister, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if initialBalance.IsNegative() {
		return nil, apperror.NewValidation("initial balance cannot be negative")
	}
	if m.register != nil && m.register.Open() {
		return nil, apperror.NewInvalidState("cash register already open")
	}

	reg, err := m.gw.OpenCashRegister(ctx, api.OpenRegisterRequest{InitialBalance: initialBalance})
	if err != nil {
		return nil, err
	}
	m.register = reg
	m.movements = nil
	return reg, nil
}

// Resume adopts the server's current open session, if any, so the till
// survives client restarts. Returns apperror.NotFoundError when no
// register is open — a normal state for the caller to handle.
func (m *Manager) Resume(ctx context.Context) (*model.CashRegister, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, err := m.gw.CurrentCashRegister(ctx)
	if err != nil {
		return nil, err
	}
	movs, err := m.gw.CashRegisterMovements(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	m.register = reg
	m.movements = movs
	return reg, nil
}

// RecordMovement appends one manual movement to the open session. Sale
// movements are created by the sales endpoint and are rejected here.
// Validation failures happen before any network call; a failed call
// appends nothing.
func (m *Manager) RecordMovement(ctx context.Context, kind string, amount decimal.Decimal, description string) (*model.Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.register == nil || !m.register.Open() {
		return nil, apperror.NewInvalidState("no open cash register")
	}
	switch kind {
	case model.MovementDeposit, model.MovementWithdrawal, model.MovementExpense:
	case model.MovementSale:
		return nil, apperror.NewValidation("sale movements are created by the sales endpoint")
	default:
		return nil, apperror.NewValidation("unknown movement type %q", kind)
	}
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("movement amount must be positive")
	}

	mov, err := m.gw.RecordCashMovement(ctx, m.register.ID, kind, api.MovementRequest{
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	m.movements = append(m.movements, *mov)
	return mov, nil
}

// Close transitions Open → Closed. The ledger is frozen; CurrentBalance
// keeps reporting the final balance until a new session opens.
func (m *Manager) Close(ctx context.Context) (*model.CashRegister, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.register == nil || !m.register.Open() {
		return nil, apperror.NewInvalidState("no open cash register")
	}
	reg, err := m.gw.CloseCashRegister(ctx, m.register.ID)
	if err != nil {
		return nil, err
	}
	m.register = reg
	return reg, nil
}

// Refresh refetches the ledger from the server. Called after a sale, which
// appends a sale movement server-side.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.register == nil {
		return apperror.NewInvalidState("no cash register session")
	}
	movs, err := m.gw.CashRegisterMovements(ctx, m.register.ID)
	if err != nil {
		return err
	}
	m.movements = movs
	return nil
}

// CurrentBalance is the pure derivation over the mirrored ledger. With no
// session it reports zero; freshly opened it reports the opening float.
func (m *Manager) CurrentBalance() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.register == nil {
		return decimal.Zero
	}
	return Balance(m.register.InitialBalance, m.movements)
}

// IsOpen reports whether a session is accepting movements.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register != nil && m.register.Open()
}

// Register returns a snapshot of the current session, nil when none.
func (m *Manager) Register() *model.CashRegister {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register == nil {
		return nil
	}
	cp := *m.register
	return &cp
}

// Movements returns a snapshot of the mirrored ledger.
func (m *Manager) Movements() []model.Movement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Movement, len(m.movements))
	copy(out, m.movements)
	return out
}
