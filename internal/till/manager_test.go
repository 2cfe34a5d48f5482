package till

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterm/internal/api"
	"posterm/internal/apperror"
	"posterm/internal/model"
)

// ── Fake gateway ─────────────────────────────────────────────────────────────

type fakeGateway struct {
	register  *model.CashRegister
	movements []model.Movement
	failNext  error
}

func (g *fakeGateway) OpenCashRegister(_ context.Context, req api.OpenRegisterRequest) (*model.CashRegister, error) {
	if g.failNext != nil {
		return nil, g.takeErr()
	}
	if g.register != nil && g.register.Open() {
		return nil, &apperror.RequestError{Status: 409, Message: "cash register already open"}
	}
	g.register = &model.CashRegister{
		ID:             uuid.New(),
		OperatorID:     uuid.New(),
		InitialBalance: req.InitialBalance,
		OpenedAt:       time.Now(),
	}
	g.movements = nil
	cp := *g.register
	return &cp, nil
}

func (g *fakeGateway) CurrentCashRegister(_ context.Context) (*model.CashRegister, error) {
	if g.register == nil || !g.register.Open() {
		return nil, apperror.NewNotFound("no open cash register", nil)
	}
	cp := *g.register
	return &cp, nil
}

func (g *fakeGateway) CashRegisterMovements(_ context.Context, id uuid.UUID) ([]model.Movement, error) {
	out := make([]model.Movement, 0, len(g.movements))
	for _, m := range g.movements {
		if m.CashRegisterID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (g *fakeGateway) CloseCashRegister(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	if g.register == nil || g.register.ID != id || !g.register.Open() {
		return nil, &apperror.RequestError{Status: 409, Message: "cash register already closed"}
	}
	now := time.Now()
	g.register.ClosedAt = &now
	cp := *g.register
	return &cp, nil
}

func (g *fakeGateway) RecordCashMovement(_ context.Context, id uuid.UUID, kind string, req api.MovementRequest) (*model.Movement, error) {
	if g.failNext != nil {
		return nil, g.takeErr()
	}
	mov := model.Movement{
		ID:             uuid.New(),
		CashRegisterID: id,
		Type:           kind,
		Amount:         req.Amount,
		Description:    req.Description,
		CreatedAt:      time.Now(),
	}
	g.movements = append(g.movements, mov)
	return &mov, nil
}

func (g *fakeGateway) takeErr() error {
	err := g.failNext
	g.failNext = nil
	return err
}

var _ Gateway = (*fakeGateway)(nil)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestOpenRegister(t *testing.T) {
	m := NewManager(&fakeGateway{})

	reg, err := m.Open(context.Background(), dec("100.00"))

	require.NoError(t, err)
	assert.True(t, reg.Open())
	assert.True(t, m.IsOpen())
	assert.Equal(t, "100", m.CurrentBalance().String())
}

func TestOpenNegativeBalance(t *testing.T) {
	gw := &fakeGateway{}
	m := NewManager(gw)

	_, err := m.Open(context.Background(), dec("-1"))

	assert.True(t, apperror.IsValidation(err))
	// Rejected locally, no round trip
	assert.Nil(t, gw.register)
}

func TestOpenTwice(t *testing.T) {
	m := NewManager(&fakeGateway{})

	_, err := m.Open(context.Background(), dec("50"))
	require.NoError(t, err)

	_, err = m.Open(context.Background(), dec("50"))
	assert.True(t, apperror.IsInvalidState(err))
}

func TestBalanceDerivation(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeGateway{})

	_, err := m.Open(ctx, dec("100.00"))
	require.NoError(t, err)

	_, err = m.RecordMovement(ctx, model.MovementDeposit, dec("50.00"), "change fund")
	require.NoError(t, err)
	_, err = m.RecordMovement(ctx, model.MovementWithdrawal, dec("30.00"), "safe drop")
	require.NoError(t, err)

	// 100 + 50 − 30
	assert.Equal(t, "120", m.CurrentBalance().String())
	assert.Len(t, m.Movements(), 2)
}

func TestBalanceExactDecimals(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeGateway{})

	_, err := m.Open(ctx, dec("0.10"))
	require.NoError(t, err)

	// 0.10 + 100×0.10 stays exact, no float drift
	for i := 0; i < 100; i++ {
		_, err := m.RecordMovement(ctx, model.MovementDeposit, dec("0.10"), "")
		require.NoError(t, err)
	}
	assert.Equal(t, "10.10", m.CurrentBalance().StringFixed(2))
}

func TestRecordMovementClosedRegister(t *testing.T) {
	m := NewManager(&fakeGateway{})

	_, err := m.RecordMovement(context.Background(), model.MovementDeposit, dec("10"), "")
	assert.True(t, apperror.IsInvalidState(err))
}

func TestRecordMovementRejectsSaleType(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeGateway{})
	_, err := m.Open(ctx, dec("100"))
	require.NoError(t, err)

	_, err = m.RecordMovement(ctx, model.MovementSale, dec("10"), "")
	assert.True(t, apperror.IsValidation(err))

	_, err = m.RecordMovement(ctx, "bogus", dec("10"), "")
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, m.Movements())
}

func TestRecordMovementNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	m := NewManager(gw)
	_, err := m.Open(ctx, dec("100"))
	require.NoError(t, err)

	_, err = m.RecordMovement(ctx, model.MovementDeposit, decimal.Zero, "")
	assert.True(t, apperror.IsValidation(err))
	_, err = m.RecordMovement(ctx, model.MovementExpense, dec("-5"), "")
	assert.True(t, apperror.IsValidation(err))

	// Nothing reached the server, nothing appended
	assert.Empty(t, gw.movements)
	assert.Equal(t, "100", m.CurrentBalance().String())
}

func TestFailedMovementAppendsNothing(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	m := NewManager(gw)
	_, err := m.Open(ctx, dec("100"))
	require.NoError(t, err)

	gw.failNext = errors.New("connection refused")
	_, err = m.RecordMovement(ctx, model.MovementDeposit, dec("10"), "")
	require.Error(t, err)

	assert.Empty(t, m.Movements())
	assert.Equal(t, "100", m.CurrentBalance().String())
}

func TestCloseFreezesBalance(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeGateway{})

	_, err := m.Open(ctx, dec("100"))
	require.NoError(t, err)
	_, err = m.RecordMovement(ctx, model.MovementExpense, dec("25.50"), "cleaning supplies")
	require.NoError(t, err)

	reg, err := m.Close(ctx)
	require.NoError(t, err)
	assert.False(t, reg.Open())
	assert.False(t, m.IsOpen())

	// Final balance stays readable after close
	assert.Equal(t, "74.50", m.CurrentBalance().StringFixed(2))

	// Closed till accepts nothing
	_, err = m.RecordMovement(ctx, model.MovementDeposit, dec("1"), "")
	assert.True(t, apperror.IsInvalidState(err))
	_, err = m.Close(ctx)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestReopenAfterClose(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakeGateway{})

	_, err := m.Open(ctx, dec("100"))
	require.NoError(t, err)
	_, err = m.RecordMovement(ctx, model.MovementDeposit, dec("40"), "")
	require.NoError(t, err)
	_, err = m.Close(ctx)
	require.NoError(t, err)

	// New session starts from its own float, old ledger discarded
	_, err = m.Open(ctx, dec("200"))
	require.NoError(t, err)
	assert.Equal(t, "200", m.CurrentBalance().String())
	assert.Empty(t, m.Movements())
}

func TestResumeAdoptsServerSession(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}

	first := NewManager(gw)
	reg, err := first.Open(ctx, dec("100"))
	require.NoError(t, err)
	_, err = first.RecordMovement(ctx, model.MovementDeposit, dec("15"), "")
	require.NoError(t, err)

	// Fresh manager, same backend: a client restart
	second := NewManager(gw)
	resumed, err := second.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, resumed.ID)
	assert.Equal(t, "115", second.CurrentBalance().String())
}

func TestResumeWithoutOpenSession(t *testing.T) {
	m := NewManager(&fakeGateway{})

	_, err := m.Resume(context.Background())
	assert.True(t, apperror.IsNotFound(err))
	assert.False(t, m.IsOpen())
	assert.Equal(t, "0", m.CurrentBalance().String())
}

func TestBalanceOverLedger(t *testing.T) {
	movs := []model.Movement{
		{Type: model.MovementSale, Amount: dec("37.90")},
		{Type: model.MovementSale, Amount: dec("12.10")},
		{Type: model.MovementDeposit, Amount: dec("20.00")},
		{Type: model.MovementWithdrawal, Amount: dec("50.00")},
		{Type: model.MovementExpense, Amount: dec("7.25")},
	}

	got := Balance(dec("100.00"), movs)

	// 100 + 37.90 + 12.10 + 20 − 50 − 7.25
	assert.Equal(t, "112.75", got.StringFixed(2))
	assert.Equal(t, "50.00", TotalByType(movs, model.MovementSale).StringFixed(2))
	assert.Equal(t, "7.25", TotalByType(movs, model.MovementExpense).StringFixed(2))
}
