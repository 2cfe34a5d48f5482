package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"posterm/internal/api"
	"posterm/internal/model"
)

func (s *Server) openCashRegister(c *gin.Context) {
	var req api.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.InitialBalance.IsNegative() {
		errResp(c, http.StatusUnprocessableEntity, "initial balance cannot be negative")
		return
	}
	operator := currentUser(c)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.store.openRegisterFor(operator.ID) != nil {
		errResp(c, http.StatusConflict, "cash register already open")
		return
	}
	reg := &model.CashRegister{
		ID:             uuid.New(),
		OperatorID:     operator.ID,
		InitialBalance: req.InitialBalance,
		OpenedAt:       time.Now(),
	}
	s.store.registers[reg.ID] = reg
	c.JSON(http.StatusCreated, *reg)
}

func (s *Server) listCashRegisters(c *gin.Context) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]model.CashRegister, 0, len(s.store.registers))
	for _, r := range s.store.registers {
		out = append(out, *r)
	}
	listResp(c, out)
}

func (s *Server) currentCashRegister(c *gin.Context) {
	operator := currentUser(c)
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	reg := s.store.openRegisterFor(operator.ID)
	if reg == nil {
		errResp(c, http.StatusNotFound, "no open cash register")
		return
	}
	c.JSON(http.StatusOK, *reg)
}

func (s *Server) cashRegisterMovements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.store.registers[id]; !found {
		errResp(c, http.StatusNotFound, "cash register not found")
		return
	}
	var out []model.Movement
	for _, m := range s.store.movements {
		if m.CashRegisterID == id {
			out = append(out, m)
		}
	}
	listResp(c, out)
}

func (s *Server) closeCashRegister(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	reg, found := s.store.registers[id]
	if !found {
		errResp(c, http.StatusNotFound, "cash register not found")
		return
	}
	if !reg.Open() {
		errResp(c, http.StatusConflict, "cash register already closed")
		return
	}
	now := time.Now()
	reg.ClosedAt = &now
	c.JSON(http.StatusOK, *reg)
}

// manualMovement handles the deposit/withdrawal/expense endpoints; the
// movement type is the final path segment.
func (s *Server) manualMovement(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req api.MovementRequest
		if !bindAndValidate(c, &req) {
			return
		}
		if !req.Amount.IsPositive() {
			errResp(c, http.StatusUnprocessableEntity, "movement amount must be positive")
			return
		}

		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		reg, found := s.store.registers[id]
		if !found {
			errResp(c, http.StatusNotFound, "cash register not found")
			return
		}
		if !reg.Open() {
			errResp(c, http.StatusConflict, "cash register is closed")
			return
		}
		mov := s.store.appendMovement(reg.ID, kind, req.Amount, req.Description)
		c.JSON(http.StatusCreated, mov)
	}
}
