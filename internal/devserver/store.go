package devserver

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"posterm/internal/model"
)

// account pairs a public user with its private password hash.
type account struct {
	user model.User
	hash string
}

// Store is the whole backend state, in memory. Intentionally no database:
// the dev server exists so the client and its tests run without one.
type Store struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]*account
	emails     map[string]uuid.UUID
	products   map[uuid.UUID]*model.Product
	categories map[uuid.UUID]*model.Category
	customers  map[uuid.UUID]*model.Customer
	sales      map[uuid.UUID]*model.Sale
	registers  map[uuid.UUID]*model.CashRegister
	movements  []model.Movement
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[uuid.UUID]*account),
		emails:     make(map[string]uuid.UUID),
		products:   make(map[uuid.UUID]*model.Product),
		categories: make(map[uuid.UUID]*model.Category),
		customers:  make(map[uuid.UUID]*model.Customer),
		sales:      make(map[uuid.UUID]*model.Sale),
		registers:  make(map[uuid.UUID]*model.CashRegister),
	}
}

// Seed loads a demo catalog and the default owner account
// (admin@posterm.local / admin123).
func (s *Store) Seed() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	owner := model.User{
		ID:    uuid.New(),
		Name:  "Administrador",
		Email: "admin@posterm.local",
		Role:  "owner",
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[owner.ID] = &account{user: owner, hash: string(hash)}
	s.emails[owner.Email] = owner.ID

	bebidas := &model.Category{ID: uuid.New(), Name: "Bebidas"}
	mercearia := &model.Category{ID: uuid.New(), Name: "Mercearia"}
	s.categories[bebidas.ID] = bebidas
	s.categories[mercearia.ID] = mercearia

	seed := []model.Product{
		{ID: uuid.New(), Name: "Refrigerante 2L", CategoryID: &bebidas.ID, Barcode: "7891000100103",
			Unit: "un", PurchasePrice: dec("5.50"), SalePrice: dec("9.90"), Stock: 48, MinStock: 12, MaxStock: 120},
		{ID: uuid.New(), Name: "Arroz 5kg", CategoryID: &mercearia.ID, Barcode: "7896004000019",
			Unit: "un", PurchasePrice: dec("18.00"), SalePrice: dec("27.50"), Stock: 30, MinStock: 10, MaxStock: 80},
		{ID: uuid.New(), Name: "Café 500g", CategoryID: &mercearia.ID, Barcode: "7891000053508",
			Unit: "un", PurchasePrice: dec("12.30"), SalePrice: dec("19.90"), Stock: 8, MinStock: 10, MaxStock: 60},
	}
	now := time.Now()
	for i := range seed {
		seed[i].CreatedAt = now
		p := seed[i]
		s.products[p.ID] = &p
	}

	cust := &model.Customer{
		ID: uuid.New(), Name: "Maria Souza", Phone: "11 98888-0001",
		CreditLimit: dec("200.00"), Debt: decimal.Zero,
	}
	s.customers[cust.ID] = cust
}

// openRegisterFor returns the operator's open session, nil when none.
// Caller holds the lock.
func (s *Store) openRegisterFor(operatorID uuid.UUID) *model.CashRegister {
	for _, r := range s.registers {
		if r.OperatorID == operatorID && r.Open() {
			return r
		}
	}
	return nil
}

// appendMovement records one immutable ledger entry. Caller holds the lock.
func (s *Store) appendMovement(registerID uuid.UUID, kind string, amount decimal.Decimal, description string) model.Movement {
	mov := model.Movement{
		ID:             uuid.New(),
		CashRegisterID: registerID,
		Type:           kind,
		Amount:         amount,
		Description:    description,
		CreatedAt:      time.Now(),
	}
	s.movements = append(s.movements, mov)
	return mov
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
