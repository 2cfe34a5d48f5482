// Package devserver is an in-memory implementation of the REST surface the
// client consumes, for offline development and integration tests. It is a
// test double with real business rules (stock, credit limits, till state),
// not a product backend — nothing is persisted.
package devserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"posterm/internal/config"
	"posterm/internal/model"
)

// Server owns the gin engine and the in-memory store.
type Server struct {
	store    *Store
	secret   string
	tokenTTL time.Duration
	log      zerolog.Logger
}

// New builds a seeded dev server. The returned engine is ready for
// httptest.NewServer or Run.
func New(cfg *config.Config, log zerolog.Logger) (*Server, *gin.Engine) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		store:    NewStore(),
		secret:   cfg.DevServerJWTSecret,
		tokenTTL: time.Duration(cfg.JWTExpirationHours) * time.Hour,
		log:      log,
	}
	s.store.Seed()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	// Auth routes are unprefixed, mirroring the consumed API.
	r.POST("/login", s.handleLogin)
	r.POST("/register", s.handleRegister)
	r.GET("/me", s.requireAuth(), s.handleMe)

	v1 := r.Group("/api/v1", s.requireAuth())
	{
		v1.GET("/products", s.listProducts)
		v1.POST("/products", s.createProduct)
		v1.PUT("/products/:id", s.updateProduct)
		v1.DELETE("/products/:id", s.deleteProduct)
		v1.GET("/products/barcode/:code", s.productByBarcode)
		v1.GET("/products/low-stock", s.lowStockProducts)

		v1.GET("/categories", s.listCategories)
		v1.POST("/categories", s.createCategory)
		v1.PUT("/categories/:id", s.updateCategory)
		v1.DELETE("/categories/:id", s.deleteCategory)

		v1.GET("/customers", s.listCustomers)
		v1.POST("/customers", s.createCustomer)
		v1.PUT("/customers/:id", s.updateCustomer)
		v1.DELETE("/customers/:id", s.deleteCustomer)

		v1.GET("/sales", s.listSales)
		v1.POST("/sales", s.createSale)
		v1.DELETE("/sales/:id", s.cancelSale)
		v1.GET("/sales/stats", s.salesStats)

		v1.GET("/cash-registers", s.listCashRegisters)
		v1.POST("/cash-registers", s.openCashRegister)
		v1.GET("/cash-registers/current", s.currentCashRegister)
		v1.GET("/cash-registers/:id/movements", s.cashRegisterMovements)
		v1.POST("/cash-registers/:id/close", s.closeCashRegister)
		v1.POST("/cash-registers/:id/deposit", s.manualMovement(model.MovementDeposit))
		v1.POST("/cash-registers/:id/withdrawal", s.manualMovement(model.MovementWithdrawal))
		v1.POST("/cash-registers/:id/expense", s.manualMovement(model.MovementExpense))
	}

	return s, r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
