package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"posterm/internal/api"
	"posterm/internal/model"
)

const userKey = "user"

// jwtClaims are the custom claims embedded in every dev token.
type jwtClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(u model.User) (string, error) {
	claims := jwtClaims{
		UserID: u.ID.String(),
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

// requireAuth validates the Bearer token on every /api/v1 route and /me.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			errResp(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !token.Valid {
			errResp(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		uid, err := uuid.Parse(claims.UserID)
		if err != nil {
			errResp(c, http.StatusUnauthorized, "malformed token")
			c.Abort()
			return
		}
		s.store.mu.Lock()
		acct, ok := s.store.accounts[uid]
		s.store.mu.Unlock()
		if !ok {
			errResp(c, http.StatusUnauthorized, "unknown user")
			c.Abort()
			return
		}
		c.Set(userKey, acct.user)
		c.Next()
	}
}

// currentUser retrieves the authenticated user set by requireAuth.
func currentUser(c *gin.Context) model.User {
	u, _ := c.MustGet(userKey).(model.User)
	return u
}

func (s *Server) handleLogin(c *gin.Context) {
	var req api.Credentials
	if !bindAndValidate(c, &req) {
		return
	}

	s.store.mu.Lock()
	uid, ok := s.store.emails[req.Email]
	var acct *account
	if ok {
		acct = s.store.accounts[uid]
	}
	s.store.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword([]byte(acct.hash), []byte(req.Password)) != nil {
		errResp(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.issueToken(acct.user)
	if err != nil {
		errResp(c, http.StatusInternalServerError, "token generation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": model.Session{Token: token, User: acct.user}})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req api.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		errResp(c, http.StatusUnprocessableEntity, "name, email and a password of 6+ chars are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errResp(c, http.StatusInternalServerError, "hash failed")
		return
	}
	u := model.User{ID: uuid.New(), Name: req.Name, Email: req.Email, Role: "operator"}

	s.store.mu.Lock()
	if _, exists := s.store.emails[req.Email]; exists {
		s.store.mu.Unlock()
		errResp(c, http.StatusConflict, "email already registered")
		return
	}
	s.store.accounts[u.ID] = &account{user: u, hash: string(hash)}
	s.store.emails[u.Email] = u.ID
	s.store.mu.Unlock()

	token, err := s.issueToken(u)
	if err != nil {
		errResp(c, http.StatusInternalServerError, "token generation failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": model.Session{Token: token, User: u}})
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
