// Package session persists the authenticated operator's session — the
// bearer token plus the user profile it was issued for — in a single JSON
// file so it survives client restarts. The stored record is always the
// token+user composite; a record without a token is treated as absent.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"posterm/internal/model"
)

// Store is the durable session record. All methods are idempotent;
// Clear on an empty store is a no-op.
type Store struct {
	path    string
	current *model.Session
}

// New loads the store from path. A missing or unreadable file simply means
// no session; corruption is discarded rather than surfaced, forcing a
// fresh login.
func New(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		return s
	}
	s.current = &sess
	return s
}

// Save persists the session record and makes it current.
func (s *Store) Save(sess *model.Session) error {
	if sess == nil || sess.Token == "" {
		return errors.New("session: refusing to save a record without a token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	// 0600: the file holds a live bearer token
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	cp := *sess
	s.current = &cp
	return nil
}

// Get returns the current session, or nil when none is stored.
func (s *Store) Get() *model.Session {
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Clear removes the stored session. No-op when nothing is stored.
func (s *Store) Clear() error {
	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

// IsAuthenticated reports whether a session record with a token is present.
// It does not verify the token against the server.
func (s *Store) IsAuthenticated() bool {
	return s.current != nil && s.current.Token != ""
}

// TokenExpired peeks at the JWT exp claim without verifying the signature
// (verification is the server's job) so the UI can prompt for a fresh login
// instead of collecting 401s. Opaque or claim-less tokens report false.
func (s *Store) TokenExpired() bool {
	if s.current == nil {
		return false
	}
	token, _, err := jwt.NewParser().ParseUnverified(s.current.Token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
