package model

import (
	"github.com/google/uuid"
)

// User is the operator profile as returned by /login, /register and /me.
// Role: "owner" | "admin" | "operator"
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// Session is the single durable client record: the bearer token plus the
// profile it was issued for. One instance per process, persisted so it
// survives restarts.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
