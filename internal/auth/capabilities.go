// Package auth models the operator's permissions as a capability set
// queried through a single predicate, instead of role string comparisons
// scattered through the UI.
package auth

import (
	"strings"

	"posterm/internal/model"
)

// Capability names follow "resource:action" ("products:create",
// "sales:cancel"). A trailing "*" segment or a bare "*" is a wildcard.
type Capability string

const WildcardAll Capability = "*"

// Matches reports whether the granted capability covers the requested one.
// "*" covers everything; "products:*" covers every products action.
func (c Capability) Matches(requested Capability) bool {
	if c == WildcardAll || c == requested {
		return true
	}
	res, action, ok := strings.Cut(string(c), ":")
	if !ok || action != "*" {
		return false
	}
	reqRes, _, _ := strings.Cut(string(requested), ":")
	return res == reqRes
}

// Capabilities is the session's capability set.
type Capabilities struct {
	granted []Capability
}

// FromUser builds the capability set for a user. Owners and admins hold
// every capability; other roles hold exactly their permission list.
func FromUser(u *model.User) Capabilities {
	if u == nil {
		return Capabilities{}
	}
	if u.Role == "owner" || u.Role == "admin" {
		return Capabilities{granted: []Capability{WildcardAll}}
	}
	granted := make([]Capability, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		granted = append(granted, Capability(p))
	}
	return Capabilities{granted: granted}
}

// Has reports whether the set covers the named capability.
func (cs Capabilities) Has(name Capability) bool {
	for _, g := range cs.granted {
		if g.Matches(name) {
			return true
		}
	}
	return false
}
