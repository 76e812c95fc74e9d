// Package authz holds the "same user or privileged role" access decision.
// The decision is pure: it takes the authenticated identity and the request
// path and returns allow/deny, with no ambient state.
package authz

import (
	"strings"

	"github.com/peopleops/hrms-api/internal/core/token"
)

// Decide reports whether the identity may access the resource at
// requestPath.
//
// ADMIN and HR are allowed regardless of path. Everyone else is allowed
// only when the path has the shape /api/users/{id}/... and the id segment
// equals the identity's subject exactly. Ownership is derived from the URL
// on purpose: the resource-naming convention is part of the contract, and
// token subjects are user record ids so both live in the same namespace.
func Decide(id token.Identity, requestPath string) bool {
	if id.Subject == "" {
		return false
	}

	if id.Role.Privileged() {
		return true
	}

	parts := strings.Split(requestPath, "/")
	if len(parts) >= 4 && parts[1] == "api" && parts[2] == "users" {
		return parts[3] == id.Subject
	}

	return false
}
