// Package identity consumes actor identity from bearer tokens. Token
// issuance lives with the identity provider, not here; this package only
// validates tokens and exposes the opaque actor id and role the core
// needs for authorization checks.
package identity

import (
	"github.com/google/uuid"
)

// Roles understood by the authorization checks.
const (
	RoleHR        = "hr"
	RoleApplicant = "applicant"
)

// Actor is the authenticated caller of a core operation. Core operations
// take it as an explicit argument instead of reading ambient state.
type Actor struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// CanManageJobs reports whether the actor may create, edit or close job
// listings and drive application transitions.
func (a Actor) CanManageJobs() bool {
	return a.Role == RoleHR
}
