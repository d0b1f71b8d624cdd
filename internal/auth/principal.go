package auth

import "github.com/google/uuid"

// Role constants for the portal. Role determines scope breadth, never resource identity.
const (
	RoleSuperAdmin    = "super_admin"
	RoleContentAdmin  = "content_admin"
	RoleBusinessOwner = "business_owner"
	RoleVisitor       = "visitor"
)

// Principal is the acting identity for a request, resolved once by the auth
// middleware and passed explicitly into every service call.
type Principal struct {
	ID   uuid.UUID
	Role string
}

// Anonymous marks an unauthenticated request (guest browsing, page-view tracking).
var Anonymous = Principal{}

// IsAnonymous reports whether the principal carries no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == uuid.Nil
}

// ActorID returns the principal id as a nullable reference for audit rows.
func (p Principal) ActorID() *uuid.UUID {
	if p.IsAnonymous() {
		return nil
	}
	id := p.ID
	return &id
}

// ValidRole reports whether a role string is one of the portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleContentAdmin, RoleBusinessOwner, RoleVisitor:
		return true
	}
	return false
}
