package catalog

import (
	"github.com/google/uuid"
)

// Role of an authenticated caller.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the already authenticated caller, passed explicitly into every operation.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// BuildPrincipal creates a Principal. Unknown roles are treated as RoleUser.
func BuildPrincipal(userID uuid.UUID, role Role) Principal {
	if role != RoleAdmin {
		role = RoleUser
	}

	return Principal{UserID: userID, Role: role}
}

// IsAdmin reports whether the principal has the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanCancel is the authorization predicate for canceling a reservation:
// administrators may cancel any reservation, users only their own.
func CanCancel(principal Principal, reservation Reservation) bool {
	if principal.IsAdmin() {
		return true
	}

	return principal.UserID != uuid.Nil && principal.UserID == reservation.UserID
}

// RequireAdmin is the authorization predicate for catalog administration and the global reservation listing.
func RequireAdmin(principal Principal) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}

	return nil
}
